/*
Package utils contains the decorators that wrap every handler of the
application: panic recovery, transaction logging, action tagging and
savepoints that make a failed transaction leave no trace in the store.
*/
package utils
