/*
Package ballottest provides mocks and helpers that are useful when testing
handlers, decorators and extensions of the ballot application.
*/
package ballottest
