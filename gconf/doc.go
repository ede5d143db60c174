/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each package stores a single configuration object under its own key. The
object is loaded from the genesis file once and read by handlers as
needed. Values are validated before they are written.
*/
package gconf
