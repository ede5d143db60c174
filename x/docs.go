/*
Package x contains the extensions of the ballot application.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together in the app package to construct
the application. Authentication is abstracted behind the
Authenticator interface so handlers never depend on how a signer
was verified.
*/
package x
