/*
Package x contains the extensions of the ledger.

Extensions implement common functionality (Handler, Decorator, etc.)
and can be combined together to construct an application. This package
itself holds only the interfaces the extensions share, most notably the
Authenticator contract that supplies handlers with the identity of the
transaction signer.
*/
package x
