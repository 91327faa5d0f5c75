/*
Package errors implements custom error interfaces for the ledger.

The idea is to reuse as many errors from this package as possible and
define new errors only when a unique error code is beneficial for the
client. Errors are categorized by their root error. Each root error is
registered under a unique ABCI code, so that clients can reliably match on
a failure class without parsing strings. Use Wrap and Wrapf to add context
to an error while traveling up the stack, and (*Error).Is to test for a
failure class.
*/
package errors
