/*
Package ledgertest provides mocked implementations of the core ledger
interfaces. Handlers, transactions and authenticators defined here are
meant to be used in tests instead of the production implementations, so
that each test controls exactly the behavior it needs.
*/
package ledgertest
