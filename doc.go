/*
Package ledger defines all common interfaces that tie together the
subpackages of this repository, as well as implementations of some of the
simpler components (when interfaces would be too much overhead).

The repository implements a minimal single-token ledger with one
extension: a unidirectional micropayment channel (x/micropay). A payer
opens an on-ledger channel to a payee, issues many cheap off-ledger
payment claims authenticated with secp256k1 signatures, and the payee
settles by submitting the single best claim back on-ledger.

We pass context through context.Context between app, middleware and
handlers. The root package defines common keys to store call information,
such as the block time. Each extension, such as auth, may add its own keys
to enrich the context with specific data.
*/
package ledger
