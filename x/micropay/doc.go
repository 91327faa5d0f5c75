/*
Package micropay implements unidirectional off-ledger micropayment
channels.

Two parties register a channel on the ledger and then exchange many small
payments off the ledger, authenticated by the payer's signatures. The
payee settles by submitting the single highest-value signed claim back to
the ledger. Settlement verifies the signature, guards against replay with
a per-channel nonce ledger and moves the funds in one atomic operation.

Except for the opening and closing transaction, all channel operations
happen off the ledger and are therefore very fast and cheap to execute.
*/
package micropay
