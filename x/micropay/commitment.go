package micropay

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/coin"
)

// PaymentDigest builds the digest a payer signs off the ledger to
// authorize one claim. It binds the payee identity, the claim sequence
// number and the amount.
//
// The byte layout is the off-ledger signing contract: payee raw bytes
// (33, compressed secp256k1 public key), nonce as 4 byte big endian,
// amount as 8 byte big endian (coin.Amount.Bytes), reduced with
// BLAKE2b-256. Any client producing signatures must use the exact same
// layout.
func PaymentDigest(payee ledger.Address, nonce uint32, amount coin.Amount) []byte {
	msg := make([]byte, 0, len(payee)+4+8)
	msg = append(msg, payee...)

	var n [4]byte
	binary.BigEndian.PutUint32(n[:], nonce)
	msg = append(msg, n[:]...)

	msg = append(msg, amount.Bytes()...)

	digest := blake2b.Sum256(msg)
	return digest[:]
}
