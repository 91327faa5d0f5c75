/*
Package crypto wraps the secp256k1 primitives used by the ledger.

Account addresses are raw compressed secp256k1 public keys, so this package
is the single place that knows how to turn an address back into a key and
how off-ledger payment claims are signed. Signatures travel on the wire as
64 bytes: the R scalar followed by the S scalar, both big-endian.
*/
package crypto

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/errors"
)

const (
	// PubKeySize is the byte length of a compressed secp256k1 public key
	// and therefore of every account address.
	PubKeySize = btcec.PubKeyBytesLenCompressed

	// SignatureSize is the byte length of a raw R||S signature.
	SignatureSize = 64
)

// ParsePubKey interprets an account address as a compressed secp256k1
// public key. The length is validated before any fixed-width access, so a
// malformed address is a recoverable error, never a crash.
func ParsePubKey(raw []byte) (*btcec.PublicKey, error) {
	if len(raw) != PubKeySize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "public key must be %d bytes, got %d", PubKeySize, len(raw))
	}
	key, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return key, nil
}

// ParseSignature parses a raw 64 byte R||S signature.
func ParseSignature(raw []byte) (*ecdsa.Signature, error) {
	if len(raw) != SignatureSize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "signature must be %d bytes, got %d", SignatureSize, len(raw))
	}

	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(raw[:32]); overflow {
		return nil, errors.Wrap(errors.ErrInvalidInput, "signature R overflows the curve order")
	}
	if overflow := s.SetByteSlice(raw[32:]); overflow {
		return nil, errors.Wrap(errors.ErrInvalidInput, "signature S overflows the curve order")
	}
	return ecdsa.NewSignature(&r, &s), nil
}

// PrivateKey is a secp256k1 signing key. It is used by clients to sign
// off-ledger payment claims and throughout the tests. The ledger itself
// only ever verifies.
type PrivateKey struct {
	key *btcec.PrivateKey
}

// GenPrivKeySecp256k1 returns a new random private key.
func GenPrivKeySecp256k1() *PrivateKey {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		panic(err)
	}
	return &PrivateKey{key: key}
}

// PrivKeySecp256k1FromSeed deterministically derives a private key from the
// given seed bytes. Use only in tests or with a strong external source of
// randomness.
func PrivKeySecp256k1FromSeed(seed []byte) *PrivateKey {
	key, _ := btcec.PrivKeyFromBytes(seed)
	return &PrivateKey{key: key}
}

// PublicKey returns the account address of this key, the compressed
// serialization of the public key point.
func (p *PrivateKey) PublicKey() ledger.Address {
	return ledger.Address(p.key.PubKey().SerializeCompressed())
}

// Sign produces a raw 64 byte R||S signature over the given digest.
func (p *PrivateKey) Sign(digest []byte) ([]byte, error) {
	// SignCompact prepends a recovery id byte that the raw wire format
	// does not carry.
	compact, err := ecdsa.SignCompact(p.key, digest, true)
	if err != nil {
		return nil, errors.Wrap(err, "sign digest")
	}
	return compact[1:], nil
}
