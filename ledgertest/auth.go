package ledgertest

import (
	"context"
	"fmt"

	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/crypto"
)

// NewKey returns a fresh random secp256k1 private key. Its compressed
// public key serves as the account address of the owner.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeySecp256k1()
}

// NewAddress returns a random address that belongs to a freshly generated
// secp256k1 key. The key itself is discarded, so use NewKey instead when
// the test must produce signatures.
func NewAddress() ledger.Address {
	return NewKey().PublicKey()
}

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of the referenced addresses. You can
// use either Signer or Signers (or both) attributes to reference them.
// This is for the convinience and each time all signers (regardless which
// attribute) are considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convinience attribute when creating an authentication method for a
	// single signer.
	// When authenticating all signers declared on this structure are
	// considered.
	Signer ledger.Address

	// Signers represents an authentication of multiple signers.
	Signers []ledger.Address
}

func (a *Auth) GetSigners(ledger.Context) []ledger.Address {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s) {
			return true
		}
	}
	if a.Signer == nil {
		return false
	}
	return addr.Equals(a.Signer)
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers.
type CtxAuth struct {
	// Key used to set and retrieve signers from the context. For
	// convinience only string type keys are allowed.
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetSigners(ctx ledger.Context, signers ...ledger.Address) ledger.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), signers)
}

func (a *CtxAuth) GetSigners(ctx ledger.Context) []ledger.Address {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	signers, ok := val.([]ledger.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []ledger.Address got %T", val))
	}
	return signers
}

func (a *CtxAuth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
