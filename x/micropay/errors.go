package micropay

import "github.com/deeper-network/ledger/errors"

// micropay reserves ABCI response codes 1010-1019.
var (
	// ErrChannelExists is returned when opening a channel for a pair
	// that already has one.
	ErrChannelExists = errors.Register(1010, "channel already open")

	// ErrSelfChannel is returned when payer and payee are the same
	// account.
	ErrSelfChannel = errors.Register(1011, "self channel not allowed")

	// ErrChannelNotFound is returned when no channel exists for the
	// pair.
	ErrChannelNotFound = errors.Register(1012, "channel not found")

	// ErrNonceConsumed is returned when a claim replays an already
	// settled sequence number.
	ErrNonceConsumed = errors.Register(1013, "nonce already consumed")

	// ErrInvalidPubKey is returned when the payer account identifier is
	// not a well formed compressed public key.
	ErrInvalidPubKey = errors.Register(1014, "invalid public key encoding")

	// ErrInvalidSignature is returned when the signature bytes are
	// malformed.
	ErrInvalidSignature = errors.Register(1015, "invalid signature encoding")

	// ErrFailedSignature is returned when a well formed signature does
	// not authenticate the claim digest.
	ErrFailedSignature = errors.Register(1016, "signature verification failed")
)
