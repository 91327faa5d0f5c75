/*
Package coin provides the amount type of the ledger's single native token.

The chain operates one currency only, so an amount is a plain unsigned
integer of the smallest token unit. All arithmetic is checked; silent
wrapping is never acceptable when moving funds.
*/
package coin

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/deeper-network/ledger/errors"
)

// Amount is a value of the native token, expressed in the smallest unit.
//
// When using in protobuf declaration, use gogoproto's typecasting
//
//	uint64 amount = 3 [(gogoproto.casttype) = "github.com/deeper-network/ledger/coin.Amount"];
type Amount uint64

// MaxAmount is the highest representable amount of the native token.
const MaxAmount Amount = math.MaxUint64

// Add returns the sum of both amounts, failing with ErrOverflow when the
// result does not fit the type.
func (a Amount) Add(b Amount) (Amount, error) {
	if a > MaxAmount-b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, b)
	}
	return a + b, nil
}

// Sub returns a reduced by b, failing with ErrInvalidAmount when the result
// would be negative. Callers that want an insufficient funds semantic must
// compare first and translate.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrInvalidAmount, "%s - %s is negative", a, b)
	}
	return a - b, nil
}

// IsZero returns true if this amount represents no tokens.
func (a Amount) IsZero() bool {
	return a == 0
}

// IsPositive returns true if this amount represents at least one token
// unit.
func (a Amount) IsPositive() bool {
	return a > 0
}

// Bytes returns the canonical byte encoding of this amount: 8 bytes,
// big-endian. This encoding is part of the off-ledger signing contract of
// the micropay extension and must never change for a running chain.
func (a Amount) Bytes() []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(a))
	return raw
}

// AmountFromBytes parses the canonical byte encoding as produced by Bytes.
func AmountFromBytes(raw []byte) (Amount, error) {
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "amount must be 8 bytes, got %d", len(raw))
	}
	return Amount(binary.BigEndian.Uint64(raw)), nil
}

// String returns a human readable representation.
func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}
