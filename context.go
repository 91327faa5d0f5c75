package ledger

import (
	"context"
	"time"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/deeper-network/ledger/errors"
)

// Context is just a request-scoped context.Context, as in almost all of Go.
// We use an alias so the intent of function signatures is clear.
type Context = context.Context

type contextKey int // local to the ledger module

const (
	contextKeyHeight contextKey = iota
	contextKeyTime
	contextKeyLogger
)

// DefaultLogger is used for all contexts that have not set anything
// themselves.
var DefaultLogger = log.NewNopLogger()

// WithHeight sets the block height for the Context.
// Must not be called twice on the same context.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("block height already set")
	}
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height, if set.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithBlockTime sets the block time for the Context. The block time is the
// ledger's timestamp oracle: a monotonically non-decreasing instant shared
// by every transaction in a block.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyTime, t)
}

// BlockTime returns the block time, if set.
func BlockTime(ctx Context) (time.Time, error) {
	val, ok := ctx.Value(contextKeyTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrInvalidState, "block time not present in the context")
	}
	return val, nil
}

// WithLogger sets the logger for the Context.
func WithLogger(ctx Context, logger log.Logger) Context {
	// Logger is a private type to avoid collisions, but there is no harm
	// in overwriting it, so no double-set check here.
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger stored in the Context, or a noop logger.
func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return DefaultLogger
}
