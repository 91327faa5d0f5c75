package app

import (
	"github.com/deeper-network/ledger"
)

// Decorators holds a chain of decorators, not yet bound to a handler.
type Decorators struct {
	chain []ledger.Decorator
}

// ChainDecorators takes a chain of decorators, in the order in which they
// should wrap an eventual handler. The first decorator is the outermost.
func ChainDecorators(chain ...ledger.Decorator) Decorators {
	return Decorators{chain: chain}
}

// Chain appends more decorators to the current set.
func (d Decorators) Chain(chain ...ledger.Decorator) Decorators {
	return Decorators{chain: append(d.chain, chain...)}
}

// WithHandler resolves the decorator chain into a single Handler by
// binding it to the innermost business logic handler.
func (d Decorators) WithHandler(h ledger.Handler) ledger.Handler {
	res := h
	for i := len(d.chain) - 1; i >= 0; i-- {
		res = chainLink{decorator: d.chain[i], next: res}
	}
	return res
}

// chainLink binds one decorator to the rest of the chain below it.
type chainLink struct {
	decorator ledger.Decorator
	next      ledger.Handler
}

var _ ledger.Handler = chainLink{}

func (l chainLink) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	return l.decorator.Check(ctx, db, tx, l.next)
}

func (l chainLink) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	return l.decorator.Deliver(ctx, db, tx, l.next)
}
