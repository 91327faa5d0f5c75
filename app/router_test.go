package app

import (
	"context"
	"testing"

	"github.com/deeper-network/ledger/errors"
	"github.com/deeper-network/ledger/ledgertest"
	"github.com/deeper-network/ledger/store"
	"github.com/stretchr/testify/assert"
)

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()

	const path = "test/good"
	h := &ledgertest.Handler{}
	r.Handle(path, h)

	tx := &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: path}}
	db := store.NewMemStore()

	if _, err := r.Check(context.Background(), db, tx); err != nil {
		t.Fatalf("unexpected check error: %+v", err)
	}
	if _, err := r.Deliver(context.Background(), db, tx); err != nil {
		t.Fatalf("unexpected deliver error: %+v", err)
	}
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()
	r.Handle("test/good", &ledgertest.Handler{})

	tx := &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "test/missing"}}
	db := store.NewMemStore()

	if _, err := r.Check(context.Background(), db, tx); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
	if _, err := r.Deliver(context.Background(), db, tx); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}

func TestRouterInvalidPathPanics(t *testing.T) {
	r := NewRouter()
	assert.Panics(t, func() {
		r.Handle("no-separator", &ledgertest.Handler{})
	})
}

func TestRouterDuplicatePathPanics(t *testing.T) {
	r := NewRouter()
	r.Handle("test/good", &ledgertest.Handler{})
	assert.Panics(t, func() {
		r.Handle("test/good", &ledgertest.Handler{})
	})
}

func TestChainDecorators(t *testing.T) {
	d1 := &ledgertest.Decorator{}
	d2 := &ledgertest.Decorator{}
	h := &ledgertest.Handler{}

	chain := ChainDecorators(d1).Chain(d2).WithHandler(h)
	db := store.NewMemStore()
	tx := &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "test/good"}}

	if _, err := chain.Check(context.Background(), db, tx); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if _, err := chain.Deliver(context.Background(), db, tx); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	assert.Equal(t, 2, d1.CallCount())
	assert.Equal(t, 2, d2.CallCount())
	assert.Equal(t, 2, h.CallCount())
}
