/*
Package app assembles the pieces of the ledger into a request processor:
a path router dispatching messages to their extension handlers, and a
decorator chain providing the cross-cutting functionality every handler
should get for free.
*/
package app

import (
	"fmt"
	"regexp"

	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/errors"
)

// isPath defines the valid characters of a routing path, in the form
// "extension/operation".
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router allows us to register many handlers with different paths and then
// direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux.
type Router struct {
	routes map[string]ledger.Handler
}

var _ ledger.Registry = (*Router)(nil)
var _ ledger.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]ledger.Handler),
	}
}

// Handle adds a new Handler for the given path. Panics on duplicate or
// invalid path to ensure misconfiguration surfaces during setup.
func (r *Router) Handle(path string, h ledger.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path, or a noSuchPath
// handler so that callers always have something to call.
func (r *Router) handler(path string) ledger.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return noSuchPathHandler{path: path}
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	path, err := msgPath(tx)
	if err != nil {
		return ledger.CheckResult{}, err
	}
	return r.handler(path).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	path, err := msgPath(tx)
	if err != nil {
		return ledger.DeliverResult{}, err
	}
	return r.handler(path).Deliver(ctx, db, tx)
}

func msgPath(tx ledger.Tx) (string, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return "", errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return "", errors.Wrap(errors.ErrEmpty, "transaction without a message")
	}
	return msg.Path(), nil
}

// noSuchPathHandler always returns ErrNotFound with the offending path.
type noSuchPathHandler struct {
	path string
}

var _ ledger.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(ledger.Context, ledger.KVStore, ledger.Tx) (ledger.CheckResult, error) {
	return ledger.CheckResult{}, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h noSuchPathHandler) Deliver(ledger.Context, ledger.KVStore, ledger.Tx) (ledger.DeliverResult, error) {
	return ledger.DeliverResult{}, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}
