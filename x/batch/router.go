package batch

import (
	"fmt"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
)

// CallHandler executes a single call. This is where the business logic of
// an approved call lives.
type CallHandler interface {
	Call(ctx bridge.Context, db bridge.KVStore, call *Call) (*bridge.DeliverResult, error)
}

// CallHandlerFunc is an adapter to use a function as a CallHandler.
type CallHandlerFunc func(ctx bridge.Context, db bridge.KVStore, call *Call) (*bridge.DeliverResult, error)

// Call calls f(ctx, db, call).
func (f CallHandlerFunc) Call(ctx bridge.Context, db bridge.KVStore, call *Call) (*bridge.DeliverResult, error) {
	return f(ctx, db, call)
}

// Router dispatches calls to the handler registered for their path.
type Router struct {
	routes map[string]CallHandler
}

// NewRouter returns a router without any handler registered.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]CallHandler),
	}
}

// Handle registers a handler for given path. Registering a path twice
// panics.
func (r *Router) Handle(path string, h CallHandler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid call path %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering call path %q", path))
	}
	r.routes[path] = h
}

// Handler returns the handler of given path. A path without a handler is
// served by a handler that always fails.
func (r *Router) Handler(path string) CallHandler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

func notFoundHandler(path string) CallHandler {
	return CallHandlerFunc(func(bridge.Context, bridge.KVStore, *Call) (*bridge.DeliverResult, error) {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for call path %q", path)
	})
}
