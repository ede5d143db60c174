package app

import (
	"fmt"
	"regexp"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
)

// isPath is the format of a message path, eg. "voting/vote"
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_]+(/[a-zA-Z0-9_]+)*$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]ballot.Handler
}

var _ ballot.Registry = (*Router)(nil)
var _ ballot.Handler = (*Router)(nil)

// NewRouter returns a new router instance with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]ballot.Handler),
	}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered or the path is malformed.
func (r *Router) Handle(path string, h ballot.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is found,
// returns a noSuchPath Handler. Always returns a non-nil Handler.
func (r *Router) handler(path string) ballot.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return noSuchPathHandler{path: path}
}

// Check dispatches to the proper handler based on path.
func (r *Router) Check(ctx ballot.Context, store ballot.KVStore, tx ballot.Tx) (*ballot.CheckResult, error) {
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, err
	}
	return r.handler(msg.Path()).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path.
func (r *Router) Deliver(ctx ballot.Context, store ballot.KVStore, tx ballot.Tx) (*ballot.DeliverResult, error) {
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, err
	}
	return r.handler(msg.Path()).Deliver(ctx, store, tx)
}

func loadMsg(tx ballot.Tx) (ballot.Msg, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "transaction has no message")
	}
	return msg, nil
}

// noSuchPathHandler returns a not found error for every message.
type noSuchPathHandler struct {
	path string
}

func (h noSuchPathHandler) Check(ballot.Context, ballot.KVStore, ballot.Tx) (*ballot.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h noSuchPathHandler) Deliver(ballot.Context, ballot.KVStore, ballot.Tx) (*ballot.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}
