package app

import (
	"reflect"

	"github.com/resppiano/ballot"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []ballot.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (the Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    utils.NewRecovery(),
    utils.NewLogging(),
    sigs.NewDecorator(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(
    router,
  )
*/
func ChainDecorators(chain ...ballot.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain.
// Nil decorators are skipped so that optional steps can be passed inline.
func (d Decorators) Chain(chain ...ballot.Decorator) Decorators {
	next := make([]ballot.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if isNil(dec) {
			continue
		}
		next = append(next, dec)
	}
	return Decorators{chain: next}
}

func isNil(d ballot.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h ballot.Handler) ballot.Handler {
	// the first decorator in the chain must be the outermost one
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler. Simplified version of a closure.
type step struct {
	d    ballot.Decorator
	next ballot.Handler
}

var _ ballot.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx ballot.Context, store ballot.KVStore, tx ballot.Tx) (*ballot.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx ballot.Context, store ballot.KVStore, tx ballot.Tx) (*ballot.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
