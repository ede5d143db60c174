package utils

import (
	"fmt"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
)

// Recovery stops a panic in a handler from reaching the node. The panic is
// returned as ErrPanic and logged with the path of the message that caused
// it.
type Recovery struct{}

var _ ballot.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx ballot.Context, store ballot.KVStore, tx ballot.Tx, next ballot.Checker) (_ *ballot.CheckResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx ballot.Context, store ballot.KVStore, tx ballot.Tx, next ballot.Deliverer) (_ *ballot.DeliverResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Deliver(ctx, store, tx)
}

// recoverTx must be deferred directly, recover only works there.
func recoverTx(ctx ballot.Context, tx ballot.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	path := ballot.GetPath(tx)
	ballot.GetLogger(ctx).Error("transaction panic", "path", path, "panic", fmt.Sprint(r))
	*err = errors.Wrapf(errors.ErrPanic, "%s: %v", path, r)
}
