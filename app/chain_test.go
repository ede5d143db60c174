package app

import (
	"context"
	"testing"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/ballottest"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/store"
	"github.com/stretchr/testify/assert"
)

// orderDecorator appends its name to a shared log before calling next.
type orderDecorator struct {
	name string
	log  *[]string
}

func (d orderDecorator) Check(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx, next ballot.Checker) (*ballot.CheckResult, error) {
	*d.log = append(*d.log, d.name)
	return next.Check(ctx, db, tx)
}

func (d orderDecorator) Deliver(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx, next ballot.Deliverer) (*ballot.DeliverResult, error) {
	*d.log = append(*d.log, d.name)
	return next.Deliver(ctx, db, tx)
}

func TestChainOrder(t *testing.T) {
	var calls []string
	var missing *ballottest.Decorator

	h := &ballottest.Handler{}
	stack := ChainDecorators(
		orderDecorator{name: "first", log: &calls},
		nil,
		missing,
	).Chain(
		orderDecorator{name: "second", log: &calls},
	).WithHandler(h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &ballottest.Tx{Msg: &ballottest.Msg{RoutePath: "voting/vote"}}

	_, err := stack.Deliver(ctx, db, tx)
	assert.NoError(t, err)
	_, err = stack.Check(ctx, db, tx)
	assert.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "first", "second"}, calls)
	assert.Equal(t, 2, h.CallCount())
}

func TestChainStopsOnError(t *testing.T) {
	guard := &ballottest.Decorator{DeliverErr: errors.ErrUnauthorized}
	after := &ballottest.Decorator{}
	h := &ballottest.Handler{}

	stack := ChainDecorators(guard, after).WithHandler(h)
	tx := &ballottest.Tx{Msg: &ballottest.Msg{RoutePath: "voting/vote"}}

	_, err := stack.Deliver(context.Background(), store.MemStore(), tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 0, after.CallCount())
	assert.Equal(t, 0, h.DeliverCallCount())

	_, err = stack.Check(context.Background(), store.MemStore(), tx)
	assert.NoError(t, err)
	assert.Equal(t, 1, after.CallCount())
	assert.Equal(t, 1, h.CheckCallCount())
}

func TestChainDoesNotShareBackingArray(t *testing.T) {
	var calls []string
	base := ChainDecorators(orderDecorator{name: "base", log: &calls})
	left := base.Chain(orderDecorator{name: "left", log: &calls}).WithHandler(&ballottest.Handler{})
	base.Chain(orderDecorator{name: "right", log: &calls})

	_, err := left.Check(context.Background(), store.MemStore(), &ballottest.Tx{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"base", "left"}, calls)
}
