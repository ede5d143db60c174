package utils

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/ballottest"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// writeHandler writes the key value pair and then returns err.
type writeHandler struct {
	key, value []byte
	err        error
}

func (h writeHandler) Check(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &ballot.CheckResult{}, nil
}

func (h writeHandler) Deliver(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &ballot.DeliverResult{}, nil
}

// panicHandler always panics
type panicHandler struct{}

func (panicHandler) Check(ballot.Context, ballot.KVStore, ballot.Tx) (*ballot.CheckResult, error) {
	panic("check boom")
}

func (panicHandler) Deliver(ballot.Context, ballot.KVStore, ballot.Tx) (*ballot.DeliverResult, error) {
	panic("deliver boom")
}

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	derr := fmt.Errorf("something went wrong")

	cases := map[string]struct {
		save    ballot.Decorator
		handler ballot.Handler
		check   bool
		isError bool
		written [][]byte
		missing [][]byte
	}{
		"savepoint disabled keeps partial writes": {
			save:    NewSavepoint(),
			handler: writeHandler{nk, nv, derr},
			check:   true,
			isError: true,
			written: [][]byte{ok, nk},
		},
		"check savepoint rolls back": {
			save:    NewSavepoint().OnCheck(),
			handler: writeHandler{nk, nv, derr},
			check:   true,
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint rolls back": {
			save:    NewSavepoint().OnDeliver(),
			handler: writeHandler{nk, nv, derr},
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation keeps both": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: writeHandler{nk, nv, derr},
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: writeHandler{nk, nv, derr},
			isError: true,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: writeHandler{nk, nv, nil},
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			h := ballottest.Decorate(tc.handler, tc.save)
			var err error
			if tc.check {
				_, err = h.Check(context.Background(), kv, &ballottest.Tx{})
			} else {
				_, err = h.Deliver(context.Background(), kv, &ballottest.Tx{})
			}
			assert.Equal(t, tc.isError, err != nil)

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%X", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%X", k)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	h := ballottest.Decorate(panicHandler{}, NewRecovery())
	kv := store.MemStore()

	var buf bytes.Buffer
	ctx := ballot.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
	tx := &ballottest.Tx{Msg: &ballottest.Msg{RoutePath: "voting/vote"}}

	_, err := h.Check(ctx, kv, tx)
	require.Error(t, err)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "voting/vote: check boom")
	assert.Contains(t, buf.String(), "transaction panic")
	assert.Contains(t, buf.String(), "check boom")

	buf.Reset()
	_, err = h.Deliver(ctx, kv, &ballottest.Tx{})
	require.Error(t, err)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "(missing): deliver boom")
	assert.Contains(t, buf.String(), "deliver boom")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := ballot.WithLogger(context.Background(), logger)
	tx := &ballottest.Tx{Msg: &ballottest.Msg{RoutePath: "voting/vote"}}

	ok := ballottest.Decorate(&ballottest.Handler{DeliverResult: ballot.DeliverResult{Log: "counted"}}, NewLogging())
	_, err := ok.Deliver(ctx, store.MemStore(), tx)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "counted")
	assert.Contains(t, buf.String(), "voting/vote")

	buf.Reset()
	bad := ballottest.Decorate(&ballottest.Handler{DeliverErr: errors.ErrUnauthorized}, NewLogging())
	_, err = bad.Deliver(ctx, store.MemStore(), tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Contains(t, buf.String(), "unauthorized")
}

func TestActionTagger(t *testing.T) {
	tx := &ballottest.Tx{Msg: &ballottest.Msg{RoutePath: "voting/delegate"}}
	h := ballottest.Decorate(&ballottest.Handler{}, NewActionTagger())

	res, err := h.Deliver(context.Background(), store.MemStore(), tx)
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, ActionKey, string(res.Tags[0].Key))
	assert.Equal(t, "voting/delegate", string(res.Tags[0].Value))

	failing := ballottest.Decorate(&ballottest.Handler{DeliverErr: errors.ErrState}, NewActionTagger())
	_, err = failing.Deliver(context.Background(), store.MemStore(), tx)
	assert.True(t, errors.ErrState.Is(err))
}
