package ballot_test

import (
	"context"
	"testing"
	"time"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()
	ctx := ballot.WithHeight(bg, 7)

	height, ok := ballot.GetHeight(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), height)
	_, ok = ballot.GetHeight(bg)
	assert.False(t, ok)

	// block information cannot be overwritten
	assert.Panics(t, func() { ballot.WithHeight(ctx, 8) })

	header := abci.Header{Height: 7, ChainID: "ballot-test"}
	ctx = ballot.WithHeader(ctx, header)
	got, ok := ballot.GetHeader(ctx)
	require.True(t, ok)
	assert.Equal(t, header, got)
	assert.Panics(t, func() { ballot.WithHeader(ctx, abci.Header{}) })

	// default logger is used until one is set
	assert.Equal(t, ballot.DefaultLogger, ballot.GetLogger(ctx))
	logger := log.NewNopLogger().With("module", "test")
	ctx = ballot.WithLogger(ctx, logger)
	assert.Equal(t, logger, ballot.GetLogger(ctx))
}

func TestChainID(t *testing.T) {
	cases := map[string]bool{
		"":                            false,
		"short":                       false,
		"ballot-test":                 true,
		"ballot_chain-42":             true,
		"has spaces in":               false,
		"way-too-long-for-a-chain-id": false,
	}
	for id, valid := range cases {
		t.Run(id, func(t *testing.T) {
			assert.Equal(t, valid, ballot.IsValidChainID(id))
		})
	}

	bg := context.Background()
	assert.Panics(t, func() { ballot.GetChainID(bg) })
	assert.Panics(t, func() { ballot.WithChainID(bg, "bad id") })

	ctx := ballot.WithChainID(bg, "ballot-test")
	assert.Equal(t, "ballot-test", ballot.GetChainID(ctx))
	assert.Panics(t, func() { ballot.WithChainID(ctx, "another-one") })
}

func TestBlockTime(t *testing.T) {
	bg := context.Background()

	_, err := ballot.BlockTime(bg)
	assert.True(t, errors.ErrHuman.Is(err))

	_, err = ballot.BlockTime(ballot.WithBlockTime(bg, time.Time{}))
	assert.True(t, errors.ErrHuman.Is(err))

	now := time.Date(2019, 4, 12, 10, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	got, err := ballot.BlockTime(ballot.WithBlockTime(bg, now))
	require.NoError(t, err)
	assert.True(t, now.Equal(got))
	assert.Equal(t, time.UTC, got.Location())
}
