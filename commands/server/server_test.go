package server

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"testing"
	"time"

	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/tmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func genLabels(args []string) (json.RawMessage, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "labels")
	}
	return json.Marshal(map[string]interface{}{"labels": args})
}

func readGenesis(t *testing.T, home string) map[string]json.RawMessage {
	t.Helper()
	raw, err := ioutil.ReadFile(GenesisFile(home))
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestInitCmd(t *testing.T) {
	home, cleanup := tmtest.SetupConfig(t, "ballot-chain")
	defer cleanup()

	cmd := InitCmd(genLabels, log.NewNopLogger(), &home)
	cmd.SetArgs([]string{"tea", "coffee"})
	require.NoError(t, cmd.Execute())

	doc := readGenesis(t, home)
	// keep old values, and add our values
	assert.JSONEq(t, `"ballot-chain"`, string(doc["chain_id"]))
	assert.JSONEq(t, `{"labels": ["tea", "coffee"]}`, string(doc[appStateKey]))

	// a second run must not silently replace the state
	err := InitGenesis(genLabels, log.NewNopLogger(), home, false, []string{"water"})
	assert.True(t, errors.ErrState.Is(err))

	require.NoError(t, InitGenesis(genLabels, log.NewNopLogger(), home, true, []string{"water"}))
	doc = readGenesis(t, home)
	assert.JSONEq(t, `{"labels": ["water"]}`, string(doc[appStateKey]))
}

func TestInitErrors(t *testing.T) {
	home, cleanup := tmtest.SetupConfig(t, "ballot-chain")
	defer cleanup()

	err := InitGenesis(genLabels, log.NewNopLogger(), home, false, nil)
	assert.True(t, errors.ErrEmpty.Is(err))

	missing := home + "/nothing-here"
	err = InitGenesis(genLabels, log.NewNopLogger(), missing, false, []string{"tea"})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestStart(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping ABCI stand-alone test")
	}

	var built *Options
	gen := func(opts *Options) (abci.Application, error) {
		built = opts
		return abci.NewBaseApplication(), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	opts := &Options{Home: "unused", Logger: log.NewNopLogger(), Debug: true}
	go func() {
		done <- Start(ctx, gen, opts, "tcp://127.0.0.1:0")
	}()

	select {
	case err := <-done:
		t.Fatalf("server stopped early: %+v", err)
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	require.NotNil(t, built)
	assert.True(t, built.Debug)
}

func TestStartGeneratorFailure(t *testing.T) {
	gen := func(*Options) (abci.Application, error) {
		return nil, errors.ErrDatabase
	}
	opts := &Options{Logger: log.NewNopLogger()}
	err := Start(context.Background(), gen, opts, DefaultBind)
	assert.True(t, errors.ErrDatabase.Is(err))
}
