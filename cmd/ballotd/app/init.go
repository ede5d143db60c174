package app

import (
	"encoding/json"
	"path/filepath"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/commands/server"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/x/voting"
	abci "github.com/tendermint/tendermint/abci/types"
)

// GenInitOptions produces the genesis app_state of a new ballot. The first
// argument is the chairperson address, the rest are the proposal labels.
// Without any argument the chain starts with no ballot and one must be
// created with a transaction.
func GenInitOptions(args []string) (json.RawMessage, error) {
	type dict map[string]interface{}

	state := dict{
		"conf": dict{
			voting.ConfigurationKey: voting.Configuration{
				MaxProposals: voting.DefaultMaxProposals,
			},
		},
	}
	if len(args) > 0 {
		chair, err := ballot.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "chairperson")
		}
		labels := args[1:]
		msg := voting.CreateBallotMsg{Proposals: labels}
		if err := msg.Validate(); err != nil {
			return nil, errors.Wrap(err, "proposals")
		}
		state["voting"] = dict{
			"chairperson": chair,
			"proposals":   labels,
		}
	}
	return json.Marshal(state)
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "data", "ballot.db")
	}

	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	application, err := Application(Name, Stack(), TxDecoder, kv, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(options.Logger)
	return application, nil
}
