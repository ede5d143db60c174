package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/resppiano/ballot/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	flagForce   = "force"
)

// GenOptions builds the application specific genesis app_state from the
// init command arguments.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisFile returns the path of the tendermint genesis file under home.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd returns the command that writes the application state into an
// existing tendermint genesis file, created by `tendermint init`.
// Home is read when the command runs, so it may point to a flag value.
func InitCmd(gen GenOptions, logger log.Logger, home *string) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [args...]",
		Short: "Initialize app_state in the genesis file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return InitGenesis(gen, logger, *home, force, args)
		},
	}
	cmd.Flags().BoolVar(&force, flagForce, false, "overwrite an app_state that is already set")
	return cmd
}

// InitGenesis writes the options produced by gen into the genesis file
// found under home.
func InitGenesis(gen GenOptions, logger log.Logger, home string, force bool, args []string) error {
	options, err := gen(args)
	if err != nil {
		return errors.Wrap(err, "generate app_state")
	}
	genFile := GenesisFile(home)
	if err := addGenesisOptions(genFile, options, force); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "genesis file %s, run tendermint init first", filename)
		}
		return errors.Wrap(err, "read genesis file")
	}

	var doc genesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis file %s: %s", filename, err)
	}

	if prev, ok := doc[appStateKey]; ok && !isEmptyJSON(prev) && !force {
		return errors.Wrap(errors.ErrState, "app_state already set, use --force to overwrite")
	}
	doc[appStateKey] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serialize genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}

func isEmptyJSON(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "{}", `""`:
		return true
	}
	return false
}
