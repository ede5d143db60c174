/*
Package tmtest provides helpers for tests that need a tendermint home
directory.
*/
package tmtest

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/resppiano/ballot/ballottest/assert"
)

// SetupConfig creates a temporary home directory with a config/genesis.json
// file, as written by `tendermint init`, for the given chain id. The file
// has no app_state yet.
//
// second argument is cleanup call
func SetupConfig(t assert.Tester, chainID string) (string, func()) {
	rootDir, err := ioutil.TempDir("", "ballot-home")
	assert.Nil(t, err)
	cleanup := func() { os.RemoveAll(rootDir) }

	if err := writeGenesis(rootDir, chainID); err != nil {
		cleanup()
		t.Fatalf("Cannot write genesis: %+v", err)
	}
	return rootDir, cleanup
}

func writeGenesis(rootDir, chainID string) error {
	configDir := filepath.Join(rootDir, "config")
	if err := os.Mkdir(configDir, 0755); err != nil {
		return err
	}
	doc := map[string]interface{}{
		"genesis_time": time.Date(2019, 5, 1, 12, 0, 0, 0, time.UTC),
		"chain_id":     chainID,
		"consensus_params": map[string]interface{}{
			"block": map[string]string{
				"max_bytes":    "22020096",
				"max_gas":      "-1",
				"time_iota_ms": "1000",
			},
		},
		"validators": []interface{}{},
		"app_hash":   "",
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filepath.Join(configDir, "genesis.json"), raw, 0600)
}
