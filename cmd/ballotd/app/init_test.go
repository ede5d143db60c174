package app

import (
	"encoding/json"
	"testing"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/ballottest"
	"github.com/resppiano/ballot/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenInitOptions(t *testing.T) {
	chair := ballottest.NewCondition().Address()

	raw, err := GenInitOptions([]string{chair.String(), "tea", "coffee"})
	require.NoError(t, err)

	var state struct {
		Conf struct {
			Voting struct {
				MaxProposals uint32 `json:"max_proposals"`
			} `json:"voting"`
		} `json:"conf"`
		Voting struct {
			Chairperson ballot.Address `json:"chairperson"`
			Proposals   []string       `json:"proposals"`
		} `json:"voting"`
	}
	require.NoError(t, json.Unmarshal(raw, &state))
	assert.Equal(t, uint32(256), state.Conf.Voting.MaxProposals)
	assert.Equal(t, chair, state.Voting.Chairperson)
	assert.Equal(t, []string{"tea", "coffee"}, state.Voting.Proposals)

	// no arguments means no ballot
	raw, err = GenInitOptions(nil)
	require.NoError(t, err)
	var opts ballot.Options
	require.NoError(t, json.Unmarshal(raw, &opts))
	assert.Contains(t, opts, "conf")
	assert.NotContains(t, opts, "voting")
}

func TestGenInitOptionsErrors(t *testing.T) {
	_, err := GenInitOptions([]string{"not-hex", "tea"})
	assert.True(t, errors.ErrInput.Is(err))

	chair := ballottest.NewCondition().Address()
	_, err = GenInitOptions([]string{chair.String(), ""})
	assert.True(t, errors.ErrEmpty.Is(err))
}
