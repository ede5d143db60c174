package voting

import (
	"encoding/json"
	"testing"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/ballottest"
	"github.com/resppiano/ballot/ballottest/assert"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/gconf"
	"github.com/resppiano/ballot/store"
)

func saveConf(db gconf.Store, max uint32) error {
	return gconf.Save(db, ConfigurationKey, &Configuration{MaxProposals: max})
}

func TestGenesis(t *testing.T) {
	chair := ballottest.NewCondition().Address()

	cases := map[string]struct {
		genesis    string
		wantErr    *errors.Error
		wantBallot bool
		wantMax    uint32
	}{
		"ballot with default configuration": {
			genesis:    `{"voting": {"chairperson": "` + chair.String() + `", "proposals": ["red", "blue"]}}`,
			wantBallot: true,
			wantMax:    DefaultMaxProposals,
		},
		"configured limit": {
			genesis: `{
				"conf": {"voting": {"max_proposals": 3}},
				"voting": {"chairperson": "` + chair.String() + `", "proposals": ["red"]}
			}`,
			wantBallot: true,
			wantMax:    3,
		},
		"no ballot section": {
			genesis: `{}`,
			wantMax: DefaultMaxProposals,
		},
		"too many proposals": {
			genesis: `{
				"conf": {"voting": {"max_proposals": 1}},
				"voting": {"chairperson": "` + chair.String() + `", "proposals": ["red", "blue"]}
			}`,
			wantErr: errors.ErrInput,
		},
		"empty label": {
			genesis: `{"voting": {"chairperson": "` + chair.String() + `", "proposals": [""]}}`,
			wantErr: errors.ErrEmpty,
		},
		"invalid configuration": {
			genesis: `{"conf": {"voting": {"max_proposals": 0}}}`,
			wantErr: errors.ErrInput,
		},
		"invalid chairperson": {
			genesis: `{"voting": {"chairperson": "zz", "proposals": ["red"]}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts ballot.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, db)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}

			conf, err := loadConf(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantMax, conf.MaxProposals)

			b, err := NewController().Ballot(db)
			if !tc.wantBallot {
				assert.IsErr(t, errors.ErrNotFound, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, chair, b.Chairperson)
			v, err := NewController().Voter(db, chair)
			assert.Nil(t, err)
			assert.Equal(t, uint64(1), v.Weight)
		})
	}
}
