package voting

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/gconf"
)

const (
	// ConfigurationKey is the name of the package configuration in the
	// "conf" genesis section and in the database.
	ConfigurationKey = "voting"

	// DefaultMaxProposals is used when no configuration is provided.
	DefaultMaxProposals uint32 = 256
)

// Configuration bounds the ballot that can be created.
type Configuration struct {
	MaxProposals uint32 `json:"max_proposals"`
}

// Validate ensures a ballot can have at least one proposal.
func (c *Configuration) Validate() error {
	if c.MaxProposals == 0 {
		return errors.Wrap(errors.ErrInput, "max proposals must be positive")
	}
	return nil
}

// loadConf returns the stored configuration or the default one.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	conf := Configuration{MaxProposals: DefaultMaxProposals}
	err := gconf.Load(db, ConfigurationKey, &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}

func checkProposalCount(db gconf.ReadStore, n int) error {
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if int64(n) > int64(conf.MaxProposals) {
		return errors.Wrapf(errors.ErrInput, "%d proposals, at most %d allowed", n, conf.MaxProposals)
	}
	return nil
}

// Initializer fulfils the Initializer interface to load data from the genesis file
type Initializer struct{}

var _ ballot.Initializer = Initializer{}

// FromGenesis stores the configuration and, if the "voting" section names
// a chairperson, creates the ballot.
func (Initializer) FromGenesis(opts ballot.Options, db ballot.KVStore) error {
	conf := Configuration{MaxProposals: DefaultMaxProposals}
	if err := gconf.InitConfig(db, opts, ConfigurationKey, &conf); err != nil {
		return errors.Wrap(err, "init configuration")
	}

	var genesis struct {
		Chairperson ballot.Address `json:"chairperson"`
		Proposals   []string       `json:"proposals"`
	}
	if err := opts.ReadOptions("voting", &genesis); err != nil {
		return err
	}
	if genesis.Chairperson == nil {
		return nil
	}

	msg := CreateBallotMsg{Proposals: genesis.Proposals}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "genesis ballot")
	}
	if err := checkProposalCount(db, len(msg.Proposals)); err != nil {
		return errors.Wrap(err, "genesis ballot")
	}
	if _, err := NewController().Create(db, genesis.Chairperson, msg.Proposals); err != nil {
		return errors.Wrap(err, "genesis ballot")
	}
	return nil
}
