package app

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
)

// ChainInitializers lets you initialize many extensions with one function.
func ChainInitializers(inits ...ballot.Initializer) ballot.Initializer {
	return chainInitializer{inits: inits}
}

type chainInitializer struct {
	inits []ballot.Initializer
}

// FromGenesis passes the genesis options to every initializer in order,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts ballot.Options, kv ballot.KVStore) error {
	for i, init := range c.inits {
		if err := init.FromGenesis(opts, kv); err != nil {
			return errors.Wrapf(err, "initializer %d (%T)", i, init)
		}
	}
	return nil
}
