package app

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
)

// CommitStore keeps the committed state together with the two scratch
// pads built on top of it: one for DeliverTx, which is flushed on Commit,
// and one for CheckTx, which is dropped on Commit.
type CommitStore struct {
	committed ballot.CommitKVStore
	deliver   ballot.KVCacheWrap
	check     ballot.KVCacheWrap
}

// NewCommitStore loads the latest version of the given store and sets up
// the deliver and check caches.
func NewCommitStore(store ballot.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (ballot.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit flushes the deliver cache into the underlying store and saves a
// new version. Both caches are rebuilt on top of the new version, so any
// state only seen by CheckTx is gone afterwards.
func (cs *CommitStore) Commit() (ballot.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return ballot.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() ballot.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() ballot.CacheableKVStore {
	return cs.deliver
}

// chainIDKey is written once by InitChain, outside of any bucket.
const chainIDKey = "_app:chain_id"

func loadChainID(kv ballot.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store. It fails if the id is
// invalid or if a chain id was already saved.
func saveChainID(kv ballot.KVStore, chainID string) error {
	if !ballot.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "chain id cannot be changed after genesis")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
