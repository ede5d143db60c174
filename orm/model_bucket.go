package orm

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	Validate() error
}

// ModelBucket stores models of a single type, serialized with Codec.
type ModelBucket struct {
	Bucket
}

// NewModelBucket returns a bucket for models stored under the given name.
func NewModelBucket(name string) ModelBucket {
	return ModelBucket{Bucket: NewBucket(name)}
}

// One loads the model stored under the key into dest.
// This method returns ErrNotFound if the entity does not exist in the
// database.
func (mb ModelBucket) One(db ballot.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := mb.Get(db, key)
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	return Unmarshal(raw, dest)
}

// Has returns nil if an entity with the key exists, ErrNotFound otherwise.
func (mb ModelBucket) Has(db ballot.ReadOnlyKVStore, key []byte) error {
	raw, err := mb.Get(db, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.ErrNotFound
	}
	return nil
}

// Put validates and saves given model in the database.
func (mb ModelBucket) Put(db ballot.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := mb.Set(db, key, raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (mb ModelBucket) Delete(db ballot.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.Bucket.Delete(db, key)
}
