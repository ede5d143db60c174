package sigs

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/crypto"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/orm"
)

// maxSequence is the greatest sequence a client can represent without
// losing precision (2^53 - 1).
const maxSequence = (1 << 53) - 1

// UserData is the signing state of a single public key. Sequence is the
// value the next signature of this key must carry.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

// Validate ensures the stored state is consistent.
func (u *UserData) Validate() error {
	if err := u.Pubkey.Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	return nil
}

// CheckAndIncrementSequence bumps the sequence if it equals expected.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData by the address of the public key.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns the bucket holding the signing state.
func NewBucket() Bucket {
	return Bucket{orm.NewModelBucket("sigs")}
}

// GetOrCreate returns the stored state of the key, or a fresh one starting
// at sequence 0. Nothing is written.
func (b Bucket) GetOrCreate(db ballot.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	raw, err := b.Get(db, pubkey.Address())
	if err != nil {
		return nil, err
	}
	user := UserData{Pubkey: pubkey}
	if raw == nil {
		return &user, nil
	}
	if err := orm.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Save stores the user state under its address.
func (b Bucket) Save(db ballot.KVStore, user *UserData) error {
	return b.Put(db, user.Pubkey.Address(), user)
}

// RegisterQuery exposes the signing state as "/auth", queried by address.
func RegisterQuery(qr ballot.QueryRouter) {
	NewBucket().Register("auth", qr)
}
