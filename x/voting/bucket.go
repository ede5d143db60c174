package voting

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/orm"
)

// ballotKey is the key of the singleton ballot record.
var ballotKey = []byte("current")

// VoterBucket stores voters by their address.
type VoterBucket struct {
	orm.ModelBucket
}

// NewVoterBucket returns the bucket used to store voters.
func NewVoterBucket() VoterBucket {
	return VoterBucket{orm.NewModelBucket("voter")}
}

// GetOrDefault returns the voter stored under the address or the zero
// voter if there is none.
func (b VoterBucket) GetOrDefault(db ballot.ReadOnlyKVStore, addr ballot.Address) (*Voter, error) {
	var v Voter
	raw, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return &v, nil
	}
	if err := orm.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// BallotBucket stores the singleton ballot record.
type BallotBucket struct {
	orm.ModelBucket
}

// NewBallotBucket returns the bucket used to store the ballot.
func NewBallotBucket() BallotBucket {
	return BallotBucket{orm.NewModelBucket("ballot")}
}

// Load reads the ballot. ErrNotFound is returned before a ballot was
// created.
func (b BallotBucket) Load(db ballot.ReadOnlyKVStore) (*Ballot, error) {
	var res Ballot
	if err := b.One(db, ballotKey, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Store writes the ballot.
func (b BallotBucket) Store(db ballot.KVStore, res *Ballot) error {
	return b.Put(db, ballotKey, res)
}
