package voting

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/orm"
)

// RegisterQuery will register the voters as "/voters", the ballot as
// "/ballot" and the winner as "/winner".
func RegisterQuery(qr ballot.QueryRouter) {
	NewVoterBucket().Register("voters", qr)
	NewBallotBucket().Register("ballot", qr)
	qr.Register("/winner", WinnerQuery{ctrl: NewController()})
}

// Winner is the value returned by the winner query.
type Winner struct {
	Index     uint32 `json:"index"`
	Name      []byte `json:"name"`
	VoteCount uint64 `json:"vote_count"`
}

// WinnerQuery computes the winning proposal of the stored ballot.
type WinnerQuery struct {
	ctrl Controller
}

var _ ballot.QueryHandler = WinnerQuery{}

// Query returns a single model keyed "winner". Query data is ignored.
func (q WinnerQuery) Query(db ballot.ReadOnlyKVStore, mod string, data []byte) ([]ballot.Model, error) {
	if mod != ballot.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
	b, err := q.ctrl.Ballot(db)
	if err != nil {
		return nil, err
	}
	index, err := b.WinningProposal()
	if err != nil {
		return nil, err
	}
	w := Winner{
		Index:     index,
		Name:      b.Proposals[index].Name,
		VoteCount: b.Proposals[index].VoteCount,
	}
	raw, err := orm.Marshal(&w)
	if err != nil {
		return nil, err
	}
	return []ballot.Model{ballot.Pair([]byte("winner"), raw)}, nil
}
