package voting

import (
	"math/rand"
	"testing"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/ballottest"
	"github.com/resppiano/ballot/ballottest/assert"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/orm"
	"github.com/resppiano/ballot/store"
)

func newAddrs(n int) []ballot.Address {
	res := make([]ballot.Address, n)
	for i := range res {
		res[i] = ballottest.NewCondition().Address()
	}
	return res
}

// setup creates a ballot with the given number of proposals and returns the
// chairperson.
func setup(t testing.TB, n int) (ballot.CacheableKVStore, Controller, ballot.Address) {
	t.Helper()
	db := store.MemStore()
	ctrl := NewController()
	chair := ballottest.NewCondition().Address()
	labels := make([]string, n)
	for i := range labels {
		labels[i] = string([]byte{'p', byte('0' + i)})
	}
	_, err := ctrl.Create(db, chair, labels)
	assert.Nil(t, err)
	return db, ctrl, chair
}

func mustVoter(t testing.TB, db ballot.ReadOnlyKVStore, ctrl Controller, addr ballot.Address) *Voter {
	t.Helper()
	v, err := ctrl.Voter(db, addr)
	assert.Nil(t, err)
	return v
}

func counts(t testing.TB, db ballot.ReadOnlyKVStore, ctrl Controller) []uint64 {
	t.Helper()
	b, err := ctrl.Ballot(db)
	assert.Nil(t, err)
	res := make([]uint64, len(b.Proposals))
	for i, p := range b.Proposals {
		res[i] = p.VoteCount
	}
	return res
}

func snapshot(t testing.TB, db ballot.ReadOnlyKVStore) []ballot.Model {
	t.Helper()
	it, err := db.Iterator(nil, nil)
	assert.Nil(t, err)
	all, err := store.ReadAll(it)
	assert.Nil(t, err)
	return all
}

// assertConserved checks that every granted unit of weight is either
// counted or held by a voter that did not vote yet.
func assertConserved(t testing.TB, db ballot.ReadOnlyKVStore, ctrl Controller, granted uint64) {
	t.Helper()
	b, err := ctrl.Ballot(db)
	assert.Nil(t, err)
	total := b.TotalVotes()
	err = NewVoterBucket().Iterate(db, func(key, value []byte) error {
		var v Voter
		if err := orm.Unmarshal(value, &v); err != nil {
			return err
		}
		if !v.Voted {
			total += v.Weight
		}
		return nil
	})
	assert.Nil(t, err)
	if total != granted {
		t.Fatalf("weight not conserved: granted %d, accounted %d", granted, total)
	}
}

func TestCreate(t *testing.T) {
	db, ctrl, chair := setup(t, 3)

	b, err := ctrl.Ballot(db)
	assert.Nil(t, err)
	assert.Equal(t, chair, b.Chairperson)
	assert.Equal(t, 3, len(b.Proposals))
	assert.Equal(t, []byte("p2"), b.Proposals[2].Name)
	assert.Equal(t, []uint64{0, 0, 0}, counts(t, db, ctrl))
	assert.Equal(t, uint64(1), mustVoter(t, db, ctrl, chair).Weight)

	_, err = ctrl.Create(db, chair, []string{"again"})
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestCreateWithoutProposals(t *testing.T) {
	db, ctrl, chair := setup(t, 0)

	_, err := ctrl.WinningProposal(db)
	assert.IsErr(t, ErrNoProposals, err)
	_, err = ctrl.WinnerName(db)
	assert.IsErr(t, ErrNoProposals, err)
	assert.IsErr(t, ErrInvalidProposal, ctrl.Vote(db, chair, 0))
}

func TestNoBallot(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	a, b := newAddrs(2)[0], newAddrs(1)[0]

	assert.IsErr(t, errors.ErrNotFound, ctrl.GiveRightToVote(db, a, b))
	assert.IsErr(t, errors.ErrNotFound, ctrl.Vote(db, a, 0))
	_, err := ctrl.Delegate(db, a, b)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = ctrl.WinningProposal(db)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestGiveRightToVote(t *testing.T) {
	voters := newAddrs(3)
	cases := map[string]struct {
		prepare func(t testing.TB, db ballot.KVStore, ctrl Controller, chair ballot.Address)
		caller  func(chair ballot.Address) ballot.Address
		target  ballot.Address
		wantErr *errors.Error
	}{
		"chairperson grants": {
			caller: func(chair ballot.Address) ballot.Address { return chair },
			target: voters[0],
		},
		"not the chairperson": {
			caller:  func(ballot.Address) ballot.Address { return voters[1] },
			target:  voters[0],
			wantErr: errors.ErrUnauthorized,
		},
		"missing caller": {
			caller:  func(ballot.Address) ballot.Address { return nil },
			target:  voters[0],
			wantErr: errors.ErrUnauthorized,
		},
		"chairperson already has rights": {
			caller:  func(chair ballot.Address) ballot.Address { return chair },
			wantErr: ErrAlreadyHasRights,
		},
		"granted twice": {
			prepare: func(t testing.TB, db ballot.KVStore, ctrl Controller, chair ballot.Address) {
				assert.Nil(t, ctrl.GiveRightToVote(db, chair, voters[0]))
			},
			caller:  func(chair ballot.Address) ballot.Address { return chair },
			target:  voters[0],
			wantErr: ErrAlreadyHasRights,
		},
		"voter without rights that delegated": {
			prepare: func(t testing.TB, db ballot.KVStore, ctrl Controller, chair ballot.Address) {
				_, err := ctrl.Delegate(db, voters[2], voters[1])
				assert.Nil(t, err)
			},
			caller:  func(chair ballot.Address) ballot.Address { return chair },
			target:  voters[2],
			wantErr: ErrAlreadyVoted,
		},
		"voted is checked before rights": {
			prepare: func(t testing.TB, db ballot.KVStore, ctrl Controller, chair ballot.Address) {
				assert.Nil(t, ctrl.Vote(db, chair, 0))
			},
			caller:  func(chair ballot.Address) ballot.Address { return chair },
			wantErr: ErrAlreadyVoted,
		},
		"unauthorized is checked first": {
			prepare: func(t testing.TB, db ballot.KVStore, ctrl Controller, chair ballot.Address) {
				assert.Nil(t, ctrl.GiveRightToVote(db, chair, voters[0]))
			},
			caller:  func(ballot.Address) ballot.Address { return voters[0] },
			target:  voters[0],
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, ctrl, chair := setup(t, 2)
			if tc.prepare != nil {
				tc.prepare(t, db, ctrl, chair)
			}
			target := tc.target
			if target == nil {
				target = chair
			}
			before := snapshot(t, db)

			err := ctrl.GiveRightToVote(db, tc.caller(chair), target)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				assert.Equal(t, before, snapshot(t, db))
				return
			}
			assert.Equal(t, uint64(1), mustVoter(t, db, ctrl, target).Weight)
		})
	}
}

func TestVote(t *testing.T) {
	db, ctrl, chair := setup(t, 3)
	voters := newAddrs(2)
	assert.Nil(t, ctrl.GiveRightToVote(db, chair, voters[0]))

	before := snapshot(t, db)
	assert.IsErr(t, ErrNoRightToVote, ctrl.Vote(db, voters[1], 0))
	assert.IsErr(t, ErrInvalidProposal, ctrl.Vote(db, voters[0], 3))
	assert.Equal(t, before, snapshot(t, db))

	assert.Nil(t, ctrl.Vote(db, voters[0], 2))
	assert.Equal(t, []uint64{0, 0, 1}, counts(t, db, ctrl))
	v := mustVoter(t, db, ctrl, voters[0])
	assert.Equal(t, true, v.Voted)
	assert.Equal(t, uint32(2), v.Vote)
	assert.Equal(t, true, v.HasVote())

	// a retried vote is rejected instead of counted twice
	assert.IsErr(t, ErrAlreadyVoted, ctrl.Vote(db, voters[0], 2))
	// already voted is reported before the proposal is checked
	assert.IsErr(t, ErrAlreadyVoted, ctrl.Vote(db, voters[0], 7))
	assert.Equal(t, []uint64{0, 0, 1}, counts(t, db, ctrl))
}

func TestDelegate(t *testing.T) {
	db, ctrl, chair := setup(t, 3)
	v := newAddrs(5)
	for _, a := range v[:4] {
		assert.Nil(t, ctrl.GiveRightToVote(db, chair, a))
	}

	// latent weight on a voter that did not vote yet
	final, err := ctrl.Delegate(db, v[0], v[1])
	assert.Nil(t, err)
	assert.Equal(t, v[1], final)
	assert.Equal(t, uint64(2), mustVoter(t, db, ctrl, v[1]).Weight)

	// the chain is followed to its final voter
	final, err = ctrl.Delegate(db, v[2], v[0])
	assert.Nil(t, err)
	assert.Equal(t, v[1], final)
	sender := mustVoter(t, db, ctrl, v[2])
	assert.Equal(t, true, sender.HasDelegated())
	assert.Equal(t, v[1], sender.Delegate)
	assert.Equal(t, uint64(3), mustVoter(t, db, ctrl, v[1]).Weight)
	assert.Equal(t, []uint64{0, 0, 0}, counts(t, db, ctrl))

	// the final voter votes with all the collected weight
	assert.Nil(t, ctrl.Vote(db, v[1], 1))
	assert.Equal(t, []uint64{0, 3, 0}, counts(t, db, ctrl))

	// delegating to a voter who already voted counts immediately
	final, err = ctrl.Delegate(db, v[3], v[0])
	assert.Nil(t, err)
	assert.Equal(t, v[1], final)
	assert.Equal(t, []uint64{0, 4, 0}, counts(t, db, ctrl))
	assert.Equal(t, uint64(3), mustVoter(t, db, ctrl, v[1]).Weight)

	// unregistered voters accrue latent weight
	final, err = ctrl.Delegate(db, chair, v[4])
	assert.Nil(t, err)
	assert.Equal(t, v[4], final)
	assert.Equal(t, uint64(1), mustVoter(t, db, ctrl, v[4]).Weight)

	assertConserved(t, db, ctrl, 5)
}

func TestDelegateZeroWeight(t *testing.T) {
	db, ctrl, chair := setup(t, 2)
	nobody := newAddrs(1)[0]

	final, err := ctrl.Delegate(db, nobody, chair)
	assert.Nil(t, err)
	assert.Equal(t, chair, final)
	assert.Equal(t, uint64(1), mustVoter(t, db, ctrl, chair).Weight)
	assert.Equal(t, true, mustVoter(t, db, ctrl, nobody).Voted)
	assertConserved(t, db, ctrl, 1)
}

func TestDelegateErrors(t *testing.T) {
	db, ctrl, chair := setup(t, 2)
	v := newAddrs(3)
	for _, a := range v {
		assert.Nil(t, ctrl.GiveRightToVote(db, chair, a))
	}

	before := snapshot(t, db)
	_, err := ctrl.Delegate(db, v[0], v[0])
	assert.IsErr(t, ErrSelfDelegation, err)
	assert.Equal(t, before, snapshot(t, db))

	// v0 -> v1 -> v2, then v2 -> v0 would close the loop
	_, err = ctrl.Delegate(db, v[0], v[1])
	assert.Nil(t, err)
	_, err = ctrl.Delegate(db, v[1], v[2])
	assert.Nil(t, err)

	before = snapshot(t, db)
	_, err = ctrl.Delegate(db, v[2], v[0])
	assert.IsErr(t, ErrCircularDelegation, err)
	assert.Equal(t, before, snapshot(t, db))
	assert.Equal(t, false, mustVoter(t, db, ctrl, v[2]).Voted)

	// v2 can still vote with the weight it collected
	assert.Nil(t, ctrl.Vote(db, v[2], 0))
	assert.Equal(t, []uint64{3, 0}, counts(t, db, ctrl))

	_, err = ctrl.Delegate(db, v[0], chair)
	assert.IsErr(t, ErrAlreadyVoted, err)
	// already voted is reported before self delegation
	_, err = ctrl.Delegate(db, v[0], v[0])
	assert.IsErr(t, ErrAlreadyVoted, err)

	assertConserved(t, db, ctrl, 4)
}

func TestDelegateCorruptedLoop(t *testing.T) {
	db, ctrl, _ := setup(t, 1)
	v := newAddrs(3)

	// a loop that does not contain the caller can only exist if the
	// stored state was modified outside of the controller
	voters := NewVoterBucket()
	assert.Nil(t, voters.Put(db, v[0], &Voter{Weight: 1, Voted: true, Delegate: v[1]}))
	assert.Nil(t, voters.Put(db, v[1], &Voter{Weight: 1, Voted: true, Delegate: v[0]}))

	_, err := ctrl.Delegate(db, v[2], v[0])
	assert.IsErr(t, ErrCircularDelegation, err)
}

// TestScenarios covers the documented end to end examples.
func TestScenarios(t *testing.T) {
	t.Run("vote is counted", func(t *testing.T) {
		db, ctrl, chair := setup(t, 3)
		voter1 := newAddrs(1)[0]
		assert.Nil(t, ctrl.GiveRightToVote(db, chair, voter1))
		assert.Nil(t, ctrl.Vote(db, voter1, 1))
		assert.Equal(t, uint64(1), counts(t, db, ctrl)[1])
		assert.Equal(t, true, mustVoter(t, db, ctrl, voter1).Voted)
	})

	t.Run("voter without rights cannot vote", func(t *testing.T) {
		db, ctrl, _ := setup(t, 3)
		voter3 := newAddrs(1)[0]
		assert.IsErr(t, ErrNoRightToVote, ctrl.Vote(db, voter3, 0))
		assert.Equal(t, []uint64{0, 0, 0}, counts(t, db, ctrl))
	})

	t.Run("delegation moves weight", func(t *testing.T) {
		db, ctrl, chair := setup(t, 3)
		v := newAddrs(2)
		assert.Nil(t, ctrl.GiveRightToVote(db, chair, v[0]))
		assert.Nil(t, ctrl.GiveRightToVote(db, chair, v[1]))
		_, err := ctrl.Delegate(db, v[0], v[1])
		assert.Nil(t, err)

		assert.Equal(t, uint64(2), mustVoter(t, db, ctrl, v[1]).Weight)
		voter1 := mustVoter(t, db, ctrl, v[0])
		assert.Equal(t, true, voter1.Voted)
		assert.Equal(t, v[1], voter1.Delegate)
		assert.Equal(t, []uint64{0, 0, 0}, counts(t, db, ctrl))
	})

	t.Run("greatest count wins", func(t *testing.T) {
		db, ctrl, chair := setup(t, 3)
		v := newAddrs(3)
		for _, a := range v {
			assert.Nil(t, ctrl.GiveRightToVote(db, chair, a))
		}
		assert.Nil(t, ctrl.Vote(db, chair, 0))
		assert.Nil(t, ctrl.Vote(db, v[0], 1))
		assert.Nil(t, ctrl.Vote(db, v[1], 1))
		assert.Nil(t, ctrl.Vote(db, v[2], 2))

		win, err := ctrl.WinningProposal(db)
		assert.Nil(t, err)
		assert.Equal(t, uint32(1), win)
		name, err := ctrl.WinnerName(db)
		assert.Nil(t, err)
		assert.Equal(t, []byte("p1"), name)
	})

	t.Run("tie goes to the lower index", func(t *testing.T) {
		db, ctrl, chair := setup(t, 4)
		v := newAddrs(1)[0]
		assert.Nil(t, ctrl.GiveRightToVote(db, chair, v))
		assert.Nil(t, ctrl.Vote(db, v, 3))
		assert.Nil(t, ctrl.Vote(db, chair, 1))

		before := snapshot(t, db)
		for i := 0; i < 3; i++ {
			win, err := ctrl.WinningProposal(db)
			assert.Nil(t, err)
			assert.Equal(t, uint32(1), win)
		}
		assert.Equal(t, before, snapshot(t, db))
	})

	t.Run("only the chairperson gives rights", func(t *testing.T) {
		db, ctrl, chair := setup(t, 1)
		v := newAddrs(3)
		assert.Nil(t, ctrl.GiveRightToVote(db, chair, v[0]))
		assert.Nil(t, ctrl.Vote(db, v[0], 0))
		for _, caller := range v {
			for _, target := range append(v, chair) {
				assert.IsErr(t, errors.ErrUnauthorized, ctrl.GiveRightToVote(db, caller, target))
			}
		}
	})
}

// TestRandomOperations applies random sequences of operations and checks
// that failed operations change nothing, voted flags are never reset and
// weight is conserved after every step.
func TestRandomOperations(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		db, ctrl, chair := setup(t, 4)
		addrs := append(newAddrs(7), chair)
		granted := uint64(1)
		voted := make(map[string]bool)

		pick := func() ballot.Address { return addrs[rnd.Intn(len(addrs))] }

		for step := 0; step < 60; step++ {
			before := snapshot(t, db)
			var err error
			switch op := rnd.Intn(3); op {
			case 0:
				caller := chair
				if rnd.Intn(4) == 0 {
					caller = pick()
				}
				if err = ctrl.GiveRightToVote(db, caller, pick()); err == nil {
					granted++
				}
			case 1:
				_, err = ctrl.Delegate(db, pick(), pick())
			case 2:
				err = ctrl.Vote(db, pick(), uint32(rnd.Intn(5)))
			}
			if err != nil {
				assert.Equal(t, before, snapshot(t, db))
			}

			for _, a := range addrs {
				v := mustVoter(t, db, ctrl, a)
				if voted[string(a)] && !v.Voted {
					t.Fatalf("round %d step %d: voted flag was reset", round, step)
				}
				voted[string(a)] = v.Voted
			}
			assertConserved(t, db, ctrl, granted)
		}
	}
}
