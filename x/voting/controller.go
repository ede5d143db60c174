package voting

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
)

// Controller applies the ballot state transitions to a store. Every
// precondition is checked before the first write, so a failed call leaves
// the store untouched.
type Controller struct {
	voters  VoterBucket
	ballots BallotBucket
}

// NewController returns a controller using the default buckets.
func NewController() Controller {
	return Controller{
		voters:  NewVoterBucket(),
		ballots: NewBallotBucket(),
	}
}

// Create stores a new ballot with one proposal per label, in order. The
// chairperson is given a weight of one. Only one ballot may exist.
func (c Controller) Create(db ballot.KVStore, chair ballot.Address, labels []string) (*Ballot, error) {
	switch err := c.ballots.Has(db, ballotKey); {
	case err == nil:
		return nil, errors.Wrap(errors.ErrDuplicate, "ballot already exists")
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	b := &Ballot{Chairperson: chair}
	if len(labels) > 0 {
		b.Proposals = make([]Proposal, len(labels))
		for i, l := range labels {
			b.Proposals[i] = Proposal{Name: []byte(l)}
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := c.ballots.Store(db, b); err != nil {
		return nil, errors.Wrap(err, "cannot store ballot")
	}
	if err := c.voters.Put(db, chair, &Voter{Weight: 1}); err != nil {
		return nil, errors.Wrap(err, "cannot store chairperson")
	}
	return b, nil
}

// Ballot returns the current ballot or ErrNotFound.
func (c Controller) Ballot(db ballot.ReadOnlyKVStore) (*Ballot, error) {
	b, err := c.ballots.Load(db)
	if err != nil {
		return nil, errors.Wrap(err, "ballot")
	}
	return b, nil
}

// Voter returns the voter record of the address. Unknown addresses have no
// rights and did not vote.
func (c Controller) Voter(db ballot.ReadOnlyKVStore, addr ballot.Address) (*Voter, error) {
	return c.voters.GetOrDefault(db, addr)
}

// Proposal returns the proposal at the index.
func (c Controller) Proposal(db ballot.ReadOnlyKVStore, index uint32) (*Proposal, error) {
	b, err := c.Ballot(db)
	if err != nil {
		return nil, err
	}
	return b.Proposal(index)
}

// GiveRightToVote sets the weight of voter to one. Only the chairperson
// may call it.
func (c Controller) GiveRightToVote(db ballot.KVStore, caller, voter ballot.Address) error {
	b, err := c.Ballot(db)
	if err != nil {
		return err
	}
	if !caller.Equals(b.Chairperson) {
		return errors.Wrap(errors.ErrUnauthorized, "only the chairperson can give right to vote")
	}
	v, err := c.Voter(db, voter)
	if err != nil {
		return err
	}
	if v.Voted {
		return errors.Wrapf(ErrAlreadyVoted, "voter %s", voter)
	}
	if v.Weight != 0 {
		return errors.Wrapf(ErrAlreadyHasRights, "voter %s", voter)
	}

	v.Weight = 1
	return c.voters.Put(db, voter, v)
}

// Delegate hands the weight of caller to the final voter of the chain
// starting at to and returns the address of that final voter. If the final
// voter already voted the weight is counted immediately.
func (c Controller) Delegate(db ballot.KVStore, caller, to ballot.Address) (ballot.Address, error) {
	b, err := c.Ballot(db)
	if err != nil {
		return nil, err
	}
	sender, err := c.Voter(db, caller)
	if err != nil {
		return nil, err
	}
	if sender.Voted {
		return nil, errors.Wrapf(ErrAlreadyVoted, "voter %s", caller)
	}
	if to.Equals(caller) {
		return nil, errors.Wrap(ErrSelfDelegation, "cannot delegate to yourself")
	}
	final, target, err := c.resolve(db, caller, to)
	if err != nil {
		return nil, err
	}

	if target.HasVote() {
		p, err := b.Proposal(target.Vote)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrState, "delegate %s voted for %d", final, target.Vote)
		}
		p.VoteCount += sender.Weight
		if err := c.ballots.Store(db, b); err != nil {
			return nil, errors.Wrap(err, "cannot store ballot")
		}
	} else {
		target.Weight += sender.Weight
		if err := c.voters.Put(db, final, target); err != nil {
			return nil, errors.Wrap(err, "cannot store delegate")
		}
	}

	sender.Voted = true
	sender.Delegate = final
	if err := c.voters.Put(db, caller, sender); err != nil {
		return nil, errors.Wrap(err, "cannot store voter")
	}
	return final, nil
}

// resolve follows the delegate references starting at to until it finds a
// voter that did not delegate. Reaching the caller, or any voter twice,
// means the delegation would close a loop.
func (c Controller) resolve(db ballot.ReadOnlyKVStore, caller, to ballot.Address) (ballot.Address, *Voter, error) {
	visited := make(map[string]struct{})
	cur := to
	for {
		if cur.Equals(caller) {
			return nil, nil, errors.Wrapf(ErrCircularDelegation, "chain from %s leads back to %s", to, caller)
		}
		if _, ok := visited[string(cur)]; ok {
			return nil, nil, errors.Wrapf(ErrCircularDelegation, "chain from %s loops at %s", to, cur)
		}
		visited[string(cur)] = struct{}{}

		v, err := c.Voter(db, cur)
		if err != nil {
			return nil, nil, err
		}
		if len(v.Delegate) == 0 {
			return cur, v, nil
		}
		cur = v.Delegate
	}
}

// Vote counts the weight of caller for the proposal.
func (c Controller) Vote(db ballot.KVStore, caller ballot.Address, proposal uint32) error {
	b, err := c.Ballot(db)
	if err != nil {
		return err
	}
	v, err := c.Voter(db, caller)
	if err != nil {
		return err
	}
	if v.Weight == 0 {
		return errors.Wrapf(ErrNoRightToVote, "voter %s", caller)
	}
	if v.Voted {
		return errors.Wrapf(ErrAlreadyVoted, "voter %s", caller)
	}
	p, err := b.Proposal(proposal)
	if err != nil {
		return err
	}

	p.VoteCount += v.Weight
	v.Voted = true
	v.Vote = proposal
	if err := c.ballots.Store(db, b); err != nil {
		return errors.Wrap(err, "cannot store ballot")
	}
	if err := c.voters.Put(db, caller, v); err != nil {
		return errors.Wrap(err, "cannot store voter")
	}
	return nil
}

// WinningProposal returns the index of the winning proposal.
func (c Controller) WinningProposal(db ballot.ReadOnlyKVStore) (uint32, error) {
	b, err := c.Ballot(db)
	if err != nil {
		return 0, err
	}
	return b.WinningProposal()
}

// WinnerName returns the label of the winning proposal.
func (c Controller) WinnerName(db ballot.ReadOnlyKVStore) ([]byte, error) {
	b, err := c.Ballot(db)
	if err != nil {
		return nil, err
	}
	return b.WinnerName()
}
