package voting

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
)

// MaxLabelLength is the maximum size of a proposal label in bytes.
const MaxLabelLength = 32

// Voter is the state of a single identity taking part in the ballot. An
// identity that was never referenced reads as the zero value: no rights,
// not voted.
type Voter struct {
	// Weight is the voting power. Zero means no rights.
	Weight uint64 `json:"weight"`
	// Voted is set once the weight was used, directly or by delegation.
	Voted bool `json:"voted"`
	// Delegate is the final voter the weight was handed to.
	Delegate ballot.Address `json:"delegate,omitempty"`
	// Vote is the index of the proposal voted for directly.
	Vote uint32 `json:"vote"`
}

// Validate ensures the voter record is consistent.
func (v *Voter) Validate() error {
	if len(v.Delegate) != 0 {
		if !v.Voted {
			return errors.Wrap(errors.ErrState, "delegate set before voting")
		}
		if err := v.Delegate.Validate(); err != nil {
			return errors.Wrap(err, "delegate")
		}
	}
	if !v.Voted && v.Vote != 0 {
		return errors.Wrap(errors.ErrState, "vote set before voting")
	}
	return nil
}

// HasVote returns true if the voter cast a vote directly.
func (v *Voter) HasVote() bool {
	return v.Voted && len(v.Delegate) == 0
}

// HasDelegated returns true if the voter handed its weight to another voter.
func (v *Voter) HasDelegated() bool {
	return v.Voted && len(v.Delegate) != 0
}

// Proposal is a single option of the ballot.
type Proposal struct {
	Name      []byte `json:"name"`
	VoteCount uint64 `json:"vote_count"`
}

// Validate ensures the proposal has a label of valid size.
func (p *Proposal) Validate() error {
	return validateLabel(p.Name)
}

// Ballot is the singleton record holding the chairperson and the
// proposals together with their tally.
type Ballot struct {
	Chairperson ballot.Address `json:"chairperson"`
	Proposals   []Proposal     `json:"proposals"`
}

// Validate ensures the ballot is consistent.
func (b *Ballot) Validate() error {
	if err := b.Chairperson.Validate(); err != nil {
		return errors.Wrap(err, "chairperson")
	}
	for i := range b.Proposals {
		if err := b.Proposals[i].Validate(); err != nil {
			return errors.Wrapf(err, "proposal %d", i)
		}
	}
	return nil
}

// Proposal returns the proposal at the given index.
func (b *Ballot) Proposal(index uint32) (*Proposal, error) {
	if int64(index) >= int64(len(b.Proposals)) {
		return nil, errors.Wrapf(ErrInvalidProposal, "index %d of %d proposals", index, len(b.Proposals))
	}
	return &b.Proposals[index], nil
}

// WinningProposal returns the index of the proposal with the greatest vote
// count. The lowest index wins a tie, so with no votes at all the first
// proposal wins.
func (b *Ballot) WinningProposal() (uint32, error) {
	if len(b.Proposals) == 0 {
		return 0, ErrNoProposals
	}
	var (
		winner uint32
		count  uint64
	)
	for i, p := range b.Proposals {
		if p.VoteCount > count {
			winner, count = uint32(i), p.VoteCount
		}
	}
	return winner, nil
}

// WinnerName returns the label of the winning proposal.
func (b *Ballot) WinnerName() ([]byte, error) {
	i, err := b.WinningProposal()
	if err != nil {
		return nil, err
	}
	return b.Proposals[i].Name, nil
}

// TotalVotes returns the sum of all vote counts.
func (b *Ballot) TotalVotes() uint64 {
	var total uint64
	for _, p := range b.Proposals {
		total += p.VoteCount
	}
	return total
}

func validateLabel(label []byte) error {
	switch n := len(label); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "proposal label")
	case n > MaxLabelLength:
		return errors.Wrapf(errors.ErrInput, "proposal label longer than %d bytes", MaxLabelLength)
	}
	return nil
}
