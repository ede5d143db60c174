package voting

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
)

const (
	pathCreateBallotMsg    = "voting/create"
	pathGiveRightToVoteMsg = "voting/give_right"
	pathDelegateMsg        = "voting/delegate"
	pathVoteMsg            = "voting/vote"
)

var _ ballot.Msg = (*CreateBallotMsg)(nil)
var _ ballot.Msg = (*GiveRightToVoteMsg)(nil)
var _ ballot.Msg = (*DelegateMsg)(nil)
var _ ballot.Msg = (*VoteMsg)(nil)

// CreateBallotMsg creates the ballot. The signer becomes the chairperson.
type CreateBallotMsg struct {
	Proposals []string `json:"proposals"`
}

// Path fulfills ballot.Msg interface to allow routing
func (CreateBallotMsg) Path() string {
	return pathCreateBallotMsg
}

// Validate makes sure every label is of valid size.
func (m *CreateBallotMsg) Validate() error {
	for i, p := range m.Proposals {
		if err := validateLabel([]byte(p)); err != nil {
			return errors.Wrapf(err, "proposal %d", i)
		}
	}
	return nil
}

// GiveRightToVoteMsg is sent by the chairperson to give a voter a weight
// of one.
type GiveRightToVoteMsg struct {
	Voter ballot.Address `json:"voter"`
}

// Path fulfills ballot.Msg interface to allow routing
func (GiveRightToVoteMsg) Path() string {
	return pathGiveRightToVoteMsg
}

// Validate makes sure the voter address is set.
func (m *GiveRightToVoteMsg) Validate() error {
	return errors.Wrap(m.Voter.Validate(), "voter")
}

// DelegateMsg hands the weight of the signer to another voter.
type DelegateMsg struct {
	To ballot.Address `json:"to"`
}

// Path fulfills ballot.Msg interface to allow routing
func (DelegateMsg) Path() string {
	return pathDelegateMsg
}

// Validate makes sure the delegate address is set.
func (m *DelegateMsg) Validate() error {
	return errors.Wrap(m.To.Validate(), "to")
}

// VoteMsg casts the weight of the signer for a proposal.
type VoteMsg struct {
	Proposal uint32 `json:"proposal"`
}

// Path fulfills ballot.Msg interface to allow routing
func (VoteMsg) Path() string {
	return pathVoteMsg
}

// Validate has nothing to check, the proposal index is checked against
// the ballot.
func (m *VoteMsg) Validate() error {
	return nil
}
