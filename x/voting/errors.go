package voting

import (
	"github.com/resppiano/ballot/errors"
)

// x/voting reserves 1001 ~ 1010.
var (
	ErrAlreadyHasRights   = errors.Register(1001, "voter already has rights")
	ErrAlreadyVoted       = errors.Register(1002, "already voted")
	ErrSelfDelegation     = errors.Register(1003, "self delegation")
	ErrCircularDelegation = errors.Register(1004, "circular delegation")
	ErrNoRightToVote      = errors.Register(1005, "no right to vote")
	ErrInvalidProposal    = errors.Register(1006, "invalid proposal")
	ErrNoProposals        = errors.Register(1007, "no proposals")
)
