package voting

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/x"
	"github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r ballot.Registry, auth x.Authenticator) {
	ctrl := NewController()
	r.Handle(pathCreateBallotMsg, CreateBallotHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathGiveRightToVoteMsg, GiveRightToVoteHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathDelegateMsg, DelegateHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathVoteMsg, VoteHandler{auth: auth, ctrl: ctrl})
}

// signer returns the address of the main signer of the transaction.
func signer(ctx ballot.Context, auth x.Authenticator) (ballot.Address, error) {
	cond := x.MainSigner(ctx, auth)
	if cond == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return cond.Address(), nil
}

func tag(key string, value []byte) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: value}
}

// CreateBallotHandler creates the ballot with the signer as chairperson.
type CreateBallotHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ballot.Handler = CreateBallotHandler{}

// Check applies the message to the check state, so a second ballot in the
// same block is rejected before it reaches a block.
func (h CreateBallotHandler) Check(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.CheckResult, error) {
	if _, _, err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ballot.CheckResult{}, nil
}

// Deliver stores the ballot.
func (h CreateBallotHandler) Deliver(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.DeliverResult, error) {
	chair, b, err := h.apply(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	ballot.GetLogger(ctx).Debug("ballot created", "chairperson", chair, "proposals", len(b.Proposals))
	return &ballot.DeliverResult{
		Log:  "ballot created",
		Tags: []common.KVPair{tag("voting.chairperson", []byte(chair.String()))},
	}, nil
}

func (h CreateBallotHandler) apply(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (ballot.Address, *Ballot, error) {
	var msg CreateBallotMsg
	if err := ballot.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	chair, err := signer(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	if err := checkProposalCount(db, len(msg.Proposals)); err != nil {
		return nil, nil, err
	}
	b, err := h.ctrl.Create(db, chair, msg.Proposals)
	if err != nil {
		return nil, nil, err
	}
	return chair, b, nil
}

// GiveRightToVoteHandler lets the chairperson grant voting rights.
type GiveRightToVoteHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ballot.Handler = GiveRightToVoteHandler{}

// Check applies the message to the check state.
func (h GiveRightToVoteHandler) Check(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.CheckResult, error) {
	if _, err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ballot.CheckResult{}, nil
}

// Deliver gives the voter a weight of one.
func (h GiveRightToVoteHandler) Deliver(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.DeliverResult, error) {
	voter, err := h.apply(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	ballot.GetLogger(ctx).Debug("right to vote given", "voter", voter)
	return &ballot.DeliverResult{
		Log:  "right to vote given",
		Tags: []common.KVPair{tag("voting.voter", []byte(voter.String()))},
	}, nil
}

func (h GiveRightToVoteHandler) apply(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (ballot.Address, error) {
	var msg GiveRightToVoteMsg
	if err := ballot.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Unsigned requests still get an address that can never be the
	// chairperson, so they fail as unauthorized.
	var caller ballot.Address
	if cond := x.MainSigner(ctx, h.auth); cond != nil {
		caller = cond.Address()
	}
	if err := h.ctrl.GiveRightToVote(db, caller, msg.Voter); err != nil {
		return nil, err
	}
	return msg.Voter, nil
}

// DelegateHandler hands the weight of the signer to another voter.
type DelegateHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ballot.Handler = DelegateHandler{}

// Check applies the message to the check state.
func (h DelegateHandler) Check(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.CheckResult, error) {
	if _, _, err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ballot.CheckResult{}, nil
}

// Deliver resolves the delegation chain and moves the weight. The address
// of the final delegate is returned as data.
func (h DelegateHandler) Deliver(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.DeliverResult, error) {
	caller, final, err := h.apply(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	ballot.GetLogger(ctx).Debug("delegated", "voter", caller, "final", final)
	return &ballot.DeliverResult{
		Data: final,
		Log:  "delegated",
		Tags: []common.KVPair{
			tag("voting.voter", []byte(caller.String())),
			tag("voting.delegate", []byte(final.String())),
		},
	}, nil
}

// apply returns the caller and the final delegate.
func (h DelegateHandler) apply(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (ballot.Address, ballot.Address, error) {
	var msg DelegateMsg
	if err := ballot.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := signer(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	final, err := h.ctrl.Delegate(db, caller, msg.To)
	if err != nil {
		return nil, nil, err
	}
	return caller, final, nil
}

// VoteHandler counts the weight of the signer for a proposal.
type VoteHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ballot.Handler = VoteHandler{}

// Check applies the message to the check state.
func (h VoteHandler) Check(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.CheckResult, error) {
	if _, _, err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ballot.CheckResult{}, nil
}

// Deliver records the vote.
func (h VoteHandler) Deliver(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.DeliverResult, error) {
	caller, proposal, err := h.apply(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	ballot.GetLogger(ctx).Debug("vote counted", "voter", caller, "proposal", proposal)
	return &ballot.DeliverResult{
		Log:  "vote counted",
		Tags: []common.KVPair{tag("voting.voter", []byte(caller.String()))},
	}, nil
}

func (h VoteHandler) apply(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (ballot.Address, uint32, error) {
	var msg VoteMsg
	if err := ballot.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	caller, err := signer(ctx, h.auth)
	if err != nil {
		return nil, 0, err
	}
	if err := h.ctrl.Vote(db, caller, msg.Proposal); err != nil {
		return nil, 0, err
	}
	return caller, msg.Proposal, nil
}
