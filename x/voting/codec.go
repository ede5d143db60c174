package voting

import (
	amino "github.com/tendermint/go-amino"
)

// RegisterCodec registers the messages of this package. The ballot.Msg
// interface must already be registered with the codec.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterConcrete(&CreateBallotMsg{}, "voting/CreateBallotMsg", nil)
	cdc.RegisterConcrete(&GiveRightToVoteMsg{}, "voting/GiveRightToVoteMsg", nil)
	cdc.RegisterConcrete(&DelegateMsg{}, "voting/DelegateMsg", nil)
	cdc.RegisterConcrete(&VoteMsg{}, "voting/VoteMsg", nil)
}
