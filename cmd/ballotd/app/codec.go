package app

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/x/voting"
	amino "github.com/tendermint/go-amino"
)

// TxCodec encodes transactions. Every message type that can travel in a
// Tx is registered here.
var TxCodec = amino.NewCodec()

func init() {
	TxCodec.RegisterInterface((*ballot.Msg)(nil), nil)
	voting.RegisterCodec(TxCodec)
}
