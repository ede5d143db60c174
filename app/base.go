package app

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder ballot.TxDecoder
	handler ballot.Handler
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application. Debug mode is taken from
// the store app.
func NewBaseApp(store *StoreApp, decoder ballot.TxDecoder, handler ballot.Handler) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return ballot.DeliverTxError(err, b.debug)
	}

	ctx := ballot.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", ballot.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return ballot.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return ballot.CheckTxError(err, b.debug)
	}

	ctx := ballot.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", ballot.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return ballot.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx ballot.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
