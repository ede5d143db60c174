/*
Package app contains the code to run the ballot ledger as an abci
application: the message router, the decorator chain, the commit store
with its check and deliver caches, and the abci callbacks themselves.

  stack := app.ChainDecorators(
    utils.NewRecovery(),
    utils.NewLogging(),
    sigs.NewDecorator(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(router)
  application := app.NewBaseApp(store, queries, decoder, stack, false)

StoreApp implements everything that does not touch transactions
(Info, Query, Commit, InitChain, BeginBlock, EndBlock), BaseApp embeds it
and adds CheckTx and DeliverTx.
*/
package app
