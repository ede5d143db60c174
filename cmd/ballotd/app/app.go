/*
Package app wires the voting extension into a runnable abci application:
the transaction format, the decorator stack, the routers and the genesis
initializers.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/app"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/store/iavl"
	"github.com/resppiano/ballot/x"
	"github.com/resppiano/ballot/x/sigs"
	"github.com/resppiano/ballot/x/utils"
	"github.com/resppiano/ballot/x/voting"
)

// Name is returned by abci Info.
const Name = "ballot"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// unsigned transactions pass, handlers that need a caller reject them
		sigs.NewDecorator().AllowMissingSigs(),
		// a failed tx only consumes the signer sequences
		utils.NewSavepoint().OnCheck().OnDeliver(),
	)
}

// Router returns a default router, only dispatching to the voting
// messages
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	voting.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/auth", "/voters", "/ballot" and "/winner"
func QueryRouter() ballot.QueryRouter {
	r := ballot.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		voting.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() ballot.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Initializers returns the genesis initializers of every extension.
func Initializers() ballot.Initializer {
	return app.ChainInitializers(voting.Initializer{})
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(name string, h ballot.Handler, decoder ballot.TxDecoder, kv ballot.CommitKVStore, debug bool) (app.BaseApp, error) {
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	store.WithInit(Initializers()).WithDebug(debug)
	return app.NewBaseApp(store, decoder, h), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path gives an in-memory store.
func CommitKVStore(dbPath string) (ballot.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q: %s", dbPath, err)
	}
	// leveldb adds the ".db" suffix on its own
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
