package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/resppiano/ballot/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"

	// DefaultBind is where tendermint looks for a socket application.
	DefaultBind = "tcp://localhost:26658"
)

// Options is what an AppGenerator gets to build the application.
type Options struct {
	Home   string
	Logger log.Logger
	Debug  bool
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// StartCmd returns the command that runs the abci server until the
// process receives an interrupt or terminate signal.
func StartCmd(gen AppGenerator, logger log.Logger, home *string) *cobra.Command {
	var (
		bind  string
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sig)
			go func() {
				select {
				case s := <-sig:
					logger.Info("Shutting down", "signal", s.String())
					cancel()
				case <-ctx.Done():
				}
			}()

			opts := &Options{Home: *home, Logger: logger, Debug: debug}
			return Start(ctx, gen, opts, bind)
		},
	}
	cmd.Flags().StringVar(&bind, flagBind, DefaultBind, "address server listens on")
	cmd.Flags().BoolVar(&debug, flagDebug, false, "call stack returned on error")
	return cmd
}

// Start builds the application and serves it on addr until the context is
// cancelled.
func Start(ctx context.Context, gen AppGenerator, opts *Options, addr string) error {
	app, err := gen(opts)
	if err != nil {
		return errors.Wrap(err, "create application")
	}

	opts.Logger.Info("Starting ABCI app", "bind", addr)
	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "create listener: %s", err)
	}
	svr.SetLogger(opts.Logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start server")
	}

	<-ctx.Done()
	return svr.Stop()
}
