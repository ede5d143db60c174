package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/cmd/ballotd/app"
	"github.com/resppiano/ballot/commands/server"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

func main() {
	if err := rootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

// rootCmd builds the command tree. The logger is created only once flags
// are parsed, so that --log_level applies to every command.
func rootCmd(out *os.File) *cobra.Command {
	var (
		home     string
		logLevel string
	)
	logger := &lazyLogger{Logger: log.NewNopLogger()}

	root := &cobra.Command{
		Use:           "ballotd",
		Short:         "Chairperson ballot ABCI application",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(out, logLevel)
			if err != nil {
				return err
			}
			logger.Logger = l.With("module", "ballot")
			return nil
		},
	}
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".ballot")
	root.PersistentFlags().StringVar(&home, "home", defaultHome, "directory to store files under")
	root.PersistentFlags().StringVar(&logLevel, "log_level", "info", "one of debug, info, error or none")

	root.AddCommand(
		server.InitCmd(app.GenInitOptions, logger, &home),
		server.StartCmd(app.GenerateApp, logger, &home),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), ballot.Version())
			},
		},
	)
	return root
}

// lazyLogger lets commands be built before the log level is known.
type lazyLogger struct {
	log.Logger
}

func newLogger(out *os.File, level string) (log.Logger, error) {
	base := log.NewTMLogger(log.NewSyncWriter(out))
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(base, opt), nil
}
