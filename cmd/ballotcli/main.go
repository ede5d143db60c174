/*
ballotcli builds and signs transactions for the ballot ledger.

Every transaction command prints a base64 encoded transaction. Submit it
with the tendermint broadcast_tx_commit endpoint.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd(input io.Reader, output io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "ballotcli",
		Short:         "Build and sign ballot transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOutput(output)
	root.AddCommand(
		keygenCmd(output),
		addressCmd(output),
		createCmd(output),
		giveRightCmd(output),
		delegateCmd(output),
		voteCmd(output),
		viewCmd(input, output),
	)
	return root
}

// env returns the value of an environment variable if set, otherwise
// returns the fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}
