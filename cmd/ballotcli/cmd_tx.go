package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/cmd/ballotd/app"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/x/sigs"
	"github.com/resppiano/ballot/x/voting"
	"github.com/spf13/cobra"
)

// signFlags are shared by every command that builds a transaction.
type signFlags struct {
	keyPath string
	chainID string
	seq     int64
}

func (f *signFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.keyPath, "key", defaultKeyPath(),
		"Path to the private key file that transaction should be signed with. Empty for an unsigned transaction.")
	cmd.Flags().StringVar(&f.chainID, "chain-id", env("BALLOTCLI_CHAIN_ID", ""),
		"Chain id the signature is bound to. You can use BALLOTCLI_CHAIN_ID environment variable to set it.")
	cmd.Flags().Int64Var(&f.seq, "seq", 0,
		"Sequence of the signing key. Query /auth with the key address to learn the current one.")
}

// emit signs the transaction if a key is given and writes it base64
// encoded to the output.
func (f *signFlags) emit(output io.Writer, msg ballot.Msg) error {
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	tx := &app.Tx{Msg: msg}
	if f.keyPath != "" {
		key, err := loadPrivateKey(f.keyPath)
		if err != nil {
			return err
		}
		sig, err := sigs.SignTx(key, tx, f.chainID, f.seq)
		if err != nil {
			return errors.Wrap(err, "sign")
		}
		tx.Signatures = append(tx.Signatures, sig)
	}
	raw, err := tx.Marshal()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, base64.StdEncoding.EncodeToString(raw))
	return err
}

func createCmd(output io.Writer) *cobra.Command {
	var fl signFlags
	cmd := &cobra.Command{
		Use:   "create <label>...",
		Short: "Create the ballot, the signer becomes the chairperson",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fl.emit(output, &voting.CreateBallotMsg{Proposals: args})
		},
	}
	fl.register(cmd)
	return cmd
}

func giveRightCmd(output io.Writer) *cobra.Command {
	var fl signFlags
	cmd := &cobra.Command{
		Use:   "give-right <address>",
		Short: "Give a voter the right to vote, signed by the chairperson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			voter, err := ballot.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return fl.emit(output, &voting.GiveRightToVoteMsg{Voter: voter})
		},
	}
	fl.register(cmd)
	return cmd
}

func delegateCmd(output io.Writer) *cobra.Command {
	var fl signFlags
	cmd := &cobra.Command{
		Use:   "delegate <address>",
		Short: "Delegate your vote to another voter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := ballot.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return fl.emit(output, &voting.DelegateMsg{To: to})
		},
	}
	fl.register(cmd)
	return cmd
}

func voteCmd(output io.Writer) *cobra.Command {
	var fl signFlags
	cmd := &cobra.Command{
		Use:   "vote <proposal index>",
		Short: "Vote for a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "proposal index: %s", err)
			}
			return fl.emit(output, &voting.VoteMsg{Proposal: uint32(index)})
		},
	}
	fl.register(cmd)
	return cmd
}

func viewCmd(input io.Reader, output io.Writer) *cobra.Command {
	var chainID string
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print a base64 encoded transaction read from standard input as JSON",
		Long: `Print a base64 encoded transaction read from standard input as JSON.

Signatures are verified only when --chain-id is given. Verification uses
the sequence each signature declares, it does not tell whether that
sequence is still current on chain.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := ioutil.ReadAll(input)
			if err != nil {
				return errors.Wrap(err, "read input")
			}
			bin, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "base64: %s", err)
			}
			tx, err := app.TxDecoder(bin)
			if err != nil {
				return err
			}
			msg, err := tx.GetMsg()
			if err != nil {
				return err
			}

			view := struct {
				Path     string             `json:"path"`
				Msg      ballot.Msg         `json:"msg"`
				Signers  []ballot.Condition `json:"signers,omitempty"`
				Verified bool               `json:"verified"`
			}{
				Path: msg.Path(),
				Msg:  msg,
			}
			if chainID != "" {
				signers, err := sigs.CheckTxSignatures(tx.(*app.Tx), chainID)
				if err != nil {
					return err
				}
				view.Signers = signers
				view.Verified = true
			}

			pretty, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return errors.Wrap(err, "serialize")
			}
			_, err = fmt.Fprintln(output, string(pretty))
			return err
		},
	}
	cmd.Flags().StringVar(&chainID, "chain-id", env("BALLOTCLI_CHAIN_ID", ""), "Chain id to verify the signatures against.")
	return cmd
}
