package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/resppiano/ballot/crypto"
	"github.com/resppiano/ballot/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ed25519"
)

func defaultKeyPath() string {
	return env("BALLOTCLI_PRIV_KEY", os.Getenv("HOME")+"/.ballot.priv.key")
}

func keygenCmd(output io.Writer) *cobra.Command {
	var keyPath, seedHex, path string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new private key",
		Long: `Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists. With
--seed the key is derived from the hex encoded seed using the SLIP-0010
path given with --path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(keyPath); !os.IsNotExist(err) {
				// Never overwrite a key, the user must delete it first.
				return errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists", keyPath)
			}

			var key *crypto.PrivateKey
			if seedHex == "" {
				key = crypto.GenPrivKeyEd25519()
			} else {
				seed, err := hex.DecodeString(seedHex)
				if err != nil {
					return errors.Wrapf(errors.ErrInput, "seed: %s", err)
				}
				if key, err = crypto.DeriveKey(seed, path); err != nil {
					return err
				}
			}

			if err := ioutil.WriteFile(keyPath, key.Ed25519, 0600); err != nil {
				return errors.Wrap(err, "write private key")
			}
			_, err := fmt.Fprintln(output, key.PublicKey().Address())
			return err
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", defaultKeyPath(),
		"Path to the private key file. You can use BALLOTCLI_PRIV_KEY environment variable to set it.")
	cmd.Flags().StringVar(&seedHex, "seed", "", "Hex encoded seed to derive the key from, random when empty.")
	cmd.Flags().StringVar(&path, "path", crypto.DefaultPath, "SLIP-0010 derivation path, used with --seed.")
	return cmd
}

func addressCmd(output io.Writer) *cobra.Command {
	var keyPath string
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the hex and bech32 address of your private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadPrivateKey(keyPath)
			if err != nil {
				return err
			}
			addr := key.PublicKey().Address()
			b32, err := addr.Bech32()
			if err != nil {
				return errors.Wrap(err, "bech32")
			}
			_, err = fmt.Fprintf(output, "hex:    %s\nbech32: %s\n", addr, b32)
			return err
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", defaultKeyPath(),
		"Path to the private key file. You can use BALLOTCLI_PRIV_KEY environment variable to set it.")
	return cmd
}

// loadPrivateKey reads a key file written by keygen.
func loadPrivateKey(keyPath string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(keyPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}
