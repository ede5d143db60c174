package app

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/x/sigs"
)

// Tx is the transaction format of the ballot ledger: one message and the
// signatures of everyone who authorized it.
type Tx struct {
	Msg        ballot.Msg
	Signatures []*sigs.StdSignature
}

// make sure tx fulfills all interfaces
var _ ballot.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(raw []byte) (ballot.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message of this transaction.
func (tx *Tx) GetMsg() (ballot.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "transaction without message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures attached to this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign, which is the transaction
// encoded without any signature.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// Marshal encodes the transaction with amino.
func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := TxCodec.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "marshal tx: %s", err)
	}
	return raw, nil
}

// Unmarshal decodes an amino encoded transaction.
func (tx *Tx) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "transaction bytes")
	}
	if err := TxCodec.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrapf(errors.ErrInput, "unmarshal tx: %s", err)
	}
	return nil
}
