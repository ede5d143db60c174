package orm

import (
	amino "github.com/tendermint/go-amino"

	"github.com/resppiano/ballot/errors"
)

// Codec serializes every model kept in a bucket. Models are plain structs
// so they need no registration, interfaces stored inside models must be
// registered by the extension that defines them.
var Codec = amino.NewCodec()

// Marshal encodes a model in its binary representation.
func Marshal(m interface{}) ([]byte, error) {
	raw, err := Codec.MarshalBinaryBare(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "marshal %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal loads a model from its binary representation. Destination must
// be a pointer to a zero value.
func Unmarshal(raw []byte, dest interface{}) error {
	// amino encodes a zero value as no bytes at all, but refuses to decode it
	if len(raw) == 0 {
		return nil
	}
	if err := Codec.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal %T: %s", dest, err)
	}
	return nil
}
