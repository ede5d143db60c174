/*
Package bech32 encodes addresses in the bech32 format. The human readable
part names the network an address belongs to, so an address copied from
another chain is refused instead of silently decoding.
*/
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/resppiano/ballot/errors"
)

// EncodeAddress returns the bech32 form of addr under the hrp prefix.
func EncodeAddress(hrp string, addr []byte) (string, error) {
	if hrp == "" {
		return "", errors.Wrap(errors.ErrEmpty, "human readable part")
	}
	if len(addr) == 0 {
		return "", errors.Wrap(errors.ErrEmpty, "address")
	}
	data, err := bech32.ConvertBits(addr, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	raw, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32 encode: %s", err)
	}
	return raw, nil
}

// DecodeAddress returns the address encoded in raw. The human readable part
// of raw must be hrp.
func DecodeAddress(hrp, raw string) ([]byte, error) {
	got, data, err := bech32.Decode(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32 decode: %s", err)
	}
	if got != hrp {
		return nil, errors.Wrapf(errors.ErrInput, "want %q address, got %q", hrp, got)
	}
	addr, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	return addr, nil
}
