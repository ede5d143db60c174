package ballot_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
	"github.com/stretchr/testify/assert"
)

func TestDeliverOrError(t *testing.T) {
	res := ballot.DeliverOrError(&ballot.DeliverResult{Data: []byte("ok"), Log: "done"}, nil, false)
	assert.Equal(t, uint32(errors.SuccessABCICode), res.Code)
	assert.Equal(t, []byte("ok"), res.Data)
	assert.Equal(t, "done", res.Log)

	res = ballot.DeliverOrError(nil, errors.Wrap(errors.ErrUnauthorized, "not the chair"), false)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)
	assert.True(t, strings.HasPrefix(res.Log, "cannot deliver tx: "))
	assert.Contains(t, res.Log, "not the chair")
}

func TestCheckOrError(t *testing.T) {
	check := ballot.NewCheck(10, "fine")
	res := ballot.CheckOrError(&check, nil, false)
	assert.Equal(t, uint32(errors.SuccessABCICode), res.Code)
	assert.Equal(t, int64(10), res.GasWanted)
	assert.Equal(t, "fine", res.Log)

	res = ballot.CheckOrError(nil, errors.ErrDuplicate, false)
	assert.Equal(t, errors.ErrDuplicate.ABCICode(), res.Code)
	assert.True(t, strings.HasPrefix(res.Log, "cannot check tx: "))
}

func TestInternalErrorsAreHidden(t *testing.T) {
	internal := fmt.Errorf("secret database path")

	res := ballot.DeliverTxError(internal, false)
	assert.NotEqual(t, uint32(errors.SuccessABCICode), res.Code)
	assert.NotContains(t, res.Log, "secret")

	res = ballot.DeliverTxError(internal, true)
	assert.Contains(t, res.Log, "secret")

	q := ballot.QueryError(errors.ErrNotFound, false)
	assert.Equal(t, errors.ErrNotFound.ABCICode(), q.Code)
}
