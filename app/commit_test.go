package app

import (
	"testing"

	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStoreCaches(t *testing.T) {
	cs, err := NewCommitStore(iavl.NewMemCommitStore())
	require.NoError(t, err)

	require.NoError(t, cs.DeliverStore().Set([]byte("delivered"), []byte("1")))
	require.NoError(t, cs.CheckStore().Set([]byte("checked"), []byte("1")))

	id, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	info, err := cs.CommitInfo()
	require.NoError(t, err)
	assert.Equal(t, id, info)

	// deliver state is persisted and visible to both new caches
	v, err := cs.CheckStore().Get([]byte("delivered"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	// check state is dropped on commit
	has, err := cs.DeliverStore().Has([]byte("checked"))
	require.NoError(t, err)
	assert.False(t, has)
	has, err = cs.CheckStore().Has([]byte("checked"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestChainIDStorage(t *testing.T) {
	cs, err := NewCommitStore(iavl.NewMemCommitStore())
	require.NoError(t, err)
	db := cs.DeliverStore()

	id, err := loadChainID(db)
	require.NoError(t, err)
	assert.Equal(t, "", id)

	err = saveChainID(db, "bad")
	assert.True(t, errors.ErrInput.Is(err))

	require.NoError(t, saveChainID(db, "ballot-chain"))
	err = saveChainID(db, "other-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err))

	id, err = loadChainID(db)
	require.NoError(t, err)
	assert.Equal(t, "ballot-chain", id)
}
