//nolint
package store

import "github.com/resppiano/ballot"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = ballot.ReadOnlyKVStore
type SetDeleter = ballot.SetDeleter
type KVStore = ballot.KVStore
type Batch = ballot.Batch
type Iterator = ballot.Iterator
type CacheableKVStore = ballot.CacheableKVStore
type KVCacheWrap = ballot.KVCacheWrap
type CommitKVStore = ballot.CommitKVStore
type CommitID = ballot.CommitID
type Model = ballot.Model
