package store

import (
	"bytes"

	"github.com/resppiano/ballot/errors"
)

// sliceIterator wraps an Iterator over a slice of models
type sliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*sliceIterator)(nil)

// NewSliceIterator creates a new Iterator over this slice
func NewSliceIterator(data []Model) Iterator {
	return &sliceIterator{data: data}
}

// Next returns the following key value pair or ErrIteratorDone when the end
// of the slice is reached.
func (s *sliceIterator) Next() (key, value []byte, err error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

// Release releases the Iterator.
func (s *sliceIterator) Release() {
	s.data = nil
}

// ReadAll drains an iterator into a slice of models and releases it.
func ReadAll(it Iterator) ([]Model, error) {
	defer it.Release()
	var res []Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, Model{Key: k, Value: v})
	}
}

// mergeModels overlays the cached items on top of the parent items. Both
// lists must be sorted in the same direction. Deleted entries (nil value
// in the overlay) hide the parent entry with the same key.
func mergeModels(overlay []cachedItem, parent []Model, ascending bool) []Model {
	res := make([]Model, 0, len(overlay)+len(parent))
	less := func(a, b []byte) bool {
		if ascending {
			return bytes.Compare(a, b) < 0
		}
		return bytes.Compare(a, b) > 0
	}

	i, j := 0, 0
	for i < len(overlay) || j < len(parent) {
		switch {
		case j >= len(parent) || (i < len(overlay) && less(overlay[i].key, parent[j].Key)):
			if !overlay[i].deleted {
				res = append(res, Model{Key: overlay[i].key, Value: overlay[i].value})
			}
			i++
		case i >= len(overlay) || less(parent[j].Key, overlay[i].key):
			res = append(res, parent[j])
			j++
		default:
			// Same key, the overlay wins.
			if !overlay[i].deleted {
				res = append(res, Model{Key: overlay[i].key, Value: overlay[i].value})
			}
			i++
			j++
		}
	}
	return res
}

// cachedItem is a flattened btree entry.
type cachedItem struct {
	key     []byte
	value   []byte
	deleted bool
}
