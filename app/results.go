package app

import (
	"github.com/resppiano/ballot"
	"github.com/resppiano/ballot/errors"
	"github.com/resppiano/ballot/orm"
)

// ResultSet is the container of all query results. Both the key and the
// value of an abci query response hold one ResultSet of the same length.
type ResultSet struct {
	Results [][]byte
}

// Marshal encodes the set with amino.
func (r *ResultSet) Marshal() ([]byte, error) {
	return orm.Marshal(r)
}

// Unmarshal decodes an amino encoded set.
func (r *ResultSet) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, r)
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []ballot.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []ballot.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]ballot.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]ballot.Model, len(kref))
	for i := range mods {
		mods[i] = ballot.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult parses a ResultSet and, if it is not empty,
// decodes the first result into dest. It returns ErrNotFound for an empty
// set.
func UnmarshalOneResult(raw []byte, dest interface{}) error {
	var res ResultSet
	if err := res.Unmarshal(raw); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	return orm.Unmarshal(res.Results[0], dest)
}
