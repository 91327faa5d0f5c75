/*
Package store provides a btree-backed implementation of the ledger.KVStore
interface.

Production deployments mount the host ledger's storage engine behind the
same interface. MemStore is the canonical store for tests and for any logic
that must run against deterministic, isolated state.
*/
package store

import (
	"bytes"

	"github.com/google/btree"

	"github.com/deeper-network/ledger"
)

// degree is the branching factor of the underlying btree. The value is not
// performance critical for test-sized data sets.
const degree = 2

// MemStore is a simple in-memory ledger.KVStore implementation. There is no
// persistence here. The zero value is not usable, always create instances
// through the MemStore constructor.
type MemStore struct {
	bt *btree.BTree
}

var _ ledger.KVStore = (*MemStore)(nil)

// NewMemStore returns an empty in-memory key-value store.
func NewMemStore() *MemStore {
	return &MemStore{
		bt: btree.New(degree),
	}
}

// Get returns the value stored under given key, or nil.
func (s *MemStore) Get(key []byte) []byte {
	assertValidKey(key)
	item := s.bt.Get(bkey{key})
	if item == nil {
		return nil
	}
	return item.(setItem).value
}

// Has returns true if given key exists.
func (s *MemStore) Has(key []byte) bool {
	assertValidKey(key)
	return s.bt.Has(bkey{key})
}

// Set stores the value under given key, overwriting any previous value.
func (s *MemStore) Set(key, value []byte) {
	assertValidKey(key)
	s.bt.ReplaceOrInsert(newSetItem(key, value))
}

// Delete removes given key. Deleting a missing key is a noop.
func (s *MemStore) Delete(key []byte) {
	assertValidKey(key)
	s.bt.Delete(bkey{key})
}

// DeletePrefix removes every key starting with given prefix as one bulk
// operation.
func (s *MemStore) DeletePrefix(prefix []byte) {
	if len(prefix) == 0 {
		panic("store: refusing to delete an empty prefix")
	}

	start, end := ledger.PrefixRange(prefix)
	var doomed []btree.Item
	s.ascendRange(start, end, func(item btree.Item) bool {
		doomed = append(doomed, item)
		return true
	})
	for _, item := range doomed {
		s.bt.Delete(item)
	}
}

// Iterator returns an iterator over the [start, end) domain in ascending
// order. The iterator holds a snapshot of the matching entries, so writes
// performed while iterating are not reflected.
func (s *MemStore) Iterator(start, end []byte) ledger.Iterator {
	var models []Model
	s.ascendRange(start, end, func(item btree.Item) bool {
		it := item.(setItem)
		models = append(models, Model{Key: it.key, Value: it.value})
		return true
	})
	return NewSliceIterator(models)
}

func (s *MemStore) ascendRange(start, end []byte, fn func(item btree.Item) bool) {
	switch {
	case start == nil && end == nil:
		s.bt.Ascend(fn)
	case start == nil:
		s.bt.AscendLessThan(bkey{end}, fn)
	case end == nil:
		s.bt.AscendGreaterOrEqual(bkey{start}, fn)
	default:
		s.bt.AscendRange(bkey{start}, bkey{end}, fn)
	}
}

func assertValidKey(key []byte) {
	if len(key) == 0 {
		panic("store: nil key is not allowed")
	}
}

// bkey is a comparison-only item used for lookups and range bounds.
type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

// Less returns true iff this item is smaller than the other.
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

func (k bkey) Key() []byte {
	return k.key
}

// setItem is an existing key-value pair stored in the tree.
type setItem struct {
	key   []byte
	value []byte
}

var _ btree.Item = setItem{}

func newSetItem(key, value []byte) setItem {
	return setItem{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	}
}

// Less returns true iff this item is smaller than the other.
func (i setItem) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(i.key, cmp) < 0
}

func (i setItem) Key() []byte {
	return i.key
}

// keyer is implemented by every item stored in the tree so that bkey and
// setItem can be compared against each other.
type keyer interface {
	Key() []byte
}
