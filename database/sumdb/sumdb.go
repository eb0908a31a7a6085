// Package sumdb records file digests by name on top of a storage.Storage.
package sumdb

import (
	"bytes"

	"github.com/pkg/errors"
	"massnet.org/sha2/database/storage"
	"massnet.org/sha2/hashutil"
)

var sumPrefix = []byte("s/")

// ErrCorruptRecord is returned when a stored value is not a 32-byte digest.
var ErrCorruptRecord = errors.New("corrupt digest record")

// SumDB maps names to digests.
type SumDB struct {
	store storage.Storage
}

// Open opens (or creates) the digest records of dbtype at path.
func Open(dbtype, path string) (*SumDB, error) {
	store, err := storage.OpenStorage(dbtype, path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s sumdb at %s", dbtype, path)
	}
	return New(store), nil
}

// New wraps an already open storage.
func New(store storage.Storage) *SumDB {
	return &SumDB{store: store}
}

func sumKey(name string) []byte {
	return append(append([]byte(nil), sumPrefix...), name...)
}

// Put records h for name, replacing any earlier record.
func (db *SumDB) Put(name string, h hashutil.Hash) error {
	if name == "" {
		return storage.ErrInvalidKey
	}
	return db.store.Put(sumKey(name), h.Bytes())
}

// PutAll records every entry in one batch.
func (db *SumDB) PutAll(sums map[string]hashutil.Hash) error {
	batch := db.store.NewBatch()
	defer batch.Release()
	for name, h := range sums {
		if name == "" {
			return storage.ErrInvalidKey
		}
		if err := batch.Put(sumKey(name), h.Bytes()); err != nil {
			return err
		}
	}
	return db.store.Write(batch)
}

// Get returns the digest recorded for name, storage.ErrNotFound if none.
func (db *SumDB) Get(name string) (hashutil.Hash, error) {
	v, err := db.store.Get(sumKey(name))
	if err != nil {
		return hashutil.Hash{}, err
	}
	return decode(name, v)
}

// Delete drops the record of name.
func (db *SumDB) Delete(name string) error {
	return db.store.Delete(sumKey(name))
}

// ForEach calls fn for every record in name order, stopping at the first error.
func (db *SumDB) ForEach(fn func(name string, h hashutil.Hash) error) error {
	it := db.store.NewIterator(storage.BytesPrefix(sumPrefix))
	defer it.Release()

	for it.Next() {
		name := string(bytes.TrimPrefix(it.Key(), sumPrefix))
		h, err := decode(name, it.Value())
		if err != nil {
			return err
		}
		if err := fn(name, h); err != nil {
			return err
		}
	}
	return it.Error()
}

func (db *SumDB) Close() error {
	return db.store.Close()
}

func decode(name string, v []byte) (hashutil.Hash, error) {
	var h hashutil.Hash
	if len(v) != len(h) {
		return h, errors.Wrapf(ErrCorruptRecord, "%s: %d bytes", name, len(v))
	}
	copy(h[:], v)
	return h, nil
}
