package ldbstorage

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	memstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"massnet.org/sha2/database/storage"
	"massnet.org/sha2/logging"
)

const (
	// DbType stores records on disk.
	DbType = "leveldb"
	// MemDbType keeps records in memory, dbpath is ignored.
	MemDbType = "memleveldb"
)

type levelDB struct {
	db *leveldb.DB
}

type levelBatch struct {
	b *leveldb.Batch
}

type levelIterator struct {
	iter iterator.Iterator
}

func init() {
	storage.RegisterDriver(storage.StorageDriver{
		DbType:      DbType,
		OpenStorage: OpenDB,
	})
	storage.RegisterDriver(storage.StorageDriver{
		DbType:      MemDbType,
		OpenStorage: OpenMemDB,
	})
}

func options() *opt.Options {
	return &opt.Options{
		Filter:             filter.NewBloomFilter(10),
		WriteBuffer:        4 * opt.MiB,
		BlockSize:          4 * opt.KiB,
		BlockCacheCapacity: 8 * opt.MiB,
		Compression:        opt.DefaultCompression,
	}
}

// OpenDB opens the leveldb at path, creating it when missing.
func OpenDB(path string) (storage.Storage, error) {
	ldb, err := leveldb.OpenFile(path, options())
	if err != nil {
		logging.CPrint(logging.ERROR, "open leveldb error", logging.LogFormat{
			"path": path,
			"err":  err,
		})
		return nil, err
	}

	logging.VPrint(logging.INFO, "open leveldb", logging.LogFormat{"path": path})
	return &levelDB{db: ldb}, nil
}

// OpenMemDB opens an empty leveldb backed by memory.
func OpenMemDB(string) (storage.Storage, error) {
	ldb, err := leveldb.Open(memstorage.NewMemStorage(), options())
	if err != nil {
		return nil, err
	}
	return &levelDB{db: ldb}, nil
}

func (l *levelDB) Close() error {
	return l.db.Close()
}

func (l *levelDB) Get(key []byte) ([]byte, error) {
	value, err := l.db.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (l *levelDB) Put(key, value []byte) error {
	if len(key) == 0 {
		return storage.ErrInvalidKey
	}
	return l.db.Put(key, value, nil)
}

func (l *levelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

func (l *levelDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

func (l *levelDB) NewBatch() storage.Batch {
	return &levelBatch{
		b: new(leveldb.Batch),
	}
}

func (l *levelDB) Write(batch storage.Batch) error {
	lb, ok := batch.(*levelBatch)
	if !ok {
		return storage.ErrInvalidBatch
	}
	return l.db.Write(lb.b, nil)
}

func (l *levelDB) NewIterator(slice *storage.Range) storage.Iterator {
	var r *util.Range
	if slice != nil {
		r = &util.Range{Start: slice.Start, Limit: slice.Limit}
		if len(r.Start) == 0 {
			r.Start = nil
		}
		if len(r.Limit) == 0 {
			r.Limit = nil
		}
	}
	return &levelIterator{iter: l.db.NewIterator(r, nil)}
}

// -------------levelBatch-------------

func (b *levelBatch) Put(key, value []byte) error {
	if len(key) == 0 {
		return storage.ErrInvalidKey
	}
	b.b.Put(key, value)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	if len(key) == 0 {
		return storage.ErrInvalidKey
	}
	b.b.Delete(key)
	return nil
}

func (b *levelBatch) Reset() {
	b.b.Reset()
}

func (b *levelBatch) Release() {
	b.b = nil
}

// -----------------levelIterator-----------------

func (it *levelIterator) Next() bool {
	return it.iter.Next()
}

// Key returns a copy, the iterator reuses its buffer.
func (it *levelIterator) Key() []byte {
	return append([]byte(nil), it.iter.Key()...)
}

func (it *levelIterator) Value() []byte {
	return append([]byte(nil), it.iter.Value()...)
}

func (it *levelIterator) Release() {
	it.iter.Release()
}

func (it *levelIterator) Error() error {
	return it.iter.Error()
}
