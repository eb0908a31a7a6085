package storage

import (
	"errors"
)

var (
	ErrDbUnknownType = errors.New("non-existent database type")
	ErrInvalidKey    = errors.New("invalid key")
	ErrInvalidBatch  = errors.New("invalid batch")
	ErrNotFound      = errors.New("not found")
)

// Range is a key range.
type Range struct {
	// Start of the key range, include in the range.
	Start []byte

	// Limit of the key range, not include in the range.
	Limit []byte
}

// BytesPrefix returns the Range covering every key that starts with prefix.
func BytesPrefix(prefix []byte) *Range {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return &Range{Start: prefix, Limit: limit}
}

type Iterator interface {
	Release()
	Error() error
	Next() bool
	Key() []byte
	Value() []byte
}

type Batch interface {
	Release()
	Put(key, value []byte) error
	Delete(key []byte) error
	Reset()
}

type Storage interface {
	Close() error
	// Get returns ErrNotFound if key not exist
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Has(key []byte) (bool, error)
	Delete(key []byte) error
	Write(batch Batch) error
	NewBatch() Batch
	NewIterator(slice *Range) Iterator
}

type StorageDriver struct {
	DbType string
	// OpenStorage opens storPath, creating it when missing.
	OpenStorage func(storPath string) (s Storage, err error)
}

var drivers []StorageDriver

func RegisterDriver(instance StorageDriver) {
	for _, drv := range drivers {
		if drv.DbType == instance.DbType {
			return
		}
	}
	drivers = append(drivers, instance)
}

// OpenStorage opens a database of dbtype at dbpath.
func OpenStorage(dbtype, dbpath string) (s Storage, err error) {
	for _, drv := range drivers {
		if drv.DbType == dbtype {
			return drv.OpenStorage(dbpath)
		}
	}
	return nil, ErrDbUnknownType
}

func RegisteredDbTypes() []string {
	var types []string
	for _, drv := range drivers {
		types = append(types, drv.DbType)
	}
	return types
}
