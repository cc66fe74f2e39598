/*
Package leveldb provides a durable CacheableKVStore backed by goleveldb.

Every write is synced to disk. A cache wrap created by CacheWrap is written
as a single LevelDB batch, so all of its changes persist atomically or not at
all.
*/
package leveldb

import (
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/store"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var syncWrite = &opt.WriteOptions{Sync: true}

// Store is a durable key value store.
type Store struct {
	db *leveldb.DB
}

var _ bridge.CacheableKVStore = (*Store)(nil)

// Open returns a store that keeps its data in given directory. The
// directory is created if it does not exist.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenMem returns a store that keeps all data in memory. Use it for tests.
func OpenMem() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open memory storage: %s", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database. The store must not be used afterwards.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Get returns nil if the key does not exist.
func (s *Store) Get(key []byte) ([]byte, error) {
	val, err := s.db.Get(key, nil)
	switch err {
	case nil:
		return val, nil
	case leveldb.ErrNotFound:
		return nil, nil
	default:
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
}

func (s *Store) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Set writes the value and syncs it to disk before returning.
func (s *Store) Set(key, value []byte) error {
	if err := s.db.Put(key, value, syncWrite); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Delete removes the key and syncs the change to disk before returning.
func (s *Store) Delete(key []byte) error {
	if err := s.db.Delete(key, syncWrite); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (s *Store) Iterator(start, end []byte) (bridge.Iterator, error) {
	return s.newIterator(start, end, false), nil
}

func (s *Store) ReverseIterator(start, end []byte) (bridge.Iterator, error) {
	return s.newIterator(start, end, true), nil
}

func (s *Store) newIterator(start, end []byte, reverse bool) *levelIterator {
	it := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &levelIterator{it: it, reverse: reverse}
}

// NewBatch returns an atomic batch.
func (s *Store) NewBatch() bridge.Batch {
	return &batch{db: s.db}
}

// CacheWrap returns a btree cache wrap that writes all its changes to this
// store in a single atomic batch.
func (s *Store) CacheWrap() bridge.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

type batch struct {
	db *leveldb.DB
	b  leveldb.Batch
}

func (b *batch) Set(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

// Write persists all operations at once.
func (b *batch) Write() error {
	if err := b.db.Write(&b.b, syncWrite); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	b.b.Reset()
	return nil
}

type levelIterator struct {
	it      iterator.Iterator
	reverse bool
	started bool
}

func (i *levelIterator) Next() ([]byte, []byte, error) {
	var ok bool
	switch {
	case !i.started && i.reverse:
		ok = i.it.Last()
	case !i.started:
		ok = i.it.First()
	case i.reverse:
		ok = i.it.Prev()
	default:
		ok = i.it.Next()
	}
	i.started = true

	if !ok {
		if err := i.it.Error(); err != nil {
			return nil, nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		return nil, nil, errors.ErrIteratorDone
	}
	// LevelDB reuses the buffers on every move.
	key := append([]byte(nil), i.it.Key()...)
	value := append([]byte(nil), i.it.Value()...)
	return key, value, nil
}

func (i *levelIterator) Release() {
	i.it.Release()
}
