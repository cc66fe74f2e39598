package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a prefixed subspace of the DB. It stores raw values and is
// the building block of type-safe buckets such as ModelBucket.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data. It panics if the name is not
// a valid bucket name.
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of this bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get returns the raw value stored under given key or nil.
func (b Bucket) Get(db bridge.ReadOnlyKVStore, key []byte) ([]byte, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrapf(err, "bucket %s", b.name)
	}
	return raw, nil
}

// Has returns true if a value is stored under given key.
func (b Bucket) Has(db bridge.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrapf(err, "bucket %s", b.name)
	}
	return ok, nil
}

// Set writes the raw value under given key.
func (b Bucket) Set(db bridge.KVStore, key, value []byte) error {
	if len(key) == 0 {
		return errors.Wrapf(errors.ErrEmpty, "bucket %s: key", b.name)
	}
	return db.Set(b.DBKey(key), value)
}

// Delete removes the value stored under given key.
func (b Bucket) Delete(db bridge.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// Iterator returns an iterator over all entries of this bucket in ascending
// key order. Returned keys do not contain the bucket prefix.
func (b Bucket) Iterator(db bridge.ReadOnlyKVStore) (bridge.Iterator, error) {
	it, err := db.Iterator(b.prefix, prefixEnd(b.prefix))
	if err != nil {
		return nil, errors.Wrapf(err, "bucket %s", b.name)
	}
	return &prefixIterator{it: it, prefixLen: len(b.prefix)}, nil
}

// Sequence returns a Sequence by name
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// prefixEnd returns the first key that is greater than all keys starting
// with given prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

type prefixIterator struct {
	it        bridge.Iterator
	prefixLen int
}

func (p *prefixIterator) Next() ([]byte, []byte, error) {
	key, value, err := p.it.Next()
	if err != nil {
		return nil, nil, err
	}
	return key[p.prefixLen:], value, nil
}

func (p *prefixIterator) Release() {
	p.it.Release()
}
