package orm

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	proto.Message
	Validate() error
}

// ModelBucket stores models of a single type.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary key. Result is loaded into given destination model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db bridge.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given key exists, ErrNotFound
	// otherwise.
	Has(db bridge.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. The model is validated
	// before being stored.
	Put(db bridge.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db bridge.KVStore, key []byte) error

	// IterAll returns an iterator over all entities of this bucket in
	// ascending primary key order.
	IterAll(db bridge.ReadOnlyKVStore) (*ModelIterator, error)
}

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as given m.
func NewModelBucket(name string, m Model) ModelBucket {
	return &modelBucket{
		b:     NewBucket(name),
		model: reflect.TypeOf(m),
	}
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db bridge.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := mb.checkType(dest); err != nil {
		return err
	}
	raw, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db bridge.ReadOnlyKVStore, key []byte) error {
	ok, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "key %X", key)
	}
	return nil
}

func (mb *modelBucket) Put(db bridge.KVStore, key []byte, m Model) error {
	if err := mb.checkType(m); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := proto.Marshal(m)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	if err := mb.b.Set(db, key, raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db bridge.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) IterAll(db bridge.ReadOnlyKVStore) (*ModelIterator, error) {
	it, err := mb.b.Iterator(db)
	if err != nil {
		return nil, err
	}
	return &ModelIterator{it: it, mb: mb}, nil
}

func (mb *modelBucket) checkType(m Model) error {
	if reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %v", m, mb.model)
	}
	return nil
}

// ModelIterator loads the models of a bucket one by one.
type ModelIterator struct {
	it bridge.Iterator
	mb *modelBucket
}

// LoadNext loads the next model into dest and returns its primary key. It
// returns errors.ErrIteratorDone when all models were loaded.
func (m *ModelIterator) LoadNext(dest Model) ([]byte, error) {
	if err := m.mb.checkType(dest); err != nil {
		return nil, err
	}
	key, raw, err := m.it.Next()
	if err != nil {
		return nil, err
	}
	dest.Reset()
	if err := proto.Unmarshal(raw, dest); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return key, nil
}

// Release releases the underlying iterator.
func (m *ModelIterator) Release() {
	m.it.Release()
}
