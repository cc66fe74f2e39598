package orm

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
)

// Sequence maintains a counter. Each value returned by NextInt is greater
// than the last, and so is its EncodeSequence representation.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextInt increments the sequence and returns its state as int.
func (s *Sequence) NextInt(db bridge.KVStore) (uint64, error) {
	return s.increment(db, 1)
}

// Latest returns the recently returned value of the sequence, zero if the
// sequence was never incremented. This method does not modify the
// sequence state.
func (s *Sequence) Latest(db bridge.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw)
}

func (s *Sequence) increment(db bridge.KVStore, inc uint64) (uint64, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	if val > math.MaxUint64-inc {
		return 0, errors.Wrapf(errors.ErrOverflow, "sequence %s", s.id)
	}
	val += inc
	if err := db.Set(s.id, EncodeSequence(val)); err != nil {
		return 0, err
	}
	return val, nil
}

// DecodeSequence returns the value of an 8 byte big endian sequence
// representation. A nil value is zero.
func DecodeSequence(bz []byte) (uint64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrap(errors.ErrInput, "sequence is invalid length (expect 8 bytes)")
	}
	return binary.BigEndian.Uint64(bz), nil
}

// EncodeSequence returns the 8 byte big endian representation of given
// value. Encoded values sort the same way as the numbers.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}
