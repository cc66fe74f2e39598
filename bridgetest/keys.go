package bridgetest

import (
	"bytes"
	"encoding/binary"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/crypto"
)

// Secp256k1Key returns a deterministic secp256k1 key for given index. The
// same index always returns the same key.
func Secp256k1Key(t testing.TB, index uint32) *crypto.Secp256k1 {
	t.Helper()
	raw := make([]byte, 32)
	binary.BigEndian.PutUint32(raw[28:], index+1)
	key, err := crypto.Secp256k1FromBytes(raw)
	if err != nil {
		t.Fatalf("cannot create secp256k1 key %d: %s", index, err)
	}
	return key
}

// Ed25519Key returns a deterministic ed25519 key for given index.
func Ed25519Key(t testing.TB, index uint32) *crypto.Ed25519 {
	t.Helper()
	seed := make([]byte, 32)
	binary.BigEndian.PutUint32(seed[28:], index+1)
	key, err := crypto.Ed25519FromSeed(seed)
	if err != nil {
		t.Fatalf("cannot create ed25519 key %d: %s", index, err)
	}
	return key
}

// SortedKeys returns n deterministic secp256k1 keys ordered by their
// address, ascending.
func SortedKeys(t testing.TB, n int) []crypto.PrivateKey {
	t.Helper()
	keys := make([]crypto.PrivateKey, n)
	for i := range keys {
		keys[i] = Secp256k1Key(t, uint32(i))
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Address(), keys[j].Address()) < 0
	})
	return keys
}

var condSeq uint64

// NewCondition returns a unique condition every time it is called.
func NewCondition() bridge.Condition {
	n := atomic.AddUint64(&condSeq, 1)
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, n)
	return bridge.NewCondition("test", "seq", data)
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) bridge.Address {
	t.Helper()
	addr, err := bridge.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// SequenceID returns a 32 byte identifier derived from given number.
func SequenceID(n uint64) []byte {
	id := make([]byte, 32)
	binary.BigEndian.PutUint64(id[24:], n)
	return id
}
