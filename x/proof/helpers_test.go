package proof

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/bridgetest/assert"
	"github.com/iov-one/bridge/crypto"
	"github.com/iov-one/bridge/gconf"
	"github.com/iov-one/bridge/store"
	"github.com/iov-one/bridge/x/registry"
	"github.com/iov-one/bridge/x/signers"
)

var domainSeparator = bytes.Repeat([]byte{0x42}, DomainSeparatorSize)

type fixture struct {
	db       bridge.CacheableKVStore
	registry *registry.Controller
	verifier *Verifier
}

func newFixture(t testing.TB, retention uint32) *fixture {
	t.Helper()
	db := store.MemStore()
	assert.Nil(t, gconf.Save(db, "registry", &registry.Configuration{RetentionWindow: retention}))
	assert.Nil(t, gconf.Save(db, "proof", &Configuration{DomainSeparator: domainSeparator}))
	reg := registry.NewController()
	return &fixture{
		db:       db,
		registry: reg,
		verifier: NewVerifier(reg),
	}
}

func (f *fixture) rotate(t testing.TB, set *signers.WeightedSignerSet) uint64 {
	t.Helper()
	epoch, _, err := f.registry.Rotate(context.Background(), f.db, set)
	assert.Nil(t, err)
	return epoch
}

// signerSet returns a set of given keys, where weights are given in the same
// order as keys. A missing weight is one.
func signerSet(t testing.TB, threshold uint64, nonce byte, keys []crypto.Signer, weights ...uint64) *signers.WeightedSignerSet {
	t.Helper()
	var ss []*signers.Signer
	for i, k := range keys {
		w := uint64(1)
		if i < len(weights) {
			w = weights[i]
		}
		ss = append(ss, &signers.Signer{Address: k.Address(), Weight: w})
	}
	set, err := signers.NewWeightedSignerSet(ss, threshold, bytes.Repeat([]byte{nonce}, signers.NonceSize))
	assert.Nil(t, err)
	return set
}

func prove(t testing.TB, set *signers.WeightedSignerSet, dataDigest []byte, keys ...crypto.Signer) *Proof {
	t.Helper()
	b, err := NewBuilder(domainSeparator, set, dataDigest)
	assert.Nil(t, err)
	for _, k := range keys {
		assert.Nil(t, b.Sign(k))
	}
	return b.Proof()
}

func digest(b byte) []byte {
	return bytes.Repeat([]byte{b}, DataDigestSize)
}
