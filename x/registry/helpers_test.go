package registry

import (
	"bytes"
	"testing"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/bridgetest"
	"github.com/iov-one/bridge/bridgetest/assert"
	"github.com/iov-one/bridge/gconf"
	"github.com/iov-one/bridge/x/signers"
)

// signerSet returns a set of the deterministic test keys with given indexes,
// each of weight one.
func signerSet(t testing.TB, threshold uint64, nonce byte, indexes ...uint32) *signers.WeightedSignerSet {
	t.Helper()
	var ss []*signers.Signer
	for _, i := range indexes {
		ss = append(ss, &signers.Signer{
			Address: bridgetest.Secp256k1Key(t, i).Address(),
			Weight:  1,
		})
	}
	set, err := signers.NewWeightedSignerSet(ss, threshold, bytes.Repeat([]byte{nonce}, signers.NonceSize))
	if err != nil {
		t.Fatalf("cannot create signer set: %s", err)
	}
	return set
}

func digestOf(t testing.TB, set *signers.WeightedSignerSet) []byte {
	t.Helper()
	d, err := set.Digest()
	assert.Nil(t, err)
	return d
}

func saveConf(t testing.TB, db bridge.KVStore, conf Configuration) {
	t.Helper()
	if err := gconf.Save(db, "registry", &conf); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}
}
