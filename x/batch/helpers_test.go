package batch

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/bridgetest"
	"github.com/iov-one/bridge/bridgetest/assert"
	"github.com/iov-one/bridge/crypto"
	"github.com/iov-one/bridge/gconf"
	"github.com/iov-one/bridge/x/proof"
	"github.com/iov-one/bridge/x/registry"
	"github.com/iov-one/bridge/x/signers"
	"github.com/stretchr/testify/mock"
)

const testChainID = "bridge-test"

var (
	contract        = bridge.Address(bytes.Repeat([]byte{0xc0}, bridge.AddressLength))
	otherContract   = bridge.Address(bytes.Repeat([]byte{0xc1}, bridge.AddressLength))
	domainSeparator = bytes.Repeat([]byte{0x42}, proof.DomainSeparatorSize)
)

// env is a fully configured batch executor with a registered signer set of
// three keys of weight one and threshold two.
type env struct {
	ctx      bridge.Context
	db       bridge.CacheableKVStore
	registry *registry.Controller
	router   *Router
	exec     *Executor
	keys     []crypto.PrivateKey
	set      *signers.WeightedSignerSet
}

func newEnv(t testing.TB, db bridge.CacheableKVStore) *env {
	t.Helper()
	assert.Nil(t, gconf.Save(db, "registry", &registry.Configuration{}))
	assert.Nil(t, gconf.Save(db, "proof", &proof.Configuration{DomainSeparator: domainSeparator}))
	assert.Nil(t, gconf.Save(db, "batch", &Configuration{Contract: contract}))

	keys := bridgetest.SortedKeys(t, 3)
	var ss []*signers.Signer
	for _, k := range keys {
		ss = append(ss, &signers.Signer{Address: k.Address(), Weight: 1})
	}
	set, err := signers.NewWeightedSignerSet(ss, 2, make([]byte, signers.NonceSize))
	assert.Nil(t, err)

	ctx := bridge.WithChainID(context.Background(), testChainID)
	reg := registry.NewController()
	_, _, err = reg.Rotate(ctx, db, set)
	assert.Nil(t, err)

	router := NewRouter()
	return &env{
		ctx:      ctx,
		db:       db,
		registry: reg,
		router:   router,
		exec:     NewExecutor(proof.NewVerifier(reg), router),
		keys:     keys,
		set:      set,
	}
}

// msg returns a batch message with a proof signed by the first two keys.
func (e *env) msg(t testing.TB, batchID []byte, calls ...*Call) *ExecuteBatchMsg {
	t.Helper()
	data, err := DataDigest(batchID, calls)
	assert.Nil(t, err)
	b, err := proof.NewBuilder(domainSeparator, e.set, data)
	assert.Nil(t, err)
	assert.Nil(t, b.Sign(e.keys[0]))
	assert.Nil(t, b.Sign(e.keys[1]))
	return &ExecuteBatchMsg{
		BatchID: batchID,
		Calls:   calls,
		Proof:   b.Proof(),
	}
}

func call(path string, payload string) *Call {
	return &Call{
		ChainID:  testChainID,
		Contract: contract,
		Path:     path,
		Payload:  []byte(payload),
	}
}

func batchID(n uint64) []byte {
	return bridgetest.SequenceID(n)
}

// setHandler stores the payload of every call under the "payload:" prefixed
// call path and returns the previous value as data.
var setHandler = CallHandlerFunc(func(ctx bridge.Context, db bridge.KVStore, c *Call) (*bridge.DeliverResult, error) {
	key := []byte("payload:" + c.Path)
	prev, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	if err := db.Set(key, c.Payload); err != nil {
		return nil, err
	}
	return &bridge.DeliverResult{
		Data:   prev,
		Events: []bridge.Event{bridge.NewEvent("stored", "path", c.Path)},
	}, nil
})

type mockHandler struct {
	mock.Mock
}

func (m *mockHandler) Call(ctx bridge.Context, db bridge.KVStore, c *Call) (*bridge.DeliverResult, error) {
	args := m.Called(ctx, db, c)
	res, _ := args.Get(0).(*bridge.DeliverResult)
	return res, args.Error(1)
}
