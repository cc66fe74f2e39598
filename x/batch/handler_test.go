package batch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/bridgetest/assert"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/store"
	amino "github.com/tendermint/go-amino"
)

type handlerRegistry map[string]bridge.Handler

func (r handlerRegistry) Handle(path string, h bridge.Handler) {
	r[path] = h
}

func TestExecuteHandler(t *testing.T) {
	e := newEnv(t, store.MemStore())
	e.router.Handle("store", setHandler)

	routes := handlerRegistry{}
	RegisterRoutes(routes, e.exec)
	msg := e.msg(t, batchID(1), call("store", "one"))
	h := routes[msg.Path()]
	if h == nil {
		t.Fatal("handler not registered")
	}

	_, err := h.Check(e.ctx, e.db, msg)
	assert.Nil(t, err)

	res, err := h.Deliver(e.ctx, e.db, msg)
	assert.Nil(t, err)
	var datas [][]byte
	amino.MustUnmarshalBinaryLengthPrefixed(res.Data, &datas)
	assert.Equal(t, 1, len(datas))
	assert.Equal(t, "batch", res.Events[len(res.Events)-1].Type)

	noProof := e.msg(t, batchID(1), call("store", "one"))
	noProof.Proof = nil
	badCall := e.msg(t, batchID(1), call("store", "one"))
	badCall.Calls[0].Path = ""
	for _, replay := range []*ExecuteBatchMsg{msg, noProof, badCall} {
		if _, err := h.Check(e.ctx, e.db, replay); !ErrAlreadyExecuted.Is(err) {
			t.Fatalf("want already executed, got %+v", err)
		}
		if _, err := h.Deliver(e.ctx, e.db, replay); !ErrAlreadyExecuted.Is(err) {
			t.Fatalf("want already executed, got %+v", err)
		}
	}

	invalid := e.msg(t, batchID(2), call("store", "two"))
	invalid.BatchID = nil
	if _, err := h.Check(e.ctx, e.db, invalid); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
	invalid = e.msg(t, batchID(2), call("store", "two"))
	invalid.Proof = nil
	if _, err := h.Check(e.ctx, e.db, invalid); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want empty error, got %+v", err)
	}
}

func TestGenesis(t *testing.T) {
	var opts bridge.Options
	assert.Nil(t, json.Unmarshal([]byte(`{"conf": {"batch": {"contract": "C0C0C0C0C0C0C0C0C0C0C0C0C0C0C0C0C0C0C0C0"}}}`), &opts))

	db := store.MemStore()
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(context.Background(), opts, db))
	conf, err := Config(db)
	assert.Nil(t, err)
	assert.Equal(t, contract, conf.Contract)

	assert.Nil(t, json.Unmarshal([]byte(`{"conf": {"batch": {}}}`), &opts))
	if err := ini.FromGenesis(context.Background(), opts, store.MemStore()); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}
