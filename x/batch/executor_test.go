package batch

import (
	"context"
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/bridgetest/assert"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/store"
	"github.com/iov-one/bridge/store/leveldb"
	"github.com/iov-one/bridge/x/proof"
	"github.com/iov-one/bridge/x/signers"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	amino "github.com/tendermint/go-amino"
)

func TestScenarioExecuteOnce(t *testing.T) {
	Convey("Given a registered signer set and a batch of two calls", t, func() {
		e := newEnv(t, store.MemStore())
		h := &mockHandler{}
		e.router.Handle("first", h)
		e.router.Handle("second", h)

		c1 := call("first", "one")
		c2 := call("second", "two")
		msg := e.msg(t, batchID(1), c1, c2)

		h.On("Call", mock.Anything, mock.Anything, c1).Return(&bridge.DeliverResult{}, nil).Once()
		h.On("Call", mock.Anything, mock.Anything, c2).Return(&bridge.DeliverResult{}, nil).Once()

		Convey("When the batch is executed", func() {
			res, err := e.exec.Execute(e.ctx, e.db, msg)
			So(err, ShouldBeNil)
			So(res.Executed, ShouldEqual, 2)
			h.AssertExpectations(t)

			rec, err := e.exec.Record(e.db, batchID(1))
			So(err, ShouldBeNil)
			So(rec.State, ShouldEqual, BatchState_Executed)
			So(rec.Epoch, ShouldEqual, uint64(1))

			Convey("Then the same batch cannot be executed again", func() {
				_, err := e.exec.Execute(e.ctx, e.db, msg)
				So(ErrAlreadyExecuted.Is(err), ShouldBeTrue)
			})

			Convey("Then the proof is not checked again", func() {
				replay := e.msg(t, batchID(1), c1, c2)
				replay.Proof.Signatures = nil
				_, err := e.exec.Execute(e.ctx, e.db, replay)
				So(ErrAlreadyExecuted.Is(err), ShouldBeTrue)
			})

			Convey("Then a replay without a proof is rejected as executed", func() {
				replay := e.msg(t, batchID(1), c1, c2)
				replay.Proof = nil
				_, err := e.exec.Execute(e.ctx, e.db, replay)
				So(ErrAlreadyExecuted.Is(err), ShouldBeTrue)
			})

			Convey("Then a replay with a malformed call is rejected as executed", func() {
				replay := e.msg(t, batchID(1), c1, c2)
				replay.Calls = append(replay.Calls, call("", "x"), nil)
				_, err := e.exec.Execute(e.ctx, e.db, replay)
				So(ErrAlreadyExecuted.Is(err), ShouldBeTrue)
			})

			Convey("Then a replay without calls for this contract is rejected as executed", func() {
				foreign := call("first", "one")
				foreign.Contract = otherContract
				_, err := e.exec.Execute(e.ctx, e.db, e.msg(t, batchID(1), foreign))
				So(ErrAlreadyExecuted.Is(err), ShouldBeTrue)
			})

			Convey("Then other calls under the same id are rejected", func() {
				_, err := e.exec.Execute(e.ctx, e.db, e.msg(t, batchID(1), call("first", "other")))
				So(ErrAlreadyExecuted.Is(err), ShouldBeTrue)
			})

			Convey("Then the replay is rejected after the signer set expired", func() {
				next, err := signers.NewWeightedSignerSet(e.set.Signers, 3, e.set.Nonce)
				So(err, ShouldBeNil)
				_, _, err = e.registry.Rotate(e.ctx, e.db, next)
				So(err, ShouldBeNil)

				_, err = e.exec.Execute(e.ctx, e.db, msg)
				So(ErrAlreadyExecuted.Is(err), ShouldBeTrue)
			})

			// Every call was executed only once.
			h.AssertNumberOfCalls(t, "Call", 2)
		})
	})
}

func TestExecuteEvents(t *testing.T) {
	e := newEnv(t, store.MemStore())
	e.router.Handle("store", setHandler)

	msg := e.msg(t, batchID(1), call("store", "one"))
	res, err := e.exec.Execute(e.ctx, e.db, msg)
	assert.Nil(t, err)

	assert.Equal(t, 3, len(res.Events))
	assert.Equal(t, "call", res.Events[0].Type)
	assert.Equal(t, []byte("0"), res.Events[0].Attr("index"))
	assert.Equal(t, "stored", res.Events[1].Type)
	assert.Equal(t, "batch", res.Events[2].Type)
	assert.Equal(t, []byte("2"), res.Events[2].Attr("weight"))
	assert.Equal(t, []byte("2"), res.Events[2].Attr("threshold"))
	assert.Equal(t, uint64(1), res.Proof.Epoch)
	assert.Equal(t, true, res.Proof.IsLatest)

	val, err := e.db.Get([]byte("payload:store"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("one"), val)
}

func TestExecuteCombinesCallData(t *testing.T) {
	e := newEnv(t, store.MemStore())
	e.router.Handle("store", setHandler)
	e.router.Handle("again", CallHandlerFunc(func(ctx bridge.Context, db bridge.KVStore, c *Call) (*bridge.DeliverResult, error) {
		return setHandler.Call(ctx, db, &Call{Path: "store", Payload: c.Payload})
	}))

	msg := e.msg(t, batchID(1), call("store", "one"), call("again", "two"))
	res, err := e.exec.Execute(e.ctx, e.db, msg)
	assert.Nil(t, err)

	var datas [][]byte
	amino.MustUnmarshalBinaryLengthPrefixed(res.Data, &datas)
	assert.Equal(t, 2, len(datas))
	assert.Equal(t, 0, len(datas[0]))
	assert.Equal(t, []byte("one"), datas[1])
}

func TestExecuteInvalidMessage(t *testing.T) {
	e := newEnv(t, store.MemStore())
	e.router.Handle("store", setHandler)

	short := e.msg(t, batchID(1), call("store", "one"))
	short.BatchID = short.BatchID[:BatchIDSize-1]
	if _, err := e.exec.Execute(e.ctx, e.db, short); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}

	noProof := e.msg(t, batchID(1), call("store", "one"))
	noProof.Proof = nil
	if _, err := e.exec.Execute(e.ctx, e.db, noProof); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want empty error, got %+v", err)
	}
	if _, err := e.exec.Record(e.db, batchID(1)); !errors.ErrNotFound.Is(err) {
		t.Fatalf("invalid batch must not be recorded, got %+v", err)
	}
}

func TestExecuteFiltersCalls(t *testing.T) {
	e := newEnv(t, store.MemStore())
	h := &mockHandler{}
	e.router.Handle("run", h)

	mine := call("run", "mine")
	otherChain := call("run", "other chain")
	otherChain.ChainID = "other-chain"
	otherAddr := call("run", "other contract")
	otherAddr.Contract = otherContract

	h.On("Call", mock.Anything, mock.Anything, mine).Return(&bridge.DeliverResult{}, nil).Once()

	res, err := e.exec.Execute(e.ctx, e.db, e.msg(t, batchID(1), otherChain, mine, otherAddr))
	assert.Nil(t, err)
	assert.Equal(t, 1, res.Executed)
	h.AssertExpectations(t)

	// A batch without any call for this contract is empty.
	_, err = e.exec.Execute(e.ctx, e.db, e.msg(t, batchID(2), otherChain, otherAddr))
	if !ErrEmptyBatch.Is(err) {
		t.Fatalf("want empty batch, got %+v", err)
	}
	if _, err := e.exec.Record(e.db, batchID(2)); !errors.ErrNotFound.Is(err) {
		t.Fatalf("empty batch must not be recorded, got %+v", err)
	}
}

func TestExecuteDigestCoversAllCalls(t *testing.T) {
	e := newEnv(t, store.MemStore())
	e.router.Handle("store", setHandler)

	mine := call("store", "mine")
	foreign := call("store", "foreign")
	foreign.ChainID = "other-chain"

	msg := e.msg(t, batchID(1), mine, foreign)
	// Dropping a call that is not executed here still changes the digest.
	msg.Calls = msg.Calls[:1]
	_, err := e.exec.Execute(e.ctx, e.db, msg)
	if !proof.ErrMalformedSignatures.Is(err) {
		t.Fatalf("want malformed signatures, got %+v", err)
	}

	// The proof of a batch cannot be used for another batch id.
	msg = e.msg(t, batchID(1), mine)
	msg.BatchID = batchID(2)
	_, err = e.exec.Execute(e.ctx, e.db, msg)
	if !proof.ErrMalformedSignatures.Is(err) {
		t.Fatalf("want malformed signatures, got %+v", err)
	}

	for _, id := range [][]byte{batchID(1), batchID(2)} {
		if _, err := e.exec.Record(e.db, id); !errors.ErrNotFound.Is(err) {
			t.Fatalf("rejected batch must not be recorded, got %+v", err)
		}
	}
}

func TestExecuteProofErrorsPropagate(t *testing.T) {
	e := newEnv(t, store.MemStore())
	e.router.Handle("store", setHandler)

	msg := e.msg(t, batchID(1), call("store", "x"))
	msg.Proof.Signatures = msg.Proof.Signatures[:1]
	if _, err := e.exec.Execute(e.ctx, e.db, msg); !proof.ErrLowSignaturesWeight.Is(err) {
		t.Fatalf("want low signatures weight, got %+v", err)
	}
}

func TestExecuteRollback(t *testing.T) {
	cases := map[string]struct {
		failing CallHandler
		wantErr *errors.Error
	}{
		"call returns an error": {
			failing: CallHandlerFunc(func(bridge.Context, bridge.KVStore, *Call) (*bridge.DeliverResult, error) {
				return nil, errors.Wrap(errors.ErrState, "not today")
			}),
			wantErr: errors.ErrState,
		},
		"call panics": {
			failing: CallHandlerFunc(func(bridge.Context, bridge.KVStore, *Call) (*bridge.DeliverResult, error) {
				panic("boom")
			}),
			wantErr: errors.ErrPanic,
		},
		"call path not registered": {
			failing: nil,
			wantErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := newEnv(t, store.MemStore())
			e.router.Handle("store", setHandler)

			failing := true
			e.router.Handle("fragile", CallHandlerFunc(func(ctx bridge.Context, db bridge.KVStore, c *Call) (*bridge.DeliverResult, error) {
				if failing && tc.failing != nil {
					return tc.failing.Call(ctx, db, c)
				}
				return &bridge.DeliverResult{}, nil
			}))
			path := "fragile"
			if tc.failing == nil {
				path = "missing"
			}

			msg := e.msg(t, batchID(1), call("store", "one"), call(path, ""))
			_, err := e.exec.Execute(e.ctx, e.db, msg)
			if !ErrExecutionFailed.Is(err) {
				t.Fatalf("want execution failed, got %+v", err)
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q cause, got %+v", tc.wantErr, err)
			}
			assert.Equal(t, uint32(222), errors.Code(err))

			// Effects of the first call are not committed.
			val, err := e.db.Get([]byte("payload:store"))
			assert.Nil(t, err)
			assert.Nil(t, val)
			// The batch can be submitted again.
			if _, err := e.exec.Record(e.db, batchID(1)); !errors.ErrNotFound.Is(err) {
				t.Fatalf("want no record, got %+v", err)
			}

			if tc.failing == nil {
				return
			}
			failing = false
			_, err = e.exec.Execute(e.ctx, e.db, msg)
			assert.Nil(t, err)
			val, err = e.db.Get([]byte("payload:store"))
			assert.Nil(t, err)
			assert.Equal(t, []byte("one"), val)
		})
	}
}

func TestReentrantExecution(t *testing.T) {
	e := newEnv(t, store.MemStore())

	var (
		msg       *ExecuteBatchMsg
		nestedErr error
		nestedRec *BatchRecord
	)
	e.router.Handle("reenter", CallHandlerFunc(func(ctx bridge.Context, db bridge.KVStore, c *Call) (*bridge.DeliverResult, error) {
		// The proof result is available to the call.
		if !proof.IsLatest(ctx) {
			return nil, errors.Wrap(errors.ErrUnauthorized, "latest signer set required")
		}
		var err error
		nestedRec, err = e.exec.Record(db, msg.BatchID)
		if err != nil {
			return nil, err
		}
		_, nestedErr = e.exec.Execute(ctx, db.(bridge.CacheableKVStore), msg)
		return &bridge.DeliverResult{}, nil
	}))

	msg = e.msg(t, batchID(1), call("reenter", ""))
	_, err := e.exec.Execute(e.ctx, e.db, msg)
	assert.Nil(t, err)

	if !ErrAlreadyExecuted.Is(nestedErr) {
		t.Fatalf("want nested execution to fail, got %+v", nestedErr)
	}
	assert.Equal(t, BatchState_Executing, nestedRec.State)

	rec, err := e.exec.Record(e.db, msg.BatchID)
	assert.Nil(t, err)
	assert.Equal(t, BatchState_Executed, rec.State)
}

func TestExecuteRequiresChainID(t *testing.T) {
	e := newEnv(t, store.MemStore())
	e.router.Handle("store", setHandler)
	msg := e.msg(t, batchID(1), call("store", "one"))

	if _, err := e.exec.Execute(context.Background(), e.db, msg); !errors.ErrState.Is(err) {
		t.Fatalf("want state error, got %+v", err)
	}
	// Calls for another chain are never executed.
	other := bridge.WithChainID(context.Background(), "other-chain")
	if _, err := e.exec.Execute(other, e.db, msg); !ErrEmptyBatch.Is(err) {
		t.Fatalf("want empty batch, got %+v", err)
	}
}

func TestReconcileAfterCrash(t *testing.T) {
	dir, err := ioutil.TempDir("", "bridge-batch")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	db, err := leveldb.Open(dir)
	require.NoError(t, err)
	e := newEnv(t, db)
	e.router.Handle("store", setHandler)

	done := e.msg(t, batchID(1), call("store", "done"))
	_, err = e.exec.Execute(e.ctx, db, done)
	require.NoError(t, err)

	// Simulate a crash after the executing mark was written, but before
	// the calls were committed.
	interrupted := e.msg(t, batchID(2), call("store", "interrupted"))
	data, err := DataDigest(interrupted.BatchID, interrupted.Calls)
	require.NoError(t, err)
	require.NoError(t, NewBatchBucket().Put(db, interrupted.BatchID, &BatchRecord{
		State:      BatchState_Executing,
		DataDigest: data,
		Epoch:      1,
	}))
	require.NoError(t, db.Close())

	db, err = leveldb.Open(dir)
	require.NoError(t, err)
	defer db.Close()

	_, err = e.exec.Execute(e.ctx, db, interrupted)
	require.True(t, ErrAlreadyExecuted.Is(err), "interrupted batch must be blocked until reconciled: %+v", err)

	ids, err := e.exec.Reconcile(e.ctx, db)
	require.NoError(t, err)
	require.Equal(t, [][]byte{batchID(2)}, ids)

	// The executed batch is kept.
	rec, err := e.exec.Record(db, batchID(1))
	require.NoError(t, err)
	require.Equal(t, BatchState_Executed, rec.State)

	_, err = e.exec.Execute(e.ctx, db, interrupted)
	require.NoError(t, err)
	val, err := db.Get([]byte("payload:store"))
	require.NoError(t, err)
	require.Equal(t, []byte("interrupted"), val)

	ids, err = e.exec.Reconcile(e.ctx, db)
	require.NoError(t, err)
	require.Empty(t, ids)
}
