package batch

import (
	"encoding/hex"
	"strconv"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/orm"
	"github.com/iov-one/bridge/x/proof"
	amino "github.com/tendermint/go-amino"
)

// Result describes an executed batch.
type Result struct {
	BatchID    []byte
	DataDigest []byte
	// Proof is the result of the proof that authorized this batch.
	Proof *proof.Result
	// Executed is the number of calls that were executed.
	Executed int
	// Data holds the data returned by every executed call, in order,
	// amino encoded as a length prefixed list.
	Data []byte
	// Events contains a "call" event for every executed call, followed by
	// the events of the call handler, and a "batch" event at the end.
	Events []bridge.Event
}

// Executor runs batches of calls exactly once.
type Executor struct {
	verifier *proof.Verifier
	router   *Router
	bucket   orm.ModelBucket
}

// NewExecutor returns an executor that authorizes batches using given
// verifier and dispatches calls using given router.
func NewExecutor(v *proof.Verifier, r *Router) *Executor {
	return &Executor{
		verifier: v,
		router:   r,
		bucket:   NewBatchBucket(),
	}
}

// Execute runs all calls of the batch that are addressed to this chain and
// contract.
//
// A batch that was already executed is rejected with ErrAlreadyExecuted
// before the rest of the message is validated, so any replay reports the
// same error.
//
// The batch is marked as executing in db before any call runs. Calls are
// executed using a cache of db. If all calls succeed the batch is marked as
// executed in the same cache and the cache is written. If any call fails the
// cache is discarded, the executing mark is removed and ErrExecutionFailed is
// returned.
func (e *Executor) Execute(ctx bridge.Context, db bridge.CacheableKVStore, msg *ExecuteBatchMsg) (*Result, error) {
	if err := validateBatchID(msg.BatchID); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	switch err := e.bucket.Has(db, msg.BatchID); {
	case err == nil:
		return nil, errors.Wrapf(ErrAlreadyExecuted, "batch %X", msg.BatchID)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	if !bridge.HasChainID(ctx) {
		return nil, errors.Wrap(errors.ErrState, "no chain id in context")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}

	calls := filterCalls(msg.Calls, bridge.GetChainID(ctx), conf.Contract)
	if len(calls) == 0 {
		return nil, errors.Wrapf(ErrEmptyBatch, "no call for %s on %q", conf.Contract, bridge.GetChainID(ctx))
	}

	dataDigest, err := DataDigest(msg.BatchID, msg.Calls)
	if err != nil {
		return nil, err
	}
	res, err := e.verifier.ValidateProof(ctx, db, dataDigest, msg.Proof)
	if err != nil {
		return nil, err
	}

	rec := &BatchRecord{
		State:      BatchState_Executing,
		DataDigest: dataDigest,
		Epoch:      res.Epoch,
	}
	if err := e.bucket.Put(db, msg.BatchID, rec); err != nil {
		return nil, errors.Wrap(err, "mark executing")
	}

	ctx = bridge.WithLogInfo(ctx, "batch_id", hex.EncodeToString(msg.BatchID))
	log := bridge.GetLogger(ctx)
	cache := db.CacheWrap()
	out, err := e.run(proof.WithResult(ctx, res), cache, msg.BatchID, calls)
	if err == nil {
		rec.State = BatchState_Executed
		if err = e.bucket.Put(cache, msg.BatchID, rec); err == nil {
			err = cache.Write()
		}
	}
	if err != nil {
		cache.Discard()
		if derr := e.bucket.Delete(db, msg.BatchID); derr != nil {
			log.Error("cannot remove executing mark", "err", derr)
			err = errors.Append(err, derr)
		}
		log.Info("batch execution failed", "err", err)
		return nil, errors.Append(errors.Wrapf(ErrExecutionFailed, "batch %X", msg.BatchID), err)
	}

	events := append(out.events, bridge.NewEvent("batch",
		"batch_id", hex.EncodeToString(msg.BatchID),
		"data_digest", hex.EncodeToString(dataDigest),
		"weight", strconv.FormatUint(res.Weight, 10),
		"threshold", strconv.FormatUint(res.Threshold, 10)))
	log.Info("batch executed", "calls", len(calls), "epoch", res.Epoch)

	return &Result{
		BatchID:    msg.BatchID,
		DataDigest: dataDigest,
		Proof:      res,
		Executed:   len(calls),
		Data:       amino.MustMarshalBinaryLengthPrefixed(out.datas),
		Events:     events,
	}, nil
}

type runResult struct {
	datas  [][]byte
	events []bridge.Event
}

func (e *Executor) run(ctx bridge.Context, db bridge.KVStore, batchID []byte, calls []*Call) (*runResult, error) {
	out := &runResult{datas: make([][]byte, len(calls))}
	for i, c := range calls {
		res, err := e.call(ctx, db, c)
		if err != nil {
			return nil, errors.Wrapf(err, "call %d (%s)", i, c.Path)
		}
		out.events = append(out.events, bridge.NewEvent("call",
			"batch_id", hex.EncodeToString(batchID),
			"index", strconv.Itoa(i),
			"path", c.Path))
		if res != nil {
			out.datas[i] = res.Data
			out.events = append(out.events, res.Events...)
		}
	}
	return out, nil
}

func (e *Executor) call(ctx bridge.Context, db bridge.KVStore, c *Call) (res *bridge.DeliverResult, err error) {
	defer errors.Recover(&err)
	return e.router.Handler(c.Path).Call(ctx, db, c)
}

// Reconcile removes executing marks that were left behind by an interrupted
// execution and returns the ids of those batches. Calls of such batches were
// never committed, so they can be submitted again.
func (e *Executor) Reconcile(ctx bridge.Context, db bridge.KVStore) ([][]byte, error) {
	it, err := e.bucket.IterAll(db)
	if err != nil {
		return nil, err
	}
	var stale [][]byte
	for {
		var rec BatchRecord
		key, err := it.LoadNext(&rec)
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		if err != nil {
			it.Release()
			return nil, err
		}
		if rec.State == BatchState_Executing {
			stale = append(stale, key)
		}
	}
	it.Release()

	for _, id := range stale {
		if err := e.bucket.Delete(db, id); err != nil {
			return nil, errors.Wrapf(err, "batch %X", id)
		}
		bridge.GetLogger(ctx).Info("removed interrupted batch", "batch_id", hex.EncodeToString(id))
	}
	return stale, nil
}

// Record returns the record of given batch, or errors.ErrNotFound.
func (e *Executor) Record(db bridge.ReadOnlyKVStore, batchID []byte) (*BatchRecord, error) {
	var rec BatchRecord
	if err := e.bucket.One(db, batchID, &rec); err != nil {
		return nil, errors.Wrapf(err, "batch %X", batchID)
	}
	return &rec, nil
}

func filterCalls(calls []*Call, chainID string, contract bridge.Address) []*Call {
	var res []*Call
	for _, c := range calls {
		if c == nil {
			continue
		}
		if c.ChainID == chainID && c.Contract.Equals(contract) {
			res = append(res, c)
		}
	}
	return res
}
