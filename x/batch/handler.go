package batch

import (
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/store"
)

// RegisterRoutes registers the handlers of this package.
func RegisterRoutes(r bridge.Registry, e *Executor) {
	r.Handle(ExecuteBatchMsg{}.Path(), NewExecuteHandler(e))
}

// ExecuteHandler executes batches.
type ExecuteHandler struct {
	exec *Executor
}

var _ bridge.Handler = (*ExecuteHandler)(nil)

// NewExecuteHandler returns a handler for ExecuteBatchMsg.
func NewExecuteHandler(e *Executor) *ExecuteHandler {
	return &ExecuteHandler{exec: e}
}

// Check makes sure that the batch was not executed yet and validates the
// message. The proof is not verified.
func (h *ExecuteHandler) Check(ctx bridge.Context, db bridge.KVStore, msg bridge.Msg) (*bridge.CheckResult, error) {
	m, err := h.cast(msg)
	if err != nil {
		return nil, err
	}
	if err := validateBatchID(m.BatchID); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	switch _, err := h.exec.Record(db, m.BatchID); {
	case err == nil:
		return nil, errors.Wrapf(ErrAlreadyExecuted, "batch %X", m.BatchID)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	return &bridge.CheckResult{}, nil
}

// Deliver executes the batch. Data of the result is the amino encoded list
// of data returned by the executed calls.
func (h *ExecuteHandler) Deliver(ctx bridge.Context, db bridge.KVStore, msg bridge.Msg) (*bridge.DeliverResult, error) {
	m, err := h.cast(msg)
	if err != nil {
		return nil, err
	}
	cdb, ok := db.(bridge.CacheableKVStore)
	if !ok {
		cdb = store.BTreeCacheable{KVStore: db}
	}
	res, err := h.exec.Execute(ctx, cdb, m)
	if err != nil {
		return nil, err
	}
	return &bridge.DeliverResult{
		Data:   res.Data,
		Events: res.Events,
	}, nil
}

func (h *ExecuteHandler) cast(msg bridge.Msg) (*ExecuteBatchMsg, error) {
	m, ok := msg.(*ExecuteBatchMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrType, msg)
	}
	return m, nil
}
