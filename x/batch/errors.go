package batch

import "github.com/iov-one/bridge/errors"

var (
	// ErrEmptyBatch is returned when no call of a batch is addressed to
	// this chain and contract.
	ErrEmptyBatch = errors.Register(220, "empty batch")

	// ErrAlreadyExecuted is returned for a batch that was executed or is
	// being executed.
	ErrAlreadyExecuted = errors.Register(221, "already executed")

	// ErrExecutionFailed is returned when a call of a batch fails. Nothing
	// of the batch is committed.
	ErrExecutionFailed = errors.Register(222, "execution failed")
)
