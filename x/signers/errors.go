package signers

import "github.com/iov-one/bridge/errors"

var (
	// ErrInvalidSigners is returned for a signer set that is malformed,
	// unknown or no longer accepted.
	ErrInvalidSigners = errors.Register(200, "invalid signers")

	// ErrInvalidThreshold is a kind of ErrInvalidSigners returned when the
	// threshold cannot be reached or is zero.
	ErrInvalidThreshold = errors.RegisterSub(ErrInvalidSigners, 201, "invalid threshold")

	// ErrInvalidWeights is a kind of ErrInvalidSigners returned for a zero
	// weight or when the total weight does not fit in uint64.
	ErrInvalidWeights = errors.RegisterSub(ErrInvalidSigners, 202, "invalid weights")
)
