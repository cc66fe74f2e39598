package proof

import "github.com/iov-one/bridge/errors"

var (
	// ErrMalformedSignatures is returned when a proof signature is not
	// sorted, does not belong to a member of the signer set or does not
	// match the message.
	ErrMalformedSignatures = errors.Register(210, "malformed signatures")

	// ErrLowSignaturesWeight is returned when the weight of valid
	// signatures does not reach the signer set threshold.
	ErrLowSignaturesWeight = errors.Register(211, "low signatures weight")
)
