package batch

import (
	"regexp"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
)

var _ bridge.Msg = (*ExecuteBatchMsg)(nil)

var isPath = regexp.MustCompile(`^[a-zA-Z0-9_]+(/[a-zA-Z0-9_]+)*$`).MatchString

// Path returns the routing path for this message.
func (ExecuteBatchMsg) Path() string {
	return "batch/execute"
}

// Validate makes sure that this is sane.
func (m *ExecuteBatchMsg) Validate() error {
	errs := validateBatchID(m.BatchID)
	if len(m.Calls) == 0 {
		errs = errors.AppendField(errs, "Calls", errors.ErrEmpty)
	}
	for i, c := range m.Calls {
		if c == nil {
			errs = errors.Append(errs, errors.Field("Calls", errors.ErrEmpty, "nil call %d", i))
			continue
		}
		if err := c.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Calls", err, "call %d", i))
		}
	}
	if m.Proof == nil {
		errs = errors.AppendField(errs, "Proof", errors.ErrEmpty)
	}
	return errs
}

func validateBatchID(id []byte) error {
	if len(id) != BatchIDSize {
		return errors.Field("BatchID", errors.ErrInput, "must be %d bytes", BatchIDSize)
	}
	return nil
}

func (c *Call) Validate() error {
	var errs error
	if !bridge.IsValidChainID(c.ChainID) {
		errs = errors.AppendField(errs, "ChainID", errors.Wrapf(errors.ErrInput, "invalid chain id %q", c.ChainID))
	}
	errs = errors.AppendField(errs, "Contract", c.Contract.Validate())
	if !isPath(c.Path) {
		errs = errors.AppendField(errs, "Path", errors.Wrapf(errors.ErrInput, "invalid path %q", c.Path))
	}
	return errs
}
