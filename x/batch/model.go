package batch

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bridge/crypto"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/orm"
	"github.com/iov-one/bridge/x/proof"
)

// BatchIDSize is the length of a batch id.
const BatchIDSize = 32

const batchesBucketName = "batches"

func (r *BatchRecord) Validate() error {
	var errs error
	switch r.State {
	case BatchState_Executing, BatchState_Executed:
	default:
		errs = errors.AppendField(errs, "State", errors.Wrapf(errors.ErrState, "invalid state %s", r.State))
	}
	if len(r.DataDigest) != proof.DataDigestSize {
		errs = errors.AppendField(errs, "DataDigest", errors.ErrInput)
	}
	if r.Epoch == 0 {
		errs = errors.AppendField(errs, "Epoch", errors.ErrEmpty)
	}
	return errs
}

// NewBatchBucket returns a bucket storing BatchRecords under the batch id.
func NewBatchBucket() orm.ModelBucket {
	return orm.NewModelBucket(batchesBucketName, &BatchRecord{})
}

// DataDigest returns the digest that a proof must authorize for a batch
// with given id and calls. All submitted calls are part of the digest, also
// those that are not executed by this contract.
func DataDigest(batchID []byte, calls []*Call) ([]byte, error) {
	raw, err := proto.Marshal(&CallList{Calls: calls})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot encode calls: %s", err)
	}
	return crypto.Keccak256(batchID, raw), nil
}
