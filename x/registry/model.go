package registry

import (
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/orm"
	"github.com/iov-one/bridge/x/signers"
)

const (
	epochsBucketName  = "epochs"
	digestsBucketName = "digests"
	epochSequenceName = "epoch"
)

func (r *EpochRecord) Validate() error {
	var errs error
	if r.Epoch == 0 {
		errs = errors.AppendField(errs, "Epoch", errors.ErrEmpty)
	}
	if len(r.Digest) != signers.DigestSize {
		errs = errors.AppendField(errs, "Digest", errors.ErrInput)
	}
	if err := r.SignerSet.Validate(); err != nil {
		errs = errors.AppendField(errs, "SignerSet", err)
	}
	return errs
}

func (r *DigestRecord) Validate() error {
	if r.Epoch == 0 {
		return errors.Field("Epoch", errors.ErrEmpty, "epoch is required")
	}
	return nil
}

// NewEpochBucket returns a bucket storing EpochRecords under the
// orm.EncodeSequence encoded epoch, so that iteration is in epoch order.
func NewEpochBucket() orm.ModelBucket {
	return orm.NewModelBucket(epochsBucketName, &EpochRecord{})
}

// NewDigestBucket returns a bucket storing DigestRecords under the signer set
// digest.
func NewDigestBucket() orm.ModelBucket {
	return orm.NewModelBucket(digestsBucketName, &DigestRecord{})
}

func newEpochSequence() orm.Sequence {
	return orm.NewSequence(epochsBucketName, epochSequenceName)
}
