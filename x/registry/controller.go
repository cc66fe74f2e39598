package registry

import (
	"encoding/hex"
	"strconv"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/orm"
	"github.com/iov-one/bridge/x/signers"
)

// Controller manages the registry state. It holds no state itself, all
// data is read from and written to the given store.
type Controller struct {
	epochs  orm.ModelBucket
	digests orm.ModelBucket
	seq     orm.Sequence
}

// NewController returns a controller operating on the default buckets.
func NewController() *Controller {
	return &Controller{
		epochs:  NewEpochBucket(),
		digests: NewDigestBucket(),
		seq:     newEpochSequence(),
	}
}

// Rotate registers given signer set as the current one under the next
// epoch. It returns the new epoch and the digest of the set.
//
// A set that was already registered is rejected unless the configuration
// allows re-registration. In that case the digest is mapped to the new epoch
// and the old epoch record is kept.
func (c *Controller) Rotate(ctx bridge.Context, db bridge.KVStore, set *signers.WeightedSignerSet) (uint64, []byte, error) {
	conf, err := loadConf(db)
	if err != nil {
		return 0, nil, err
	}
	if err := set.Validate(); err != nil {
		return 0, nil, errors.Wrap(err, "signer set")
	}
	if n, max := len(set.Signers), conf.SignersLimit(); n > max {
		return 0, nil, errors.Wrapf(signers.ErrInvalidSigners, "%d signers, at most %d allowed", n, max)
	}
	digest, err := set.Digest()
	if err != nil {
		return 0, nil, errors.Wrap(err, "digest")
	}

	switch prev, err := c.EpochOf(db, digest); {
	case err == nil:
		if !conf.AllowReregistration {
			return 0, nil, errors.Wrapf(signers.ErrInvalidSigners, "already registered at epoch %d", prev)
		}
		bridge.GetLogger(ctx).Info("signer set registered again",
			"digest", hex.EncodeToString(digest),
			"previous_epoch", prev)
	case !errors.ErrNotFound.Is(err):
		return 0, nil, err
	}

	epoch, err := c.seq.NextInt(db)
	if err != nil {
		return 0, nil, errors.Wrap(err, "next epoch")
	}
	rec := &EpochRecord{
		Epoch:     epoch,
		Digest:    digest,
		SignerSet: set.Copy(),
	}
	if err := c.epochs.Put(db, orm.EncodeSequence(epoch), rec); err != nil {
		return 0, nil, errors.Wrap(err, "store epoch")
	}
	if err := c.digests.Put(db, digest, &DigestRecord{Epoch: epoch}); err != nil {
		return 0, nil, errors.Wrap(err, "store digest")
	}

	bridge.GetLogger(ctx).Info("signer set rotated",
		"epoch", epoch,
		"digest", hex.EncodeToString(digest),
		"signers", len(set.Signers),
		"threshold", set.Threshold)
	return epoch, digest, nil
}

// EpochOf returns the epoch given digest was most recently registered at.
// It returns errors.ErrNotFound if the digest is not known.
func (c *Controller) EpochOf(db bridge.ReadOnlyKVStore, digest []byte) (uint64, error) {
	if len(digest) == 0 {
		return 0, errors.Wrap(errors.ErrNotFound, "empty digest")
	}
	var rec DigestRecord
	if err := c.digests.One(db, digest, &rec); err != nil {
		return 0, errors.Wrapf(err, "digest %X", digest)
	}
	return rec.Epoch, nil
}

// IsAcceptable returns true if a signer set registered at given epoch can
// still be used. That is when the epoch is registered and no more than
// retention window rotations happened since.
func (c *Controller) IsAcceptable(db bridge.ReadOnlyKVStore, epoch uint64) (bool, error) {
	if epoch == 0 {
		return false, nil
	}
	current, err := c.CurrentEpoch(db)
	if err != nil {
		return false, err
	}
	if epoch > current {
		return false, nil
	}
	switch err := c.epochs.Has(db, orm.EncodeSequence(epoch)); {
	case errors.ErrNotFound.Is(err):
		return false, nil
	case err != nil:
		return false, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return false, err
	}
	return current-epoch <= uint64(conf.RetentionWindow), nil
}

// CurrentEpoch returns the epoch of the latest rotation, zero if no
// rotation happened yet.
func (c *Controller) CurrentEpoch(db bridge.ReadOnlyKVStore) (uint64, error) {
	return c.seq.Latest(db)
}

// SignerSet returns the signer set registered at given epoch.
func (c *Controller) SignerSet(db bridge.ReadOnlyKVStore, epoch uint64) (*signers.WeightedSignerSet, error) {
	rec, err := c.Epoch(db, epoch)
	if err != nil {
		return nil, err
	}
	return rec.SignerSet, nil
}

// Epoch returns the record of given epoch.
func (c *Controller) Epoch(db bridge.ReadOnlyKVStore, epoch uint64) (*EpochRecord, error) {
	var rec EpochRecord
	if err := c.epochs.One(db, orm.EncodeSequence(epoch), &rec); err != nil {
		return nil, errors.Wrapf(err, "epoch %d", epoch)
	}
	return &rec, nil
}

// History returns all registered epochs in ascending order, including those
// that are no longer acceptable.
func (c *Controller) History(db bridge.ReadOnlyKVStore) ([]*EpochRecord, error) {
	it, err := c.epochs.IterAll(db)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var history []*EpochRecord
	for {
		var rec EpochRecord
		switch _, err := it.LoadNext(&rec); {
		case err == nil:
			history = append(history, &rec)
		case errors.ErrIteratorDone.Is(err):
			return history, nil
		default:
			return nil, err
		}
	}
}

// Config returns the registry configuration.
func (c *Controller) Config(db bridge.ReadOnlyKVStore) (*Configuration, error) {
	return loadConf(db)
}

// RotationEvent returns the event emitted when a signer set is rotated.
func RotationEvent(epoch uint64, digest []byte) bridge.Event {
	return bridge.NewEvent("rotation",
		"epoch", strconv.FormatUint(epoch, 10),
		"digest", hex.EncodeToString(digest))
}
