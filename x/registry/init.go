package registry

import (
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/gconf"
	"github.com/iov-one/bridge/x/signers"
)

// Initializer fulfils the bridge.Initializer interface to load data from
// the genesis file.
type Initializer struct {
	Ctrl *Controller
}

var _ bridge.Initializer = (*Initializer)(nil)

// FromGenesis stores the registry configuration and, if present, rotates
// in the genesis signer set as the first epoch.
func (i *Initializer) FromGenesis(ctx bridge.Context, opts bridge.Options, db bridge.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, confKey, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var genesis struct {
		SignerSet *signers.WeightedSignerSet `json:"signer_set"`
	}
	if err := opts.ReadOptions("registry", &genesis); err != nil {
		return errors.Wrapf(errors.ErrInput, "read registry: %s", err)
	}
	if genesis.SignerSet == nil {
		return nil
	}

	ctrl := i.Ctrl
	if ctrl == nil {
		ctrl = NewController()
	}
	if current, err := ctrl.CurrentEpoch(db); err != nil {
		return err
	} else if current != 0 {
		return errors.Wrapf(errors.ErrState, "registry already at epoch %d", current)
	}
	if _, _, err := ctrl.Rotate(ctx, db, genesis.SignerSet); err != nil {
		return errors.Wrap(err, "genesis signer set")
	}
	return nil
}
