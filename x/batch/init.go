package batch

import (
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/gconf"
)

// Initializer fulfils the bridge.Initializer interface to load data from
// the genesis file.
type Initializer struct{}

var _ bridge.Initializer = (*Initializer)(nil)

// FromGenesis stores the batch configuration.
func (*Initializer) FromGenesis(ctx bridge.Context, opts bridge.Options, db bridge.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, confKey, &conf)
}

// Config returns the batch configuration.
func Config(db bridge.ReadOnlyKVStore) (*Configuration, error) {
	return loadConf(db)
}
