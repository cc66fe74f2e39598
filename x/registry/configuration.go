package registry

import (
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/gconf"
)

const (
	// DefaultMaxSigners is used when the configuration does not limit the
	// size of a signer set.
	DefaultMaxSigners = 64

	confKey = "registry"
)

func (c *Configuration) Validate() error {
	// authority is optional, without it no rotation is possible
	if len(c.RotationAuthority) != 0 {
		if err := c.RotationAuthority.Validate(); err != nil {
			return errors.Field("RotationAuthority", err, "invalid rotation authority")
		}
	}
	return nil
}

// SignersLimit returns the maximum number of signers a set can have.
func (c *Configuration) SignersLimit() int {
	if c.MaxSigners == 0 {
		return DefaultMaxSigners
	}
	return int(c.MaxSigners)
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confKey, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
