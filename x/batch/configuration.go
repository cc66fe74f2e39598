package batch

import (
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/gconf"
)

const confKey = "batch"

func (c *Configuration) Validate() error {
	if err := c.Contract.Validate(); err != nil {
		return errors.Field("Contract", err, "invalid contract address")
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confKey, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
