package proof

import (
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/gconf"
)

// DomainSeparatorSize is the length of the domain separator.
const DomainSeparatorSize = 32

const confKey = "proof"

func (c *Configuration) Validate() error {
	if len(c.DomainSeparator) != DomainSeparatorSize {
		return errors.Field("DomainSeparator", errors.ErrInput,
			"must be %d bytes, got %d", DomainSeparatorSize, len(c.DomainSeparator))
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
