package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/bridge"
)

func TestVersion(t *testing.T) {
	defer func(c string) { bridge.GitCommit = c }(bridge.GitCommit)

	bridge.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", bridge.Version())

	bridge.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", bridge.Version())
}
