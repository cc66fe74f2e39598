package registry

import (
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/crypto"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/x/signers"
)

var rotationPrefix = []byte("registry/rotate:")

var _ bridge.Msg = (*RotateSignersMsg)(nil)

// Path returns the routing path for this message.
func (RotateSignersMsg) Path() string {
	return "registry/rotate"
}

// Validate makes sure that this is sane.
func (m *RotateSignersMsg) Validate() error {
	if m.SignerSet == nil {
		return errors.Field("SignerSet", errors.ErrEmpty, "signer set is required")
	}
	return errors.Field("SignerSet", m.SignerSet.Validate(), "invalid signer set")
}

// RotationDigest returns the data digest that the current signer set signs
// to authorize the rotation to given signer set.
func RotationDigest(set *signers.WeightedSignerSet) ([]byte, error) {
	msg := RotateSignersMsg{SignerSet: set}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	digest, err := set.Digest()
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(rotationPrefix, digest), nil
}
