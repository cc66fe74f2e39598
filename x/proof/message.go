package proof

import (
	"github.com/iov-one/bridge/crypto"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/x/signers"
)

// SignCodeV1 is the prefix of every signed message. Changing the message
// layout requires a new prefix.
var SignCodeV1 = []byte{0x00, 0xCA, 0xFE, 0x00}

// DataDigestSize is the length of the digest of the approved data.
const DataDigestSize = 32

// BuildMessage returns the message that signer set members sign to approve
// given data digest.
func BuildMessage(domainSeparator, setDigest, dataDigest []byte) ([]byte, error) {
	if len(domainSeparator) != DomainSeparatorSize {
		return nil, errors.Wrapf(errors.ErrInput, "domain separator must be %d bytes", DomainSeparatorSize)
	}
	if len(setDigest) != signers.DigestSize {
		return nil, errors.Wrap(errors.ErrInput, "signer set digest must be 32 bytes")
	}
	if len(dataDigest) != DataDigestSize {
		return nil, errors.Wrapf(errors.ErrInput, "data digest must be %d bytes", DataDigestSize)
	}
	return crypto.Keccak256(SignCodeV1, domainSeparator, setDigest, dataDigest), nil
}
