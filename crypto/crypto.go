package crypto

import (
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
	"golang.org/x/crypto/sha3"
)

// ExtensionName is used for the conditions we get from signatures.
const ExtensionName = "sigs"

// Signature scheme identifiers, the first byte of every signature.
const (
	SchemeSecp256k1 byte = 0x01
	SchemeEd25519   byte = 0x02
)

// MessageSize is the size of every message that can be signed.
const MessageSize = 32

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	// Sign returns a self-describing signature of given 32 byte message.
	Sign(message []byte) ([]byte, error)
	// Address returns the address that Recover returns for signatures
	// created by this signer.
	Address() bridge.Address
}

// PrivateKey is a Signer that can be serialized.
type PrivateKey interface {
	Signer
	// Bytes returns the serialized key, prefixed with the scheme byte.
	Bytes() []byte
}

// Recover returns the address of the key that signed given message. It
// fails if the signature is malformed or does not match the message.
func Recover(message, sig []byte) (bridge.Address, error) {
	if len(message) != MessageSize {
		return nil, errors.Wrapf(errors.ErrInput, "message must be %d bytes", MessageSize)
	}
	if len(sig) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "signature")
	}
	switch sig[0] {
	case SchemeSecp256k1:
		return recoverSecp256k1(message, sig[1:])
	case SchemeEd25519:
		return recoverEd25519(message, sig[1:])
	default:
		return nil, errors.Wrapf(errors.ErrType, "unknown signature scheme %#x", sig[0])
	}
}

// ParsePrivateKey deserializes a key created by PrivateKey.Bytes.
func ParsePrivateKey(raw []byte) (PrivateKey, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "private key")
	}
	switch raw[0] {
	case SchemeSecp256k1:
		return Secp256k1FromBytes(raw[1:])
	case SchemeEd25519:
		return Ed25519FromSeed(raw[1:])
	default:
		return nil, errors.Wrapf(errors.ErrType, "unknown key scheme %#x", raw[0])
	}
}

// Keccak256 returns the legacy Keccak-256 hash of all given data
// concatenated.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}
