package crypto

import (
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
	"golang.org/x/crypto/ed25519"
)

// Ed25519 is an ed25519 private key. Its address is the address of the
// "sigs/ed25519/<public key>" condition.
type Ed25519 struct {
	key ed25519.PrivateKey
}

var _ PrivateKey = (*Ed25519)(nil)

// GenEd25519 returns a random new private key.
func GenEd25519() (*Ed25519, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot generate ed25519 key: %s", err)
	}
	return &Ed25519{key: priv}, nil
}

// Ed25519FromSeed will deterministically generate a private key from
// a given 32 byte seed. Use if you have a strong source of external
// randomness, or for deterministic keys in test cases.
func Ed25519FromSeed(seed []byte) (*Ed25519, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "ed25519 seed must be %d bytes", ed25519.SeedSize)
	}
	return &Ed25519{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Bytes returns the scheme byte followed by the 32 byte seed.
func (p *Ed25519) Bytes() []byte {
	return append([]byte{SchemeEd25519}, p.key.Seed()...)
}

// PublicKey returns the raw public key.
func (p *Ed25519) PublicKey() ed25519.PublicKey {
	return p.key.Public().(ed25519.PublicKey)
}

// Sign returns the public key followed by the signature of the message.
func (p *Ed25519) Sign(message []byte) ([]byte, error) {
	if len(message) != MessageSize {
		return nil, errors.Wrapf(errors.ErrInput, "message must be %d bytes", MessageSize)
	}
	sig := make([]byte, 0, 1+ed25519.PublicKeySize+ed25519.SignatureSize)
	sig = append(sig, SchemeEd25519)
	sig = append(sig, p.PublicKey()...)
	sig = append(sig, ed25519.Sign(p.key, message)...)
	return sig, nil
}

func (p *Ed25519) Address() bridge.Address {
	return Ed25519Condition(p.PublicKey()).Address()
}

// Ed25519Condition returns the condition fulfilled by a signature of given
// public key.
func Ed25519Condition(pub ed25519.PublicKey) bridge.Condition {
	return bridge.NewCondition(ExtensionName, "ed25519", pub)
}

func recoverEd25519(message, payload []byte) (bridge.Address, error) {
	if len(payload) != ed25519.PublicKeySize+ed25519.SignatureSize {
		return nil, errors.Wrapf(errors.ErrInput, "ed25519 signature must be %d bytes", ed25519.PublicKeySize+ed25519.SignatureSize)
	}
	pub := ed25519.PublicKey(payload[:ed25519.PublicKeySize])
	if !ed25519.Verify(pub, message, payload[ed25519.PublicKeySize:]) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid ed25519 signature")
	}
	return Ed25519Condition(pub).Address(), nil
}
