package crypto

import (
	"github.com/btcsuite/btcd/btcec"
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
)

const secp256k1SigSize = 65

// Secp256k1 is a secp256k1 private key. Its address is the last 20 bytes
// of the Keccak-256 hash of the uncompressed public key.
type Secp256k1 struct {
	key *btcec.PrivateKey
}

var _ PrivateKey = (*Secp256k1)(nil)

// GenSecp256k1 returns a random new private key.
func GenSecp256k1() (*Secp256k1, error) {
	key, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot generate secp256k1 key: %s", err)
	}
	return &Secp256k1{key: key}, nil
}

// Secp256k1FromBytes loads a private key from its 32 byte scalar.
func Secp256k1FromBytes(raw []byte) (*Secp256k1, error) {
	if len(raw) != btcec.PrivKeyBytesLen {
		return nil, errors.Wrapf(errors.ErrInput, "secp256k1 key must be %d bytes", btcec.PrivKeyBytesLen)
	}
	key, _ := btcec.PrivKeyFromBytes(btcec.S256(), raw)
	return &Secp256k1{key: key}, nil
}

// Bytes returns the scheme byte followed by the 32 byte scalar.
func (p *Secp256k1) Bytes() []byte {
	return append([]byte{SchemeSecp256k1}, p.key.Serialize()...)
}

// Sign returns a recoverable signature of given message.
func (p *Secp256k1) Sign(message []byte) ([]byte, error) {
	if len(message) != MessageSize {
		return nil, errors.Wrapf(errors.ErrInput, "message must be %d bytes", MessageSize)
	}
	sig, err := btcec.SignCompact(btcec.S256(), p.key, message, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot sign: %s", err)
	}
	return append([]byte{SchemeSecp256k1}, sig...), nil
}

func (p *Secp256k1) Address() bridge.Address {
	return secp256k1Address(p.key.PubKey())
}

func secp256k1Address(pub *btcec.PublicKey) bridge.Address {
	raw := pub.SerializeUncompressed()
	return Keccak256(raw[1:])[32-bridge.AddressLength:]
}

func recoverSecp256k1(message, sig []byte) (bridge.Address, error) {
	if len(sig) != secp256k1SigSize {
		return nil, errors.Wrapf(errors.ErrInput, "secp256k1 signature must be %d bytes", secp256k1SigSize)
	}
	pub, _, err := btcec.RecoverCompact(btcec.S256(), sig, message)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot recover secp256k1 key: %s", err)
	}
	return secp256k1Address(pub), nil
}
