package proof

import (
	"sort"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/crypto"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/x/signers"
)

// Builder collects signatures of signer set members and creates a proof.
// Signatures can be added in any order.
type Builder struct {
	set     *signers.WeightedSignerSet
	message []byte
	sigs    map[string]*Signature
}

// NewBuilder returns a builder of a proof that authorizes given data digest
// with given signer set.
func NewBuilder(domainSeparator []byte, set *signers.WeightedSignerSet, dataDigest []byte) (*Builder, error) {
	if err := set.Validate(); err != nil {
		return nil, errors.Wrap(err, "signer set")
	}
	digest, err := set.Digest()
	if err != nil {
		return nil, err
	}
	message, err := BuildMessage(domainSeparator, digest, dataDigest)
	if err != nil {
		return nil, err
	}
	return &Builder{
		set:     set.Copy(),
		message: message,
		sigs:    make(map[string]*Signature),
	}, nil
}

// Message returns the message that signers must sign.
func (b *Builder) Message() []byte {
	return b.message
}

// Sign adds a signature created by given signer.
func (b *Builder) Sign(s crypto.Signer) error {
	sig, err := s.Sign(b.message)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	return b.AddSignature(s.Address(), sig)
}

// AddSignature adds a signature created by a member of the signer set. The
// signature is verified before being added. Adding a signature of the same
// signer again replaces the previous one.
func (b *Builder) AddSignature(signer bridge.Address, sig []byte) error {
	if !b.set.Contains(signer) {
		return errors.Wrapf(ErrMalformedSignatures, "%s is not a member of the signer set", signer)
	}
	addr, err := crypto.Recover(b.message, sig)
	if err != nil {
		return errors.Wrap(ErrMalformedSignatures, err.Error())
	}
	if !addr.Equals(signer) {
		return errors.Wrapf(ErrMalformedSignatures, "signature was not created by %s", signer)
	}
	b.sigs[string(signer)] = &Signature{
		Signer:    signer.Clone(),
		Signature: append([]byte(nil), sig...),
	}
	return nil
}

// Weight returns the total weight of collected signatures.
func (b *Builder) Weight() uint64 {
	var w uint64
	for _, s := range b.sigs {
		w += b.set.WeightOf(s.Signer)
	}
	return w
}

// Proof returns a proof containing all collected signatures, sorted by the
// signer address.
func (b *Builder) Proof() *Proof {
	sigs := make([]*Signature, 0, len(b.sigs))
	for _, s := range b.sigs {
		sigs = append(sigs, s)
	}
	sort.Slice(sigs, func(i, j int) bool {
		return sigs[i].Signer.Compare(sigs[j].Signer) < 0
	})
	return &Proof{
		SignerSet:  b.set.Copy(),
		Signatures: sigs,
	}
}
