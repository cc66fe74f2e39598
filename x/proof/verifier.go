package proof

import (
	"encoding/hex"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/crypto"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/x/registry"
	"github.com/iov-one/bridge/x/signers"
)

// Result describes an accepted proof.
type Result struct {
	// Epoch the signer set was registered at.
	Epoch uint64
	// SetDigest is the digest of the signer set.
	SetDigest []byte
	// IsLatest is true if the signer set is the current one.
	IsLatest bool
	// Weight of the signatures that were checked. It is not less than
	// the threshold.
	Weight uint64
	// Threshold of the signer set.
	Threshold uint64
}

// Verifier checks proofs against the signer sets of the registry.
type Verifier struct {
	reg *registry.Controller
}

// NewVerifier returns a verifier that accepts signer sets registered in
// given registry.
func NewVerifier(reg *registry.Controller) *Verifier {
	return &Verifier{reg: reg}
}

// ValidateProof returns the result of an accepted proof, or an error if the
// proof does not authorize given data digest. A data digest that is not
// DataDigestSize long is errors.ErrInput. Other errors are of kind
// signers.ErrInvalidSigners, ErrMalformedSignatures or
// ErrLowSignaturesWeight.
func (v *Verifier) ValidateProof(ctx bridge.Context, db bridge.ReadOnlyKVStore, dataDigest []byte, p *Proof) (*Result, error) {
	res, err := v.validate(db, dataDigest, p)
	if err != nil {
		bridge.GetLogger(ctx).Debug("proof rejected",
			"data_digest", hex.EncodeToString(dataDigest),
			"err", err)
		return nil, err
	}
	return res, nil
}

func (v *Verifier) validate(db bridge.ReadOnlyKVStore, dataDigest []byte, p *Proof) (*Result, error) {
	if len(dataDigest) != DataDigestSize {
		return nil, errors.Wrapf(errors.ErrInput, "data digest must be %d bytes", DataDigestSize)
	}
	if p == nil {
		return nil, errors.Wrap(signers.ErrInvalidSigners, "no proof")
	}
	set := p.SignerSet
	if err := set.Validate(); err != nil {
		return nil, errors.Wrap(err, "signer set")
	}
	digest, err := set.Digest()
	if err != nil {
		return nil, errors.Wrap(signers.ErrInvalidSigners, err.Error())
	}

	epoch, err := v.reg.EpochOf(db, digest)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(signers.ErrInvalidSigners, "signer set %X is not registered", digest)
	case err != nil:
		return nil, err
	}
	switch ok, err := v.reg.IsAcceptable(db, epoch); {
	case err != nil:
		return nil, err
	case !ok:
		return nil, errors.Wrapf(signers.ErrInvalidSigners, "signer set of epoch %d expired", epoch)
	}
	current, err := v.reg.CurrentEpoch(db)
	if err != nil {
		return nil, err
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	message, err := BuildMessage(conf.DomainSeparator, digest, dataDigest)
	if err != nil {
		return nil, err
	}

	weight, err := checkSignatures(set, p.Signatures, message)
	if err != nil {
		return nil, err
	}
	return &Result{
		Epoch:     epoch,
		SetDigest: digest,
		IsLatest:  epoch == current,
		Weight:    weight,
		Threshold: set.Threshold,
	}, nil
}

// checkSignatures matches signatures against the signer set members in a
// single pass. Both lists must be sorted. It returns as soon as the weight of
// valid signatures reaches the threshold, remaining signatures are ignored.
func checkSignatures(set *signers.WeightedSignerSet, sigs []*Signature, message []byte) (uint64, error) {
	if len(sigs) > len(set.Signers) {
		return 0, errors.Wrapf(ErrMalformedSignatures, "%d signatures for %d signers", len(sigs), len(set.Signers))
	}

	var (
		weight uint64
		cursor int
		prev   bridge.Address
	)
	for i, sig := range sigs {
		if sig == nil {
			return 0, errors.Wrapf(ErrMalformedSignatures, "nil signature at position %d", i)
		}
		if i > 0 && sig.Signer.Compare(prev) <= 0 {
			return 0, errors.Wrapf(ErrMalformedSignatures, "signature %d is not sorted", i)
		}
		prev = sig.Signer

		signer, err := crypto.Recover(message, sig.Signature)
		if err != nil {
			return 0, errors.Wrapf(ErrMalformedSignatures, "signature %d: %s", i, err)
		}
		if !signer.Equals(sig.Signer) {
			return 0, errors.Wrapf(ErrMalformedSignatures, "signature %d was not created by %s", i, sig.Signer)
		}

		for cursor < len(set.Signers) && set.Signers[cursor].Address.Compare(sig.Signer) < 0 {
			cursor++
		}
		if cursor == len(set.Signers) || !set.Signers[cursor].Address.Equals(sig.Signer) {
			return 0, errors.Wrapf(ErrMalformedSignatures, "%s is not a member of the signer set", sig.Signer)
		}
		// Overflow is not possible, the total weight was validated.
		weight += set.Signers[cursor].Weight
		cursor++

		if weight >= set.Threshold {
			return weight, nil
		}
	}
	return 0, errors.Wrapf(ErrLowSignaturesWeight, "weight %d, threshold %d", weight, set.Threshold)
}
