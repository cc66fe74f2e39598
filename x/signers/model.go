package signers

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/crypto"
	"github.com/iov-one/bridge/errors"
)

// NonceSize is the length of a signer set nonce.
const NonceSize = 32

// DigestSize is the length of a signer set digest.
const DigestSize = 32

// NewWeightedSignerSet returns a validated signer set. Signers are copied and
// sorted by address, so the order of the given list does not matter.
func NewWeightedSignerSet(signers []*Signer, threshold uint64, nonce []byte) (*WeightedSignerSet, error) {
	ss := make([]*Signer, 0, len(signers))
	for _, s := range signers {
		if s == nil {
			return nil, errors.Wrap(ErrInvalidSigners, "nil signer")
		}
		ss = append(ss, &Signer{Address: s.Address.Clone(), Weight: s.Weight})
	}
	sort.Slice(ss, func(i, j int) bool {
		return ss[i].Address.Compare(ss[j].Address) < 0
	})
	set := &WeightedSignerSet{
		Signers:   ss,
		Threshold: threshold,
		Nonce:     append([]byte(nil), nonce...),
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// Validate returns an error if this is not a well formed signer set.
func (s *WeightedSignerSet) Validate() error {
	if s == nil {
		return errors.Wrap(ErrInvalidSigners, "nil signer set")
	}
	if len(s.Signers) == 0 {
		return errors.Wrap(ErrInvalidSigners, "no signers")
	}
	if len(s.Nonce) != NonceSize {
		return errors.Wrapf(ErrInvalidSigners, "nonce must be %d bytes, got %d", NonceSize, len(s.Nonce))
	}
	for i, sig := range s.Signers {
		if sig == nil {
			return errors.Wrapf(ErrInvalidSigners, "nil signer at position %d", i)
		}
		if err := sig.Address.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidSigners, "signer %d address: %s", i, err)
		}
		if sig.Weight == 0 {
			return errors.Wrapf(ErrInvalidWeights, "signer %s has zero weight", sig.Address)
		}
		if i > 0 {
			switch prev := s.Signers[i-1]; sig.Address.Compare(prev.Address) {
			case 0:
				return errors.Wrapf(ErrInvalidSigners, "duplicated signer %s", sig.Address)
			case -1:
				return errors.Wrapf(ErrInvalidSigners, "signers not sorted at position %d", i)
			}
		}
	}
	total, err := s.TotalWeight()
	if err != nil {
		return err
	}
	if s.Threshold == 0 {
		return errors.Wrap(ErrInvalidThreshold, "threshold must be greater than zero")
	}
	if s.Threshold > total {
		return errors.Wrapf(ErrInvalidThreshold, "threshold %d is greater than total weight %d", s.Threshold, total)
	}
	return nil
}

// TotalWeight returns the sum of all signer weights.
func (s *WeightedSignerSet) TotalWeight() (uint64, error) {
	var total uint64
	for _, sig := range s.Signers {
		if sig == nil {
			continue
		}
		next := total + sig.Weight
		if next < total {
			return 0, errors.Append(
				errors.Wrap(ErrInvalidWeights, "total weight does not fit in uint64"),
				errors.ErrOverflow)
		}
		total = next
	}
	return total, nil
}

// WeightOf returns the weight of given address, or zero if it is not a member
// of this set.
func (s *WeightedSignerSet) WeightOf(addr bridge.Address) uint64 {
	for _, sig := range s.Signers {
		if sig != nil && sig.Address.Equals(addr) {
			return sig.Weight
		}
	}
	return 0
}

// Encode returns the canonical binary representation of this set. Fields
// are written in the field number order and signers in the slice order.
func (s *WeightedSignerSet) Encode() ([]byte, error) {
	raw, err := proto.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

// Decode parses a signer set from its canonical binary representation. The
// returned set is not validated.
func Decode(raw []byte) (*WeightedSignerSet, error) {
	var s WeightedSignerSet
	if err := proto.Unmarshal(raw, &s); err != nil {
		return nil, errors.Wrapf(ErrInvalidSigners, "cannot decode: %s", err)
	}
	return &s, nil
}

// Digest returns the keccak256 hash of the canonical encoding. The encoding
// is always computed again so the digest does not depend on how the set was
// received.
func (s *WeightedSignerSet) Digest() ([]byte, error) {
	raw, err := s.Encode()
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(raw), nil
}

// Copy returns a deep copy of this set.
func (s *WeightedSignerSet) Copy() *WeightedSignerSet {
	ss := make([]*Signer, 0, len(s.Signers))
	for _, sig := range s.Signers {
		if sig == nil {
			ss = append(ss, nil)
			continue
		}
		ss = append(ss, &Signer{Address: sig.Address.Clone(), Weight: sig.Weight})
	}
	return &WeightedSignerSet{
		Signers:   ss,
		Threshold: s.Threshold,
		Nonce:     append([]byte(nil), s.Nonce...),
	}
}

// String returns a human readable representation of the set.
func (s *WeightedSignerSet) String() string {
	if s == nil {
		return "<nil>"
	}
	members := make([]string, 0, len(s.Signers))
	for _, sig := range s.Signers {
		if sig == nil {
			members = append(members, "<nil>")
			continue
		}
		members = append(members, fmt.Sprintf("%s:%d", sig.Address, sig.Weight))
	}
	return fmt.Sprintf("threshold=%d signers=[%s] nonce=%s",
		s.Threshold, strings.Join(members, " "), hex.EncodeToString(s.Nonce))
}

// Contains returns true if given address is a member of this set.
func (s *WeightedSignerSet) Contains(addr bridge.Address) bool {
	i := sort.Search(len(s.Signers), func(i int) bool {
		return s.Signers[i] == nil || bytes.Compare(s.Signers[i].Address, addr) >= 0
	})
	return i < len(s.Signers) && s.Signers[i] != nil && s.Signers[i].Address.Equals(addr)
}
