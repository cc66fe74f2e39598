package signers

import (
	"bytes"
	"math"
	"testing"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/bridgetest/assert"
	"github.com/iov-one/bridge/errors"
)

func addr(b byte) bridge.Address {
	return bytes.Repeat([]byte{b}, bridge.AddressLength)
}

var nonce = bytes.Repeat([]byte{0x07}, NonceSize)

func TestValidateSignerSet(t *testing.T) {
	cases := map[string]struct {
		set     *WeightedSignerSet
		wantErr *errors.Error
	}{
		"valid set": {
			set: &WeightedSignerSet{
				Signers:   []*Signer{{Address: addr(1), Weight: 1}, {Address: addr(2), Weight: 2}},
				Threshold: 3,
				Nonce:     nonce,
			},
		},
		"all zero nonce is allowed": {
			set: &WeightedSignerSet{
				Signers:   []*Signer{{Address: addr(1), Weight: 1}},
				Threshold: 1,
				Nonce:     make([]byte, NonceSize),
			},
		},
		"nil set": {
			set:     nil,
			wantErr: ErrInvalidSigners,
		},
		"no signers": {
			set:     &WeightedSignerSet{Threshold: 1, Nonce: nonce},
			wantErr: ErrInvalidSigners,
		},
		"unsorted signers": {
			set: &WeightedSignerSet{
				Signers:   []*Signer{{Address: addr(2), Weight: 1}, {Address: addr(1), Weight: 1}},
				Threshold: 1,
				Nonce:     nonce,
			},
			wantErr: ErrInvalidSigners,
		},
		"duplicated signer": {
			set: &WeightedSignerSet{
				Signers:   []*Signer{{Address: addr(1), Weight: 1}, {Address: addr(1), Weight: 1}},
				Threshold: 1,
				Nonce:     nonce,
			},
			wantErr: ErrInvalidSigners,
		},
		"malformed address": {
			set: &WeightedSignerSet{
				Signers:   []*Signer{{Address: bridge.Address("short"), Weight: 1}},
				Threshold: 1,
				Nonce:     nonce,
			},
			wantErr: ErrInvalidSigners,
		},
		"nil signer": {
			set: &WeightedSignerSet{
				Signers:   []*Signer{nil},
				Threshold: 1,
				Nonce:     nonce,
			},
			wantErr: ErrInvalidSigners,
		},
		"short nonce": {
			set: &WeightedSignerSet{
				Signers:   []*Signer{{Address: addr(1), Weight: 1}},
				Threshold: 1,
				Nonce:     nonce[:31],
			},
			wantErr: ErrInvalidSigners,
		},
		"zero weight": {
			set: &WeightedSignerSet{
				Signers:   []*Signer{{Address: addr(1), Weight: 0}},
				Threshold: 1,
				Nonce:     nonce,
			},
			wantErr: ErrInvalidWeights,
		},
		"weight overflow": {
			set: &WeightedSignerSet{
				Signers:   []*Signer{{Address: addr(1), Weight: math.MaxUint64}, {Address: addr(2), Weight: 1}},
				Threshold: 1,
				Nonce:     nonce,
			},
			wantErr: ErrInvalidWeights,
		},
		"zero threshold": {
			set: &WeightedSignerSet{
				Signers:   []*Signer{{Address: addr(1), Weight: 1}},
				Threshold: 0,
				Nonce:     nonce,
			},
			wantErr: ErrInvalidThreshold,
		},
		"threshold above total weight": {
			set: &WeightedSignerSet{
				Signers:   []*Signer{{Address: addr(1), Weight: 1}, {Address: addr(2), Weight: 1}},
				Threshold: 3,
				Nonce:     nonce,
			},
			wantErr: ErrInvalidThreshold,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.set.Validate()
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %+v error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil && !ErrInvalidSigners.Is(err) {
				t.Fatalf("every validation error must be ErrInvalidSigners, got %+v", err)
			}
		})
	}
}

func TestTotalWeightOverflow(t *testing.T) {
	set := &WeightedSignerSet{
		Signers: []*Signer{{Address: addr(1), Weight: math.MaxUint64}, {Address: addr(2), Weight: 1}},
	}
	_, err := set.TotalWeight()
	if !ErrInvalidWeights.Is(err) {
		t.Fatalf("want invalid weights, got %+v", err)
	}
	if !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow, got %+v", err)
	}
}

func TestNewWeightedSignerSetSorts(t *testing.T) {
	input := []*Signer{
		{Address: addr(3), Weight: 3},
		{Address: addr(1), Weight: 1},
		{Address: addr(2), Weight: 2},
	}
	set, err := NewWeightedSignerSet(input, 4, nonce)
	assert.Nil(t, err)

	for i, want := range []byte{1, 2, 3} {
		assert.Equal(t, addr(want), set.Signers[i].Address)
		assert.Equal(t, uint64(want), set.Signers[i].Weight)
	}
	// Input must not be modified.
	assert.Equal(t, addr(3), input[0].Address)

	if _, err := NewWeightedSignerSet(input, 7, nonce); !ErrInvalidThreshold.Is(err) {
		t.Fatalf("want invalid threshold, got %+v", err)
	}
	if _, err := NewWeightedSignerSet([]*Signer{nil}, 1, nonce); !ErrInvalidSigners.Is(err) {
		t.Fatalf("want invalid signers, got %+v", err)
	}
}

func TestDigest(t *testing.T) {
	base, err := NewWeightedSignerSet([]*Signer{
		{Address: addr(1), Weight: 1},
		{Address: addr(2), Weight: 1},
		{Address: addr(3), Weight: 1},
	}, 2, nonce)
	assert.Nil(t, err)

	digest, err := base.Digest()
	assert.Nil(t, err)
	assert.Equal(t, DigestSize, len(digest))

	raw, err := base.Encode()
	assert.Nil(t, err)
	decoded, err := Decode(raw)
	assert.Nil(t, err)
	assert.Nil(t, decoded.Validate())
	decodedDigest, err := decoded.Digest()
	assert.Nil(t, err)
	assert.Equal(t, digest, decodedDigest)

	again, err := base.Copy().Digest()
	assert.Nil(t, err)
	assert.Equal(t, digest, again)

	modifications := map[string]func(*WeightedSignerSet){
		"threshold": func(s *WeightedSignerSet) { s.Threshold = 3 },
		"nonce":     func(s *WeightedSignerSet) { s.Nonce = make([]byte, NonceSize) },
		"weight":    func(s *WeightedSignerSet) { s.Signers[0].Weight = 2 },
		"order": func(s *WeightedSignerSet) {
			s.Signers[0], s.Signers[1] = s.Signers[1], s.Signers[0]
		},
		"member": func(s *WeightedSignerSet) { s.Signers = s.Signers[:2] },
	}
	for name, modify := range modifications {
		t.Run(name, func(t *testing.T) {
			s := base.Copy()
			modify(s)
			d, err := s.Digest()
			assert.Nil(t, err)
			if bytes.Equal(d, digest) {
				t.Fatal("digest must change")
			}
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte{0xff, 0xff, 0xff}); !ErrInvalidSigners.Is(err) {
		t.Fatalf("want invalid signers, got %+v", err)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	set, err := NewWeightedSignerSet([]*Signer{{Address: addr(1), Weight: 1}}, 1, nonce)
	assert.Nil(t, err)

	cpy := set.Copy()
	cpy.Signers[0].Address[0] = 0xff
	cpy.Signers[0].Weight = 9
	cpy.Nonce[0] = 0xff

	assert.Equal(t, addr(1), set.Signers[0].Address)
	assert.Equal(t, uint64(1), set.Signers[0].Weight)
	assert.Equal(t, nonce, set.Nonce)
}

func TestMembership(t *testing.T) {
	set, err := NewWeightedSignerSet([]*Signer{
		{Address: addr(5), Weight: 5},
		{Address: addr(1), Weight: 1},
	}, 1, nonce)
	assert.Nil(t, err)

	assert.Equal(t, uint64(5), set.WeightOf(addr(5)))
	assert.Equal(t, uint64(0), set.WeightOf(addr(3)))
	assert.Equal(t, true, set.Contains(addr(1)))
	assert.Equal(t, false, set.Contains(addr(3)))

	total, err := set.TotalWeight()
	assert.Nil(t, err)
	assert.Equal(t, uint64(6), total)

	if s := set.String(); s == "" {
		t.Fatal("empty string representation")
	}
}
