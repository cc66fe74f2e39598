package signers

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bridge"
)

// Signer is a single member of a signer set.
type Signer struct {
	Address bridge.Address `protobuf:"bytes,1,opt,name=address,proto3,casttype=github.com/iov-one/bridge.Address" json:"address,omitempty"`
	Weight  uint64         `protobuf:"varint,2,opt,name=weight,proto3" json:"weight,omitempty"`
}

func (m *Signer) Reset()         { *m = Signer{} }
func (m *Signer) String() string { return proto.CompactTextString(m) }
func (*Signer) ProtoMessage()    {}

// WeightedSignerSet is a group of signers that is trusted to authorize an
// operation when the weight of the collected signatures reaches the
// threshold.
type WeightedSignerSet struct {
	// Signers sorted by address, ascending.
	Signers   []*Signer `protobuf:"bytes,1,rep,name=signers,proto3" json:"signers,omitempty"`
	Threshold uint64    `protobuf:"varint,2,opt,name=threshold,proto3" json:"threshold,omitempty"`
	// Nonce is a 32 byte value that distinguishes otherwise identical sets.
	Nonce []byte `protobuf:"bytes,3,opt,name=nonce,proto3" json:"nonce,omitempty"`
}

func (m *WeightedSignerSet) Reset()      { *m = WeightedSignerSet{} }
func (*WeightedSignerSet) ProtoMessage() {}

func init() {
	proto.RegisterType((*Signer)(nil), "signers.Signer")
	proto.RegisterType((*WeightedSignerSet)(nil), "signers.WeightedSignerSet")
}
