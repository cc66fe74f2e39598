package proof

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/x/signers"
)

type Configuration struct {
	// DomainSeparator is a 32 byte value unique to each deployment.
	DomainSeparator []byte `protobuf:"bytes,1,opt,name=domain_separator,json=domainSeparator,proto3" json:"domain_separator,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

// Signature of a single signer set member.
type Signature struct {
	Signer    bridge.Address `protobuf:"bytes,1,opt,name=signer,proto3,casttype=github.com/iov-one/bridge.Address" json:"signer,omitempty"`
	Signature []byte         `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *Signature) Reset()         { *m = Signature{} }
func (m *Signature) String() string { return proto.CompactTextString(m) }
func (*Signature) ProtoMessage()    {}

// Proof is a signer set together with signatures of its members. Signatures
// must be sorted by signer address.
type Proof struct {
	SignerSet  *signers.WeightedSignerSet `protobuf:"bytes,1,opt,name=signer_set,json=signerSet,proto3" json:"signer_set,omitempty"`
	Signatures []*Signature               `protobuf:"bytes,2,rep,name=signatures,proto3" json:"signatures,omitempty"`
}

func (m *Proof) Reset()         { *m = Proof{} }
func (m *Proof) String() string { return proto.CompactTextString(m) }
func (*Proof) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Configuration)(nil), "proof.Configuration")
	proto.RegisterType((*Signature)(nil), "proof.Signature")
	proto.RegisterType((*Proof)(nil), "proof.Proof")
}
