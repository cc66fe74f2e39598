package registry

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/x/signers"
)

type Configuration struct {
	// Number of trailing non-current epochs accepted in proofs.
	RetentionWindow uint32 `protobuf:"varint,1,opt,name=retention_window,json=retentionWindow,proto3" json:"retention_window,omitempty"`
	// Address that is allowed to rotate signer sets.
	RotationAuthority bridge.Address `protobuf:"bytes,2,opt,name=rotation_authority,json=rotationAuthority,proto3,casttype=github.com/iov-one/bridge.Address" json:"rotation_authority,omitempty"`
	// Maximum number of signers in a set. Zero means the default of 64.
	MaxSigners uint32 `protobuf:"varint,3,opt,name=max_signers,json=maxSigners,proto3" json:"max_signers,omitempty"`
	// When set, a signer set that was registered before can be registered
	// again under a new epoch.
	AllowReregistration bool `protobuf:"varint,4,opt,name=allow_reregistration,json=allowReregistration,proto3" json:"allow_reregistration,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

// EpochRecord is stored under the big endian encoded epoch.
type EpochRecord struct {
	Epoch     uint64                     `protobuf:"varint,1,opt,name=epoch,proto3" json:"epoch,omitempty"`
	Digest    []byte                     `protobuf:"bytes,2,opt,name=digest,proto3" json:"digest,omitempty"`
	SignerSet *signers.WeightedSignerSet `protobuf:"bytes,3,opt,name=signer_set,json=signerSet,proto3" json:"signer_set,omitempty"`
}

func (m *EpochRecord) Reset()         { *m = EpochRecord{} }
func (m *EpochRecord) String() string { return proto.CompactTextString(m) }
func (*EpochRecord) ProtoMessage()    {}

// DigestRecord is stored under the signer set digest.
type DigestRecord struct {
	Epoch uint64 `protobuf:"varint,1,opt,name=epoch,proto3" json:"epoch,omitempty"`
}

func (m *DigestRecord) Reset()         { *m = DigestRecord{} }
func (m *DigestRecord) String() string { return proto.CompactTextString(m) }
func (*DigestRecord) ProtoMessage()    {}

// RotateSignersMsg registers a new signer set as the current one.
type RotateSignersMsg struct {
	SignerSet *signers.WeightedSignerSet `protobuf:"bytes,1,opt,name=signer_set,json=signerSet,proto3" json:"signer_set,omitempty"`
}

func (m *RotateSignersMsg) Reset()         { *m = RotateSignersMsg{} }
func (m *RotateSignersMsg) String() string { return proto.CompactTextString(m) }
func (*RotateSignersMsg) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Configuration)(nil), "registry.Configuration")
	proto.RegisterType((*EpochRecord)(nil), "registry.EpochRecord")
	proto.RegisterType((*DigestRecord)(nil), "registry.DigestRecord")
	proto.RegisterType((*RotateSignersMsg)(nil), "registry.RotateSignersMsg")
}
