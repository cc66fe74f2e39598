package batch

import (
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/x/proof"
)

type Configuration struct {
	// Contract is the address of this execution context. Only calls
	// addressed to it are executed.
	Contract bridge.Address `protobuf:"bytes,1,opt,name=contract,proto3,casttype=github.com/iov-one/bridge.Address" json:"contract,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

// Call is a single operation of a batch.
type Call struct {
	ChainID  string         `protobuf:"bytes,1,opt,name=chain_id,json=chainId,proto3" json:"chain_id,omitempty"`
	Contract bridge.Address `protobuf:"bytes,2,opt,name=contract,proto3,casttype=github.com/iov-one/bridge.Address" json:"contract,omitempty"`
	// Path selects the call handler.
	Path    string `protobuf:"bytes,3,opt,name=path,proto3" json:"path,omitempty"`
	Payload []byte `protobuf:"bytes,4,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *Call) Reset()         { *m = Call{} }
func (m *Call) String() string { return proto.CompactTextString(m) }
func (*Call) ProtoMessage()    {}

// CallList is the encoding of calls used to compute the data digest.
type CallList struct {
	Calls []*Call `protobuf:"bytes,1,rep,name=calls,proto3" json:"calls,omitempty"`
}

func (m *CallList) Reset()         { *m = CallList{} }
func (m *CallList) String() string { return proto.CompactTextString(m) }
func (*CallList) ProtoMessage()    {}

type ExecuteBatchMsg struct {
	BatchID []byte       `protobuf:"bytes,1,opt,name=batch_id,json=batchId,proto3" json:"batch_id,omitempty"`
	Calls   []*Call      `protobuf:"bytes,2,rep,name=calls,proto3" json:"calls,omitempty"`
	Proof   *proof.Proof `protobuf:"bytes,3,opt,name=proof,proto3" json:"proof,omitempty"`
}

func (m *ExecuteBatchMsg) Reset()         { *m = ExecuteBatchMsg{} }
func (m *ExecuteBatchMsg) String() string { return proto.CompactTextString(m) }
func (*ExecuteBatchMsg) ProtoMessage()    {}

type BatchState int32

const (
	BatchState_Invalid   BatchState = 0
	BatchState_Executing BatchState = 1
	BatchState_Executed  BatchState = 2
)

var BatchState_name = map[int32]string{
	0: "BATCH_STATE_INVALID",
	1: "BATCH_STATE_EXECUTING",
	2: "BATCH_STATE_EXECUTED",
}

var BatchState_value = map[string]int32{
	"BATCH_STATE_INVALID":   0,
	"BATCH_STATE_EXECUTING": 1,
	"BATCH_STATE_EXECUTED":  2,
}

func (x BatchState) String() string {
	if name, ok := BatchState_name[int32(x)]; ok {
		return name
	}
	return strconv.Itoa(int(x))
}

// BatchRecord is stored under the batch id.
type BatchRecord struct {
	State      BatchState `protobuf:"varint,1,opt,name=state,proto3,enum=batch.BatchState" json:"state,omitempty"`
	DataDigest []byte     `protobuf:"bytes,2,opt,name=data_digest,json=dataDigest,proto3" json:"data_digest,omitempty"`
	Epoch      uint64     `protobuf:"varint,3,opt,name=epoch,proto3" json:"epoch,omitempty"`
}

func (m *BatchRecord) Reset()         { *m = BatchRecord{} }
func (m *BatchRecord) String() string { return proto.CompactTextString(m) }
func (*BatchRecord) ProtoMessage()    {}

func init() {
	proto.RegisterEnum("batch.BatchState", BatchState_name, BatchState_value)
	proto.RegisterType((*Configuration)(nil), "batch.Configuration")
	proto.RegisterType((*Call)(nil), "batch.Call")
	proto.RegisterType((*CallList)(nil), "batch.CallList")
	proto.RegisterType((*ExecuteBatchMsg)(nil), "batch.ExecuteBatchMsg")
	proto.RegisterType((*BatchRecord)(nil), "batch.BatchRecord")
}
