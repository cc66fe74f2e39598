package bridge

import (
	"encoding/json"

	"github.com/gogo/protobuf/proto"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// Msg is a message that can be routed to a Handler.
type Msg interface {
	proto.Message

	// Path returns a path that identifies the handler responsible for
	// processing this message.
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one test does not pass and message is considered
	// invalid.
	// This validation performs only tests that do not require external
	// resources (ie a database).
	Validate() error
}

// Handler is a core engine that can process a few specific messages.
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a message.
// It must not modify the store.
type Checker interface {
	Check(ctx Context, db KVStore, msg Msg) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a message.
type Deliverer interface {
	Deliver(ctx Context, db KVStore, msg Msg) (*DeliverResult, error)
}

// CheckResult captures any non-error result of checking a message.
type CheckResult struct {
	// Log is human-readable informational string
	Log string
}

// DeliverResult captures any non-error result of delivering a message.
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// Events are emitted for observers of the processed message.
	Events []Event
}

// Event is a typed set of attributes describing a state change.
type Event struct {
	Type       string
	Attributes []cmn.KVPair
}

// Attr returns the value of the first attribute with given key, or nil.
func (e Event) Attr(key string) []byte {
	for _, a := range e.Attributes {
		if string(a.Key) == key {
			return a.Value
		}
	}
	return nil
}

// NewEvent returns an event of the given type with the attributes given as
// key, value pairs. An odd number of keyvals panics.
func NewEvent(typ string, keyvals ...string) Event {
	if len(keyvals)%2 != 0 {
		panic("odd number of event attributes")
	}
	attrs := make([]cmn.KVPair, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		attrs = append(attrs, cmn.KVPair{
			Key:   []byte(keyvals[i]),
			Value: []byte(keyvals[i+1]),
		})
	}
	return Event{Type: typ, Attributes: attrs}
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(ctx Context, opts Options, db KVStore) error
}
