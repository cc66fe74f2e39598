package proof

import (
	"context"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/x"
)

type contextKey int // local to the proof module

const (
	contextKeyResult contextKey = iota
)

// WithResult returns a context carrying given accepted proof result.
func WithResult(ctx bridge.Context, res *Result) bridge.Context {
	return context.WithValue(ctx, contextKeyResult, res)
}

// GetResult returns the proof result stored in the context, or nil.
func GetResult(ctx bridge.Context) *Result {
	// (val, ok) form to return nil instead of panic if unset
	res, _ := ctx.Value(contextKeyResult).(*Result)
	return res
}

// IsLatest returns true if the context carries a proof result of the
// current signer set.
func IsLatest(ctx bridge.Context) bool {
	res := GetResult(ctx)
	return res != nil && res.IsLatest
}

// SignerSetCondition returns the condition authenticated by a proof of the
// signer set with given digest.
func SignerSetCondition(digest []byte) bridge.Condition {
	return bridge.NewCondition("proof", "set", digest)
}

// CurrentSignersCondition is authenticated by any proof of the current
// signer set, whichever set that is.
func CurrentSignersCondition() bridge.Condition {
	return bridge.NewCondition("proof", "current", []byte("signers"))
}

// Authenticate exposes the signer set of the proof result stored in the
// context as a condition. A proof of the current signer set also
// authenticates CurrentSignersCondition.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the signer set condition of this context.
func (Authenticate) GetConditions(ctx bridge.Context) []bridge.Condition {
	res := GetResult(ctx)
	if res == nil {
		return nil
	}
	conds := []bridge.Condition{SignerSetCondition(res.SetDigest)}
	if res.IsLatest {
		conds = append(conds, CurrentSignersCondition())
	}
	return conds
}

// HasAddress returns true iff this address is in GetConditions
func (a Authenticate) HasAddress(ctx bridge.Context, addr bridge.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
