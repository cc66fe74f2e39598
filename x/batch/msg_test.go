package batch

import (
	"testing"

	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/x/proof"
)

func TestValidateExecuteBatchMsg(t *testing.T) {
	valid := func() *ExecuteBatchMsg {
		return &ExecuteBatchMsg{
			BatchID: batchID(1),
			Calls:   []*Call{call("store", "x")},
			Proof:   &proof.Proof{},
		}
	}

	cases := map[string]struct {
		msg     *ExecuteBatchMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: valid(),
		},
		"short batch id": {
			msg: func() *ExecuteBatchMsg {
				m := valid()
				m.BatchID = m.BatchID[:31]
				return m
			}(),
			wantErr: errors.ErrInput,
		},
		"no calls": {
			msg: func() *ExecuteBatchMsg {
				m := valid()
				m.Calls = nil
				return m
			}(),
			wantErr: errors.ErrEmpty,
		},
		"nil call": {
			msg: func() *ExecuteBatchMsg {
				m := valid()
				m.Calls = append(m.Calls, nil)
				return m
			}(),
			wantErr: errors.ErrEmpty,
		},
		"invalid chain id": {
			msg: func() *ExecuteBatchMsg {
				m := valid()
				m.Calls[0].ChainID = "x"
				return m
			}(),
			wantErr: errors.ErrInput,
		},
		"invalid contract": {
			msg: func() *ExecuteBatchMsg {
				m := valid()
				m.Calls[0].Contract = []byte("short")
				return m
			}(),
			wantErr: errors.ErrInput,
		},
		"invalid path": {
			msg: func() *ExecuteBatchMsg {
				m := valid()
				m.Calls[0].Path = "/absolute"
				return m
			}(),
			wantErr: errors.ErrInput,
		},
		"no proof": {
			msg: func() *ExecuteBatchMsg {
				m := valid()
				m.Proof = nil
				return m
			}(),
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}
}
