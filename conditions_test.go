package bridge_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test hexademical address printing", t, func() {
		b := []byte("ABCD123456LHB")
		addr := bridge.Address(b)

		So(addr.String(), ShouldEqual, fmt.Sprintf("%X", b))
		So(bridge.Address(nil).String(), ShouldEqual, "(nil)")
	})

	Convey("test hexademical condition printing", t, func() {
		cond := bridge.NewCondition("12", "32", []byte("ABCD123456LHB"))

		So(cond.String(), ShouldNotEqual, fmt.Sprintf("%X", cond))
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := bridge.Address("0123456789abcdefghij")

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr bridge.Address
	}{
		"malformed hex": {
			json:     `"30313233343536373839616263646566676869 6a"`,
			wantErr:  errors.ErrInput,
			wantAddr: nil,
		},
		"hex decoding": {
			json:     `"hex:303132333435363738396162636465666768696a"`,
			wantAddr: addr,
		},
		"implicit hex decoding": {
			json:     `"303132333435363738396162636465666768696a"`,
			wantAddr: addr,
		},
		"bech32 decoding": {
			json:     `"bech32:brdg1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5q3dk38"`,
			wantAddr: bridge.Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: bridge.NewCondition("foo", "bar", []byte("conditiondata")).Address(),
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"address too short": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
		"zero cond address": {
			json:     `"cond:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a bridge.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestAddressBech32(t *testing.T) {
	addr := bridge.Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	enc, err := addr.Bech32("brdg")
	require.NoError(t, err)
	assert.Equal(t, "brdg1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5q3dk38", enc)

	got, err := bridge.ParseAddress("bech32:" + enc)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestAddressMarshalJSON(t *testing.T) {
	addr := bridge.Address("0123456789abcdefghij")
	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"303132333435363738396162636465666768696A"`, string(raw))

	var back bridge.Address
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, addr.Equals(back))
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantErr       *errors.Error
		wantCondition bridge.Condition
	}{
		"default decoding": {
			json:          `"foo/bar/636f6e646974696f6e64617461"`,
			wantCondition: bridge.NewCondition("foo", "bar", []byte("conditiondata")),
		},
		"invalid condition format": {
			json:    `"foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"zero address": {
			json:          `""`,
			wantCondition: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got bridge.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !got.Equals(tc.wantCondition) {
				t.Fatalf("expected %q but got condition: %q", tc.wantCondition, got)
			}
		})
	}
}

func TestConditionMarshalJSON(t *testing.T) {
	cases := map[string]struct {
		source   bridge.Condition
		wantJson string
	}{
		"cond encoding": {
			source:   bridge.NewCondition("foo", "bar", []byte("conditiondata")),
			wantJson: `"foo/bar/636F6E646974696F6E64617461"`,
		},
		"nil encoding": {
			source:   nil,
			wantJson: `""`,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := json.Marshal(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.wantJson, string(got))
		})
	}
}

func TestConditionParse(t *testing.T) {
	cond := bridge.NewCondition("proof", "set", []byte{0xCA, 0xFE})
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "proof", ext)
	assert.Equal(t, "set", typ)
	assert.Equal(t, []byte{0xCA, 0xFE}, data)
	assert.NoError(t, cond.Validate())

	assert.Error(t, bridge.Condition("no-slashes").Validate())
}
