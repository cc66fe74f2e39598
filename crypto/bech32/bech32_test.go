package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestBech32EncodeDecode(t *testing.T) {
	cases := map[string]struct {
		enc     string
		wantHrp string
		wantHex string
	}{
		"payload": {
			enc:     "tiov1w3jhxapdwpshjmr0v9jqymqq4y",
			wantHrp: "tiov",
			wantHex: "746573742d7061796c6f6164",
		},
		"address": {
			enc:     "brdg1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5q3dk38",
			wantHrp: "brdg",
			wantHex: "0102030405060708090a0b0c0d0e0f1011121314",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			want, err := hex.DecodeString(tc.wantHex)
			if err != nil {
				t.Fatal(err)
			}

			hrp, payload, err := Decode(tc.enc)
			if err != nil {
				t.Fatal(err)
			}
			if hrp != tc.wantHrp {
				t.Fatalf("unexpected hrp: %q", hrp)
			}
			if !bytes.Equal(want, payload) {
				t.Logf("want %d", want)
				t.Logf("got  %d", payload)
				t.Fatal("invalid decode")
			}

			raw, err := Encode(hrp, payload)
			if err != nil {
				t.Fatalf("cannot encode: %s", err)
			}
			if string(raw) != tc.enc {
				t.Fatalf("invalid encoding: %q", raw)
			}
		})
	}
}

func TestBech32DecodeInvalid(t *testing.T) {
	if _, _, err := Decode("brdg1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5q3dk39"); err == nil {
		t.Fatal("checksum mismatch must fail")
	}
}
