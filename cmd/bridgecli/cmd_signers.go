package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/x/registry"
	"github.com/iov-one/bridge/x/signers"
)

func cmdSignerSet(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a weighted signer set. Each argument describes a single signer in
the <address>:<weight> format. Signers are sorted by their address.
`)
		fl.PrintDefaults()
	}
	var (
		thresholdFl = fl.Uint64("threshold", 1, "Minimal weight of signatures required by a proof.")
		nonceFl     = flHex(fl, "nonce", strings.Repeat("00", signers.NonceSize), "Hex encoded nonce, 32 bytes.")
	)
	fl.Parse(args)

	var ss []*signers.Signer
	for _, arg := range fl.Args() {
		s, err := parseSigner(arg)
		if err != nil {
			return err
		}
		ss = append(ss, s)
	}
	set, err := signers.NewWeightedSignerSet(ss, *thresholdFl, *nonceFl)
	if err != nil {
		return fmt.Errorf("invalid signer set: %s", err)
	}
	return writeJSON(output, set)
}

// parseSigner parses a signer in the <address>:<weight> format. An address
// can contain a format prefix itself, so the last colon is used.
func parseSigner(raw string) (*signers.Signer, error) {
	i := strings.LastIndex(raw, ":")
	if i < 0 {
		return nil, fmt.Errorf("invalid signer %q, expected <address>:<weight>", raw)
	}
	addr, err := bridge.ParseAddress(raw[:i])
	if err != nil {
		return nil, fmt.Errorf("invalid signer %q address: %s", raw, err)
	}
	weight, err := strconv.ParseUint(raw[i+1:], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid signer %q weight: %s", raw, err)
	}
	return &signers.Signer{Address: addr, Weight: weight}, nil
}

func cmdDigest(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a signer set from standard input and print out its hex encoded digest.
`)
		fl.PrintDefaults()
	}
	var (
		rotationFl = fl.Bool("rotation", false, "Print out the data digest the current signer set signs to rotate to this set.")
	)
	fl.Parse(args)

	var set signers.WeightedSignerSet
	if err := readJSON(input, &set); err != nil {
		return err
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("invalid signer set: %s", err)
	}
	digest, err := set.Digest()
	if *rotationFl {
		digest, err = registry.RotationDigest(&set)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%X\n", digest)
	return err
}
