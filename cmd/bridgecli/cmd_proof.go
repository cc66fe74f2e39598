package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/bridge/x/proof"
	"github.com/iov-one/bridge/x/signers"
)

func cmdSign(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a signer set from standard input and sign given data digest as a member
of that set. The signature document is written to standard output.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("BRIDGECLI_PRIV_KEY", os.Getenv("HOME")+"/.bridge.priv.key"),
			"Path to the private key file. You can use BRIDGECLI_PRIV_KEY environment variable to set it.")
		sepFl    = flHex(fl, "separator", env("BRIDGECLI_DOMAIN_SEPARATOR", ""), "Hex encoded domain separator of the verifier, 32 bytes.")
		digestFl = flHex(fl, "digest", "", "Hex encoded data digest to sign, 32 bytes.")
	)
	fl.Parse(args)

	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	var set signers.WeightedSignerSet
	if err := readJSON(input, &set); err != nil {
		return err
	}
	b, err := proof.NewBuilder(*sepFl, &set, *digestFl)
	if err != nil {
		return err
	}
	if err := b.Sign(key); err != nil {
		return err
	}
	return writeJSON(output, b.Proof().Signatures[0])
}

func cmdProof(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read signature documents from standard input and combine them into a proof.
Every signature is verified. This command fails if the signatures do not
reach the threshold of the signer set.
`)
		fl.PrintDefaults()
	}
	var (
		setFl    = fl.String("set", "", "Path to the signer set JSON file.")
		sepFl    = flHex(fl, "separator", env("BRIDGECLI_DOMAIN_SEPARATOR", ""), "Hex encoded domain separator of the verifier, 32 bytes.")
		digestFl = flHex(fl, "digest", "", "Hex encoded data digest, 32 bytes.")
	)
	fl.Parse(args)

	var set signers.WeightedSignerSet
	if err := readJSONFile(*setFl, &set); err != nil {
		return err
	}
	b, err := proof.NewBuilder(*sepFl, &set, *digestFl)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(input)
	for {
		var sig proof.Signature
		switch err := dec.Decode(&sig); {
		case err == io.EOF:
			if w := b.Weight(); w < set.Threshold {
				return fmt.Errorf("signatures weight %d is below threshold %d", w, set.Threshold)
			}
			return writeJSON(output, b.Proof())
		case err != nil:
			return fmt.Errorf("cannot decode signature: %s", err)
		}
		if err := b.AddSignature(sig.Signer, sig.Signature); err != nil {
			return err
		}
	}
}
