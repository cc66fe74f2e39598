package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/bridge/crypto"
	"github.com/stellar/go/exp/crypto/derivation"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.

An ed25519 key can be derived from a hex encoded seed using a SLIP-0010
derivation path, for example "m/44'/234'/0'".
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("BRIDGECLI_PRIV_KEY", os.Getenv("HOME")+"/.bridge.priv.key"),
			"Path to the private key file. You can use BRIDGECLI_PRIV_KEY environment variable to set it.")
		schemeFl = fl.String("scheme", "secp256k1", "Signature scheme of the key, either secp256k1 or ed25519.")
		seedFl   = flHex(fl, "seed", "", "Hex encoded seed to derive an ed25519 key from.")
		pathFl   = fl.String("path", "m/44'/234'/0'", "Derivation path used together with the seed.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first to ensure we do not delete
		// such crucial data by an accident (bad command usage).
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	key, err := keygen(*schemeFl, *seedFl, *pathFl)
	if err != nil {
		return err
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key.Bytes()); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	_, err = fmt.Fprintln(output, key.Address())
	return err
}

// keygen returns a new private key of given scheme. A non empty seed is
// only allowed for ed25519 keys.
func keygen(scheme string, seed []byte, path string) (crypto.PrivateKey, error) {
	switch scheme {
	case "secp256k1":
		if len(seed) != 0 {
			return nil, fmt.Errorf("secp256k1 keys cannot be derived from a seed")
		}
		return crypto.GenSecp256k1()
	case "ed25519":
		if len(seed) == 0 {
			return crypto.GenEd25519()
		}
		k, err := derivation.DeriveForPath(path, seed)
		if err != nil {
			return nil, fmt.Errorf("cannot derive key using path=%q: %s", path, err)
		}
		return crypto.Ed25519FromSeed(k.Key)
	default:
		return nil, fmt.Errorf("unknown scheme %q", scheme)
	}
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out a hex-address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("BRIDGECLI_PRIV_KEY", os.Getenv("HOME")+"/.bridge.priv.key"),
			"Path to the private key file. You can use BRIDGECLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, key.Address())
	return err
}

func readKey(path string) (crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	key, err := crypto.ParsePrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid private key file %q: %s", path, err)
	}
	return key, nil
}
