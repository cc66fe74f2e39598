package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/bridge/app"
	"github.com/iov-one/bridge/x/batch"
	"github.com/iov-one/bridge/x/proof"
	"github.com/iov-one/bridge/x/signers"
)

// homeFlags registers flags shared by all commands operating on a home
// directory.
func homeFlags(fl *flag.FlagSet) (home, logLevel *string) {
	home = fl.String("home", env("BRIDGECLI_HOME", filepath.Join(os.Getenv("HOME"), ".bridge")),
		"Path to the home directory. You can use BRIDGECLI_HOME environment variable to set it.")
	logLevel = fl.String("log-level", "info", "Log level, one of debug, info, error or none.")
	return home, logLevel
}

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the home directory using given genesis file. The genesis file
contains the chain ID and the configuration of all extensions, optionally
with the first signer set.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl, logFl = homeFlags(fl)
		genesisFl     = fl.String("genesis", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*homeFl, 0700); err != nil {
		return fmt.Errorf("cannot create home directory: %s", err)
	}
	svc, release, err := openService(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer release()

	if err := svc.InitChain(context.Background(), gen); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, svc.ChainID())
	return err
}

func cmdRotate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a signer set from standard input and register it as the current one.
The private key must belong to the configured rotation authority.

When a proof file is given instead, the rotation is authorized by the
current signer set. The proof must be created for the rotation digest of
the new set, as printed by the digest command.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl, logFl = homeFlags(fl)
		keyPathFl     = fl.String("key", env("BRIDGECLI_PRIV_KEY", os.Getenv("HOME")+"/.bridge.priv.key"),
			"Path to the private key file of the rotation authority. You can use BRIDGECLI_PRIV_KEY environment variable to set it.")
		proofFl = fl.String("proof", "", "Path to the proof JSON file of the current signer set.")
	)
	fl.Parse(args)

	var set signers.WeightedSignerSet
	if err := readJSON(input, &set); err != nil {
		return err
	}

	var rotate func(*app.Service) (uint64, []byte, error)
	if *proofFl != "" {
		var p proof.Proof
		if err := readJSONFile(*proofFl, &p); err != nil {
			return err
		}
		rotate = func(svc *app.Service) (uint64, []byte, error) {
			return svc.RotateWithProof(context.Background(), &set, &p)
		}
	} else {
		key, err := readKey(*keyPathFl)
		if err != nil {
			return err
		}
		rotate = func(svc *app.Service) (uint64, []byte, error) {
			return svc.Rotate(withSigner(context.Background(), key.Address()), &set)
		}
	}

	svc, release, err := openService(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer release()

	epoch, digest, err := rotate(svc)
	if err != nil {
		return err
	}
	return writeJSON(output, struct {
		Epoch  uint64 `json:"epoch"`
		Digest string `json:"digest"`
	}{
		Epoch:  epoch,
		Digest: strings.ToUpper(hex.EncodeToString(digest)),
	})
}

func cmdExecute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a batch from standard input and execute it. Each batch is executed at
most once.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl, logFl = homeFlags(fl)
		proofFl       = fl.String("proof", "", "Path to the proof JSON file. If not given, the proof of the batch is used.")
	)
	fl.Parse(args)

	var msg batch.ExecuteBatchMsg
	if err := readJSON(input, &msg); err != nil {
		return err
	}
	if *proofFl != "" {
		var p proof.Proof
		if err := readJSONFile(*proofFl, &p); err != nil {
			return err
		}
		msg.Proof = &p
	}
	svc, release, err := openService(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer release()

	res, err := svc.ExecuteBatch(context.Background(), &msg)
	if err != nil {
		return err
	}
	return writeJSON(output, res)
}

func cmdValidate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a proof from standard input and validate that it authorizes given data
digest.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl, logFl = homeFlags(fl)
		digestFl      = flHex(fl, "digest", "", "Hex encoded data digest, 32 bytes.")
	)
	fl.Parse(args)

	var p proof.Proof
	if err := readJSON(input, &p); err != nil {
		return err
	}
	svc, release, err := openService(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer release()

	res, err := svc.ValidateProof(context.Background(), *digestFl, &p)
	if err != nil {
		return err
	}
	return writeJSON(output, res)
}

func cmdReconcile(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Remove the marks of batches whose execution was interrupted, so that they
can be executed again. Ids of those batches are printed out.

Interrupted batches are also reconciled whenever the home directory is
opened by any other command, in which case they are only logged. Those
batches are not printed out by a later reconcile.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl, logFl = homeFlags(fl)
	)
	fl.Parse(args)

	svc, release, err := openService(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer release()

	ids, err := svc.Reconcile(context.Background())
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintf(output, "%X\n", id); err != nil {
			return err
		}
	}
	return nil
}

func cmdEpochs(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out all registered signer sets together with their epochs.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl, logFl = homeFlags(fl)
	)
	fl.Parse(args)

	svc, release, err := openService(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer release()

	history, err := svc.History()
	if err != nil {
		return err
	}
	return writeJSON(output, history)
}
