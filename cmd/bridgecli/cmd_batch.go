package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/bridge/x/batch"
)

func cmdBatch(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a batch without any call. Use with-call to add calls.

A batch id shorter than 32 bytes is left padded with zeros.
`)
		fl.PrintDefaults()
	}
	var (
		idFl = flHex(fl, "id", "", "Hex encoded batch id, up to 32 bytes.")
	)
	fl.Parse(args)

	id, err := batchID(*idFl)
	if err != nil {
		return err
	}
	return writeJSON(output, &batch.ExecuteBatchMsg{BatchID: id})
}

// batchID returns the 32 byte batch id, left padded with zeros.
func batchID(raw []byte) ([]byte, error) {
	if len(raw) == 0 || len(raw) > batch.BatchIDSize {
		return nil, fmt.Errorf("batch id must be between 1 and %d bytes", batch.BatchIDSize)
	}
	id := make([]byte, batch.BatchIDSize)
	copy(id[batch.BatchIDSize-len(raw):], raw)
	return id, nil
}

func cmdWithCall(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a batch from standard input and append a call to it.
`)
		fl.PrintDefaults()
	}
	var (
		chainFl    = fl.String("chain", "", "Chain ID of the execution context the call is for.")
		contractFl = flAddress(fl, "contract", "", "Address of the contract the call is for.")
		pathFl     = fl.String("path", "", "Path of the call handler.")
		payloadFl  = flHex(fl, "payload", "", "Hex encoded call payload.")
	)
	fl.Parse(args)

	var msg batch.ExecuteBatchMsg
	if err := readJSON(input, &msg); err != nil {
		return err
	}
	c := &batch.Call{
		ChainID:  *chainFl,
		Contract: *contractFl,
		Path:     *pathFl,
		Payload:  *payloadFl,
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid call: %s", err)
	}
	msg.Calls = append(msg.Calls, c)
	return writeJSON(output, &msg)
}

func cmdBatchDigest(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a batch from standard input and print out the hex encoded data digest
that a proof must authorize.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	var msg batch.ExecuteBatchMsg
	if err := readJSON(input, &msg); err != nil {
		return err
	}
	digest, err := batch.DataDigest(msg.BatchID, msg.Calls)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%X\n", digest)
	return err
}
