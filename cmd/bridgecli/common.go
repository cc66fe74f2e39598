package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/app"
	"github.com/iov-one/bridge/store/leveldb"
	"github.com/iov-one/bridge/x/batch"
	"github.com/tendermint/tendermint/libs/log"
)

// readJSON decodes a single JSON document from given reader.
func readJSON(r io.Reader, dst interface{}) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("cannot decode JSON input: %s", err)
	}
	return nil
}

// readJSONFile decodes a JSON document stored in a file.
func readJSONFile(path string, dst interface{}) error {
	fd, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %q: %s", path, err)
	}
	defer fd.Close()
	return readJSON(fd, dst)
}

// writeJSON writes given value as an indented JSON document.
func writeJSON(w io.Writer, src interface{}) error {
	raw, err := json.MarshalIndent(src, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot encode JSON output: %s", err)
	}
	raw = append(raw, '\n')
	_, err = w.Write(raw)
	return err
}

// newLogger returns a logger writing to stderr that drops all entries
// below given level.
func newLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stderr)), opt), nil
}

const dataDir = "data"

// openService opens the store kept in given home directory. The returned
// function must be called to release the store.
func openService(home, logLevel string) (*app.Service, func(), error) {
	logger, err := newLogger(logLevel)
	if err != nil {
		return nil, nil, err
	}
	db, err := leveldb.Open(filepath.Join(home, dataDir))
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open store: %s", err)
	}
	svc, err := app.NewService(db, callRouter(), keyAuth{}, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return svc, func() { db.Close() }, nil
}

// callRouter returns the call handlers available in this program. Payloads
// are not interpreted, an echo call only emits an event.
func callRouter() *batch.Router {
	r := batch.NewRouter()
	r.Handle("echo", batch.CallHandlerFunc(func(ctx bridge.Context, db bridge.KVStore, c *batch.Call) (*bridge.DeliverResult, error) {
		return &bridge.DeliverResult{
			Events: []bridge.Event{bridge.NewEvent("echo", "payload", fmt.Sprintf("%X", c.Payload))},
		}, nil
	}))
	return r
}

type signerCtxKey struct{}

// withSigner returns a context authenticated as given address.
func withSigner(ctx bridge.Context, addr bridge.Address) bridge.Context {
	return context.WithValue(ctx, signerCtxKey{}, addr)
}

// keyAuth authenticates the owner of the private key loaded by the
// command.
type keyAuth struct{}

func (keyAuth) GetConditions(bridge.Context) []bridge.Condition {
	return nil
}

func (keyAuth) HasAddress(ctx bridge.Context, addr bridge.Address) bool {
	signer, ok := ctx.Value(signerCtxKey{}).(bridge.Address)
	return ok && signer.Equals(addr)
}
