package app

import (
	"context"
	"sync"

	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/x"
	"github.com/iov-one/bridge/x/batch"
	"github.com/iov-one/bridge/x/proof"
	"github.com/iov-one/bridge/x/registry"
	"github.com/iov-one/bridge/x/signers"
	"github.com/tendermint/tendermint/libs/log"
)

// Service owns the store of a single chain and serializes all operations
// on it.
type Service struct {
	mu      sync.Mutex
	db      bridge.CacheableKVStore
	logger  log.Logger
	chainID string

	registry *registry.Controller
	verifier *proof.Verifier
	executor *batch.Executor
	router   *Router

	// batches reconciled when the service was created, reported by the
	// next call to Reconcile
	reconciled [][]byte
}

// NewService returns a service using given store. Calls of executed batches
// are dispatched by calls. Rotation of signer sets is allowed when auth, or
// a proof passed to RotateWithProof, authenticates the rotation authority.
//
// If the store was initialized before, batches interrupted by a crash are
// reconciled.
func NewService(db bridge.CacheableKVStore, calls *batch.Router, auth x.Authenticator, logger log.Logger) (*Service, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	reg := registry.NewController()
	verifier := proof.NewVerifier(reg)
	executor := batch.NewExecutor(verifier, calls)

	router := NewRouter()
	registry.RegisterRoutes(router, x.ChainAuth(auth, proof.Authenticate{}), reg)
	batch.RegisterRoutes(router, executor)

	chainID, err := loadChainID(db)
	if err != nil {
		return nil, err
	}

	s := &Service{
		db:       db,
		logger:   logger.With("module", "bridge"),
		chainID:  chainID,
		registry: reg,
		verifier: verifier,
		executor: executor,
		router:   router,
	}
	if chainID != "" {
		ids, err := s.executor.Reconcile(s.context(nil), db)
		if err != nil {
			return nil, errors.Wrap(err, "reconcile")
		}
		if len(ids) != 0 {
			s.logger.Info("interrupted batches reconciled", "count", len(ids))
		}
		s.reconciled = ids
	}
	return s, nil
}

// ChainID returns the chain id, or an empty string if the chain was not
// initialized yet.
func (s *Service) ChainID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chainID
}

// InitChain stores the chain id and initializes all extensions from the
// genesis application state. A chain can be initialized only once.
func (s *Service) InitChain(ctx bridge.Context, gen *Genesis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %q already initialized", s.chainID)
	}
	cache := s.db.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	ctx = s.withLogger(ctx)
	if !bridge.HasChainID(ctx) {
		ctx = bridge.WithChainID(ctx, gen.ChainID)
	} else if id := bridge.GetChainID(ctx); id != gen.ChainID {
		cache.Discard()
		return errors.Wrapf(errors.ErrInput, "context chain id %q does not match genesis", id)
	}
	inits := ChainInitializers(
		&registry.Initializer{Ctrl: s.registry},
		&proof.Initializer{},
		&batch.Initializer{},
	)
	if err := inits.FromGenesis(ctx, gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	s.chainID = gen.ChainID
	s.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// Check runs the checks of the handler of given message. The store is not
// modified.
func (s *Service) Check(ctx bridge.Context, msg bridge.Msg) (res *bridge.CheckResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initialized(); err != nil {
		return nil, err
	}
	cache := s.db.CacheWrap()
	defer cache.Discard()
	defer errors.Recover(&err)
	return s.router.Handler(msg.Path()).Check(s.context(ctx), cache, msg)
}

// Deliver processes given message. All changes are written only if the
// handler succeeds.
func (s *Service) Deliver(ctx bridge.Context, msg bridge.Msg) (*bridge.DeliverResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deliver(ctx, msg)
}

func (s *Service) deliver(ctx bridge.Context, msg bridge.Msg) (res *bridge.DeliverResult, err error) {
	if err := s.initialized(); err != nil {
		return nil, err
	}
	cache := s.db.CacheWrap()
	defer func() {
		if err != nil {
			cache.Discard()
		}
	}()
	defer errors.Recover(&err)

	res, err = s.router.Handler(msg.Path()).Deliver(s.context(ctx), cache, msg)
	if err != nil {
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	return res, nil
}

// Rotate registers given signer set as the current one. The context must
// authenticate the rotation authority.
func (s *Service) Rotate(ctx bridge.Context, set *signers.WeightedSignerSet) (uint64, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotate(ctx, set)
}

// RotateWithProof registers given signer set as the current one. The proof
// must be signed by the current signer set over the registry.RotationDigest
// of the new set. Such a proof authenticates proof.CurrentSignersCondition,
// which must be the configured rotation authority.
func (s *Service) RotateWithProof(ctx bridge.Context, set *signers.WeightedSignerSet, p *proof.Proof) (uint64, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initialized(); err != nil {
		return 0, nil, err
	}
	digest, err := registry.RotationDigest(set)
	if err != nil {
		return 0, nil, errors.Wrap(err, "invalid message")
	}
	ctx = s.context(ctx)
	res, err := s.verifier.ValidateProof(ctx, s.db, digest, p)
	if err != nil {
		return 0, nil, err
	}
	return s.rotate(proof.WithResult(ctx, res), set)
}

func (s *Service) rotate(ctx bridge.Context, set *signers.WeightedSignerSet) (uint64, []byte, error) {
	res, err := s.deliver(ctx, &registry.RotateSignersMsg{SignerSet: set})
	if err != nil {
		return 0, nil, err
	}
	epoch, err := s.registry.CurrentEpoch(s.db)
	if err != nil {
		return 0, nil, err
	}
	return epoch, res.Data, nil
}

// ValidateProof checks that given proof authorizes given data digest.
func (s *Service) ValidateProof(ctx bridge.Context, dataDigest []byte, p *proof.Proof) (*proof.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initialized(); err != nil {
		return nil, err
	}
	return s.verifier.ValidateProof(s.context(ctx), s.db, dataDigest, p)
}

// ExecuteBatch runs the calls of given batch, exactly once.
//
// The batch is executed directly on the store, so that the executing mark
// is persisted before any call runs.
func (s *Service) ExecuteBatch(ctx bridge.Context, msg *batch.ExecuteBatchMsg) (*batch.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initialized(); err != nil {
		return nil, err
	}
	return s.executor.Execute(s.context(ctx), s.db, msg)
}

// Reconcile removes the executing marks of interrupted batches and returns
// their ids. Batches reconciled when the service was created are returned
// by the first call as well.
func (s *Service) Reconcile(ctx bridge.Context) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initialized(); err != nil {
		return nil, err
	}
	ids, err := s.executor.Reconcile(s.context(ctx), s.db)
	if err != nil {
		return nil, err
	}
	ids = append(s.reconciled, ids...)
	s.reconciled = nil
	return ids, nil
}

// CurrentEpoch returns the epoch of the current signer set.
func (s *Service) CurrentEpoch() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.CurrentEpoch(s.db)
}

// EpochOf returns the epoch the signer set with given digest was most
// recently registered at.
func (s *Service) EpochOf(digest []byte) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.EpochOf(s.db, digest)
}

// IsAcceptable returns true if the signer set of given epoch is accepted in
// proofs.
func (s *Service) IsAcceptable(epoch uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.IsAcceptable(s.db, epoch)
}

// History returns all registered epochs.
func (s *Service) History() ([]*registry.EpochRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.History(s.db)
}

// Batch returns the record of given batch.
func (s *Service) Batch(batchID []byte) (*batch.BatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.executor.Record(s.db, batchID)
}

func (s *Service) initialized() error {
	if s.chainID == "" {
		return errors.Wrap(errors.ErrState, "chain not initialized")
	}
	return nil
}

func (s *Service) withLogger(ctx bridge.Context) bridge.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return bridge.WithLogger(ctx, s.logger)
}

// context returns ctx extended with the chain id and the logger.
func (s *Service) context(ctx bridge.Context) bridge.Context {
	ctx = s.withLogger(ctx)
	if s.chainID != "" && !bridge.HasChainID(ctx) {
		ctx = bridge.WithChainID(ctx, s.chainID)
	}
	return ctx
}
