package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/log"
	"github.com/patagonfinance/vault-service/state"
	"github.com/patagonfinance/vault-service/utils"
	"github.com/patagonfinance/vault-service/vault"
	"github.com/pkg/errors"
)

// Storage persists committed operations and reads the state back at startup.
type Storage interface {
	StoreOperation(ctx context.Context, op *Operation) error
	LoadState(ctx context.Context) ([]state.StorageEntry, error)
}

// Sink is notified of every operation once it is persisted and committed.
// Sinks run while the host lock is held and must not call back into the host.
type Sink interface {
	OnCommit(ctx context.Context, op *Operation, summary *vault.Summary)
}

// RejectSink is implemented by sinks that also want to see failed operations.
type RejectSink interface {
	OnReject(ctx context.Context, name string, err error, duration time.Duration)
}

// Host owns the ledger state and runs operations against it one at a time.
type Host struct {
	mu           sync.Mutex
	env          *contract.Env
	contracts    *Contracts
	storage      Storage
	sinks        []Sink
	timeProvider utils.TimeProvider
}

// Option configures a Host.
type Option func(h *Host)

// WithStorage persists every committed operation to s.
func WithStorage(s Storage) Option {
	return func(h *Host) {
		h.storage = s
	}
}

// WithSinks adds sinks notified after each commit.
func WithSinks(sinks ...Sink) Option {
	return func(h *Host) {
		h.sinks = append(h.sinks, sinks...)
	}
}

// WithTimeProvider replaces the clock used to stamp operations.
func WithTimeProvider(tp utils.TimeProvider) Option {
	return func(h *Host) {
		h.timeProvider = tp
	}
}

func newHost(opts ...Option) *Host {
	h := &Host{
		env:          contract.NewEnv(),
		timeProvider: utils.NewTimeProviderSystemLocalTime(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Addresses returns the addresses of the deployed contracts.
func (h *Host) Addresses() Addresses {
	return h.contracts.Addresses()
}

// View runs fn against the current state. fn must not mutate it.
func (h *Host) View(fn func(c *Contracts) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.contracts)
}

// Execute runs fn as a single atomic operation on behalf of caller. When fn fails
// or the operation cannot be persisted every change is reverted and nothing is
// dispatched to the sinks.
func (h *Host) Execute(ctx context.Context, name string, caller common.Address, fn func(c *Contracts) error) (*Operation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.execute(ctx, name, caller, func() error { return fn(h.contracts) })
}

func (h *Host) execute(ctx context.Context, name string, caller common.Address, fn func() error) (*Operation, error) {
	logger := log.WithFields("operation", name, "caller", caller.Hex())
	start := h.timeProvider.Now()
	st := h.env.State
	snapshot := st.Snapshot()
	if err := fn(); err != nil {
		st.RevertToSnapshot(snapshot)
		logger.Debugf("operation rejected: %v", err)
		h.reject(ctx, name, err, h.timeProvider.Now().Sub(start))
		return nil, err
	}

	pending := st.Pending()
	events, err := newEventRecords(pending.Logs)
	if err != nil {
		st.RevertToSnapshot(snapshot)
		return nil, err
	}
	op := &Operation{
		ID:          uuid.New(),
		Name:        name,
		Caller:      caller,
		Events:      events,
		Changes:     pending.Storage,
		CommittedAt: h.timeProvider.Now(),
	}
	op.Duration = op.CommittedAt.Sub(start)
	for _, e := range op.Events {
		e.OperationID = op.ID
		e.CommittedAt = op.CommittedAt
	}

	if h.storage != nil {
		if err := h.storage.StoreOperation(ctx, op); err != nil {
			st.RevertToSnapshot(snapshot)
			logger.Errorf("error storing operation: %v", err)
			err = errors.Wrap(err, "store operation")
			h.reject(ctx, name, err, h.timeProvider.Now().Sub(start))
			return nil, err
		}
	}
	st.Commit()
	logger.Infof("operation committed: id[%v] events[%v] changes[%v] duration[%v]", op.ID, len(op.Events), len(op.Changes), op.Duration)

	h.dispatch(ctx, op)
	return op, nil
}

func (h *Host) dispatch(ctx context.Context, op *Operation) {
	if len(h.sinks) == 0 {
		return
	}
	summary, err := h.contracts.Vault.Summarize()
	if err != nil {
		log.Errorf("error summarizing vault after operation %v: %v", op.ID, err)
		return
	}
	for _, s := range h.sinks {
		s.OnCommit(ctx, op, summary)
	}
}

func (h *Host) reject(ctx context.Context, name string, err error, duration time.Duration) {
	for _, s := range h.sinks {
		if r, ok := s.(RejectSink); ok {
			r.OnReject(ctx, name, err, duration)
		}
	}
}
