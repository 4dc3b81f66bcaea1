package contract

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/patagonfinance/vault-service/log"
	"github.com/patagonfinance/vault-service/state"
)

// Base holds what every contract shares: its address, the ledger state and a logger.
type Base struct {
	env     *Env
	address common.Address
	kind    string
	logger  *log.Logger
}

// NewBase creates the Base of a contract of the given kind living at addr.
func NewBase(env *Env, kind string, addr common.Address) *Base {
	return &Base{
		env:     env,
		address: addr,
		kind:    kind,
		logger:  log.WithFields("contract", kind, "address", addr.Hex()),
	}
}

// Address returns the address of the contract.
func (b *Base) Address() common.Address {
	return b.address
}

// Kind returns the kind of the contract, e.g. "vault".
func (b *Base) Kind() string {
	return b.kind
}

// Env returns the environment the contract runs in.
func (b *Base) Env() *Env {
	return b.env
}

// State returns the ledger state.
func (b *Base) State() *state.StateDB {
	return b.env.State
}

// Logger returns the contract logger.
func (b *Base) Logger() *log.Logger {
	return b.logger
}

// Emit records an event emitted by the contract.
func (b *Base) Emit(ev state.Event) {
	b.env.State.AddLog(b.address, ev)
}

// Call runs fn as a call frame: every change made by fn, including the logs it
// emits, is reverted when fn returns an error.
func (b *Base) Call(fn func() error) error {
	id := b.env.State.Snapshot()
	if err := fn(); err != nil {
		b.env.State.RevertToSnapshot(id)
		return err
	}
	return nil
}
