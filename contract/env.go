package contract

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/patagonfinance/vault-service/state"
)

// Env is the execution environment shared by every contract of a ledger.
type Env struct {
	State     *state.StateDB
	Directory *Directory
}

// NewEnv creates an Env with empty state
func NewEnv() *Env {
	return &Env{
		State:     state.New(),
		Directory: NewDirectory(),
	}
}

// Directory resolves contract addresses to their implementation.
type Directory struct {
	mu        sync.RWMutex
	contracts map[common.Address]interface{}
	nonces    map[common.Address]uint64
}

// NewDirectory creates an empty Directory
func NewDirectory() *Directory {
	return &Directory{
		contracts: make(map[common.Address]interface{}),
		nonces:    make(map[common.Address]uint64),
	}
}

// NextAddress derives the address of the next contract deployed by deployer.
// Addresses follow the CREATE scheme so a deployment replayed with the same
// deployer lands on the same addresses.
func (d *Directory) NextAddress(deployer common.Address) common.Address {
	d.mu.Lock()
	defer d.mu.Unlock()
	nonce := d.nonces[deployer]
	d.nonces[deployer] = nonce + 1
	return crypto.CreateAddress(deployer, nonce)
}

// Register binds c to addr.
func (d *Directory) Register(addr common.Address, c interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.contracts[addr] = c
}

// Lookup returns the contract bound to addr.
func (d *Directory) Lookup(addr common.Address) (interface{}, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.contracts[addr]
	return c, ok
}

// Resolve returns the contract bound to addr if it implements T.
func Resolve[T any](d *Directory, addr common.Address) (T, bool) {
	var zero T
	c, ok := d.Lookup(addr)
	if !ok {
		return zero, false
	}
	t, ok := c.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
