package contract

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/state"
)

var slotPaused = state.Slot("pausable.paused")

// Paused reports whether the contract is paused.
func (b *Base) Paused() bool {
	return b.env.State.GetBool(b.address, slotPaused)
}

// WhenNotPaused fails if the contract is paused.
func (b *Base) WhenNotPaused() error {
	if b.Paused() {
		return gerror.ErrPaused
	}
	return nil
}

// SetPaused switches the pause flag and emits Paused or Unpaused. Pausing a
// paused contract, or unpausing a running one, fails.
func (b *Base) SetPaused(account common.Address, paused bool) error {
	if paused {
		if b.Paused() {
			return gerror.ErrPaused
		}
		b.env.State.SetBool(b.address, slotPaused, true)
		b.Emit(Paused{Account: account})
		return nil
	}
	if !b.Paused() {
		return gerror.ErrNotPaused
	}
	b.env.State.SetBool(b.address, slotPaused, false)
	b.Emit(Unpaused{Account: account})
	return nil
}
