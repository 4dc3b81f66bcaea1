package contract

import (
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/state"
)

var (
	slotInitialized = state.Slot("initializable.initialized")
	slotVersion     = state.Slot("upgradeable.version")
)

// Initialized reports whether the contract state has been initialized.
func (b *Base) Initialized() bool {
	return b.env.State.GetBool(b.address, slotInitialized)
}

// Initializer marks the contract initialized at version 1. It fails the second time.
func (b *Base) Initializer() error {
	if b.Initialized() {
		return gerror.ErrAlreadyInitialized
	}
	b.env.State.SetBool(b.address, slotInitialized, true)
	b.env.State.SetUint64(b.address, slotVersion, 1)
	b.Emit(Initialized{Version: 1})
	return nil
}

// Version returns the version of the logic the state was last migrated to.
func (b *Base) Version() uint64 {
	return b.env.State.GetUint64(b.address, slotVersion)
}

// RequireVersion fails for operations introduced after the current version.
func (b *Base) RequireVersion(min uint64) error {
	if b.Version() < min {
		return gerror.ErrNotSupported
	}
	return nil
}

// Upgrade runs migrate once for every version after the current one up to
// target, then records target as the current version. Migrations may only add
// slots, existing words are carried over untouched.
func (b *Base) Upgrade(target uint64, migrate func(version uint64) error) error {
	if !b.Initialized() {
		return gerror.ErrNotInitialized
	}
	current := b.Version()
	if target <= current {
		return gerror.ErrInvalidVersion
	}
	for v := current + 1; v <= target; v++ {
		if migrate == nil {
			continue
		}
		if err := migrate(v); err != nil {
			return err
		}
	}
	b.env.State.SetUint64(b.address, slotVersion, target)
	b.Emit(Upgraded{From: current, To: target})
	b.logger.Infof("upgraded from version %d to %d", current, target)
	return nil
}
