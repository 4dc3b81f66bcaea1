package vault

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/security"
	"github.com/patagonfinance/vault-service/state"
)

const (
	// VersionPauseCount adds the pause counter and SetExchangeRate.
	VersionPauseCount uint64 = 2
	// VersionEmptyVault adds EmptyVault and retires SetExchangeRate.
	VersionEmptyVault uint64 = 3
	// LatestVersion is the newest logic version a vault can be upgraded to.
	LatestVersion = VersionEmptyVault
)

var slotPauseCount = state.Slot("vault.v2.pauseCount")

// Upgrade migrates the vault state to version. Requires UPGRADER.
func (v *Vault) Upgrade(caller common.Address, version uint64) error {
	return v.Call(func() error {
		if err := v.OnlyRole(security.RoleUpgrader, caller); err != nil {
			return err
		}
		if version > LatestVersion {
			return gerror.ErrInvalidVersion
		}
		return v.Base.Upgrade(version, v.migrate)
	})
}

func (v *Vault) migrate(version uint64) error {
	switch version {
	case VersionPauseCount:
		v.SetUint64(slotPauseCount, 0)
	case VersionEmptyVault:
	default:
		return gerror.ErrInvalidVersion
	}
	return nil
}

// Pause pauses the vault, counting pauses from version 2 on. Requires PAUSER.
func (v *Vault) Pause(caller common.Address) error {
	return v.Call(func() error {
		if err := v.Managed.Pause(caller); err != nil {
			return err
		}
		if v.Version() >= VersionPauseCount {
			v.SetUint64(slotPauseCount, v.PauseCount()+1)
		}
		return nil
	})
}

// PauseCount returns how many times the vault was paused since version 2.
func (v *Vault) PauseCount() uint64 {
	return v.GetUint64(slotPauseCount)
}

// SetExchangeRate replaces the rate without changing phase. Only version 2
// carries it. Requires LIFECYCLE_MANAGER.
func (v *Vault) SetExchangeRate(caller common.Address, rate ExchangeRate) error {
	return v.Call(func() error {
		if v.Version() != VersionPauseCount {
			return gerror.ErrNotSupported
		}
		if err := v.OnlyRole(security.RoleLifecycleManager, caller); err != nil {
			return err
		}
		if err := rate.Validate(); err != nil {
			return err
		}
		v.setRate(rate)
		v.Emit(ExchangeRateChanged{Rate: rate})
		return nil
	})
}

// EmptyVault sends the whole base asset balance of the vault to the caller.
// Requires ADMIN and version 3.
func (v *Vault) EmptyVault(caller common.Address) error {
	return v.Call(func() error {
		if err := v.RequireVersion(VersionEmptyVault); err != nil {
			return err
		}
		if err := v.OnlyRole(security.RoleAdmin, caller); err != nil {
			return err
		}
		base, err := v.baseAsset()
		if err != nil {
			return err
		}
		return v.sendBase(caller, base.BalanceOf(v.Address()))
	})
}
