package vault

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/security"
)

// Withdraw pulls shareAmount shares from the caller into the float and pays
// out their value in base asset. The caller must have approved the vault on
// the share unit.
func (v *Vault) Withdraw(caller common.Address, shareAmount *uint256.Int) error {
	return v.Call(func() error {
		if err := v.checkWithdraw(caller, shareAmount); err != nil {
			return err
		}
		shares, err := v.shares()
		if err != nil {
			return err
		}
		ok, err := shares.VaultTransfer(v.Address(), caller, v.Address(), shareAmount)
		if err != nil {
			return err
		}
		if !ok {
			return gerror.ErrTokenTransferFailed
		}
		return v.payout(caller, shareAmount)
	})
}

// WithdrawDirect pays from for shareAmount shares that the share unit has
// already moved into the float. Only the share unit may call it.
func (v *Vault) WithdrawDirect(caller common.Address, shareAmount *uint256.Int, from common.Address) error {
	return v.Call(func() error {
		if caller != v.ShareUnitAddress() {
			return gerror.ErrVaultTokenOnly
		}
		if err := v.checkWithdraw(from, shareAmount); err != nil {
			return err
		}
		return v.payout(from, shareAmount)
	})
}

// AdminWithdraw sends amount of base asset held by the vault to the caller.
// Requires ADMIN and works while paused.
func (v *Vault) AdminWithdraw(caller common.Address, amount *uint256.Int) error {
	return v.Call(func() error {
		if err := v.OnlyRole(security.RoleAdmin, caller); err != nil {
			return err
		}
		if err := v.sendBase(caller, amount); err != nil {
			return err
		}
		v.Logger().Infof("admin withdrawal of %s base asset to %s", amount, caller.Hex())
		return nil
	})
}

func (v *Vault) checkWithdraw(account common.Address, shareAmount *uint256.Int) error {
	if err := v.WhenNotPaused(); err != nil {
		return err
	}
	if err := v.requirePhase(PhaseWithdraw); err != nil {
		return err
	}
	if shareAmount.IsZero() {
		return gerror.ErrZeroAmountArgument
	}
	return v.checkWhitelist(account)
}

func (v *Vault) payout(to common.Address, shareAmount *uint256.Int) error {
	amount, err := v.ConvertShareToBase(shareAmount)
	if err != nil {
		return err
	}
	if err := v.sendBase(to, amount); err != nil {
		return err
	}
	v.Emit(Withdraw{Payer: to, SharesIn: shareAmount.Clone(), BaseOut: amount})
	v.Logger().Debugf("withdrawal of %s shares by %s paid %s", shareAmount, to.Hex(), amount)
	return nil
}

func (v *Vault) sendBase(to common.Address, amount *uint256.Int) error {
	base, err := v.baseAsset()
	if err != nil {
		return err
	}
	ok, err := base.Transfer(v.Address(), to, amount)
	if err != nil {
		return err
	}
	if !ok {
		return gerror.ErrTokenTransferFailed
	}
	return nil
}
