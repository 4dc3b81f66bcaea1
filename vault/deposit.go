package vault

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/security"
)

// Deposit takes amount of base asset from the caller and credits the caller with shares.
func (v *Vault) Deposit(caller common.Address, amount *uint256.Int) error {
	return v.Call(func() error {
		return v.deposit(caller, caller, amount)
	})
}

// DepositFor takes amount of base asset from the caller and credits recipient
// with shares. Requires DEPOSIT_MANAGER.
func (v *Vault) DepositFor(caller common.Address, amount *uint256.Int, recipient common.Address) error {
	return v.Call(func() error {
		if err := v.OnlyRole(security.RoleDepositManager, caller); err != nil {
			return err
		}
		return v.deposit(caller, recipient, amount)
	})
}

func (v *Vault) deposit(payer, recipient common.Address, amount *uint256.Int) error {
	if err := v.WhenNotPaused(); err != nil {
		return err
	}
	if err := v.requirePhase(PhaseDeposit); err != nil {
		return err
	}
	if amount.IsZero() {
		return gerror.ErrZeroAmountArgument
	}
	if amount.Lt(v.MinimumDeposit()) {
		return gerror.ErrDepositBelowMinimum
	}
	if recipient == (common.Address{}) {
		return gerror.ErrZeroAddressArgument
	}
	if err := v.checkWhitelist(payer); err != nil {
		return err
	}
	if recipient != payer {
		if err := v.checkWhitelist(recipient); err != nil {
			return err
		}
	}
	// shares credited to the vault are redeemed on arrival, which only the
	// withdraw phase allows
	if recipient == v.Address() {
		return gerror.ErrActionOutOfPhase
	}

	shares, err := v.ConvertBaseToShare(amount)
	if err != nil {
		return err
	}
	base, err := v.baseAsset()
	if err != nil {
		return err
	}
	ok, err := base.TransferFrom(v.Address(), payer, v.Address(), amount)
	if err != nil {
		return err
	}
	if !ok {
		return gerror.ErrTokenTransferFailed
	}
	if err := v.credit(recipient, shares); err != nil {
		return err
	}

	v.Emit(Deposit{Recipient: recipient, Payer: payer, AmountIn: amount.Clone(), SharesOut: shares})
	v.Logger().Debugf("deposit of %s by %s credited %s shares to %s", amount, payer.Hex(), shares, recipient.Hex())
	return nil
}

// credit hands shares to recipient out of the float, minting only what the float lacks.
func (v *Vault) credit(recipient common.Address, amount *uint256.Int) error {
	shares, err := v.shares()
	if err != nil {
		return err
	}
	fromFloat := shares.BalanceOf(v.Address())
	if fromFloat.Gt(amount) {
		fromFloat = amount.Clone()
	}
	if !fromFloat.IsZero() {
		ok, err := shares.VaultTransfer(v.Address(), v.Address(), recipient, fromFloat)
		if err != nil {
			return err
		}
		if !ok {
			return gerror.ErrTokenTransferFailed
		}
	}
	shortfall := new(uint256.Int).Sub(amount, fromFloat)
	if shortfall.IsZero() {
		return nil
	}
	return shares.Mint(v.Address(), recipient, shortfall)
}
