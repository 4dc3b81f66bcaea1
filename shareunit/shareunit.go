package shareunit

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/security"
	"github.com/patagonfinance/vault-service/state"
	"github.com/patagonfinance/vault-service/token"
)

// Kind is the contract kind of a ShareUnit
const Kind = "shareunit"

var slotVault = state.Slot("shareunit.vault")

// Vault is the view of the bound vault used by the share unit.
type Vault interface {
	Address() common.Address
	ShareUnitAddress() common.Address
	WithdrawDirect(caller common.Address, amount *uint256.Int, from common.Address) error
}

// ShareUnit is the claim token issued by a vault. Its holders can only send
// it to the bound vault, and doing so redeems the shares for base asset.
type ShareUnit struct {
	*contract.Base
	security.Managed
	ledger token.Ledger
}

// At attaches a ShareUnit to addr and registers it in the directory.
func At(env *contract.Env, addr common.Address) *ShareUnit {
	base := contract.NewBase(env, Kind, addr)
	s := &ShareUnit{
		Base:    base,
		Managed: security.NewManaged(base),
		ledger:  token.NewLedger(base),
	}
	env.Directory.Register(addr, s)
	return s
}

// Deploy deploys a ShareUnit governed by registry.
func Deploy(env *contract.Env, deployer, registry common.Address) (*ShareUnit, error) {
	s := At(env, env.Directory.NextAddress(deployer))
	if err := s.Initialize(registry); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize binds the registry. It can only run once.
func (s *ShareUnit) Initialize(registry common.Address) error {
	return s.Call(func() error {
		if err := s.Initializer(); err != nil {
			return err
		}
		return s.InitManaged(registry)
	})
}

func (s *ShareUnit) TotalSupply() *uint256.Int {
	return s.ledger.TotalSupply()
}

func (s *ShareUnit) BalanceOf(account common.Address) *uint256.Int {
	return s.ledger.BalanceOf(account)
}

func (s *ShareUnit) Allowance(owner, spender common.Address) *uint256.Int {
	return s.ledger.Allowance(owner, spender)
}

// VaultAddress returns the bound vault, or the zero address.
func (s *ShareUnit) VaultAddress() common.Address {
	return s.GetAddress(slotVault)
}

// SetVaultAddress binds the vault. Requires ADMIN and can only succeed once.
// The vault must be a vault created for this share unit.
func (s *ShareUnit) SetVaultAddress(caller, vault common.Address) error {
	return s.Call(func() error {
		if err := s.OnlyRole(security.RoleAdmin, caller); err != nil {
			return err
		}
		if s.VaultAddress() != (common.Address{}) {
			return gerror.ErrVaultAlreadySet
		}
		v, ok := contract.Resolve[Vault](s.Env().Directory, vault)
		if vault == (common.Address{}) || !ok || v.ShareUnitAddress() != s.Address() {
			return gerror.ErrInvalidVaultAddress
		}
		s.SetAddress(slotVault, vault)
		s.Emit(VaultAddressSet{Vault: vault})
		return nil
	})
}

// Transfer sends amount of the caller's shares to the bound vault, redeeming them.
func (s *ShareUnit) Transfer(caller, to common.Address, amount *uint256.Int) (bool, error) {
	err := s.Call(func() error {
		vault, err := s.restrict(caller, to, amount)
		if err != nil {
			return err
		}
		return s.redeem(vault, caller, amount)
	})
	return err == nil, err
}

// TransferFrom sends amount of from's shares to the bound vault spending the caller's allowance.
func (s *ShareUnit) TransferFrom(caller, from, to common.Address, amount *uint256.Int) (bool, error) {
	err := s.Call(func() error {
		vault, err := s.restrict(from, to, amount)
		if err != nil {
			return err
		}
		if err := s.ledger.SpendAllowance(from, caller, amount); err != nil {
			return err
		}
		return s.redeem(vault, from, amount)
	})
	return err == nil, err
}

// restrict returns the bound vault if it is the destination of the transfer.
func (s *ShareUnit) restrict(from, to common.Address, amount *uint256.Int) (Vault, error) {
	if err := s.WhenNotPaused(); err != nil {
		return nil, err
	}
	vault, err := s.vault()
	if err != nil {
		return nil, err
	}
	if to != vault.Address() {
		return nil, &gerror.TransferNotAllowedError{From: from, To: to, Amount: amount.Clone()}
	}
	return vault, nil
}

// redeem moves the shares before calling back into the vault, so a reentrant
// call observes the debited balance.
func (s *ShareUnit) redeem(vault Vault, from common.Address, amount *uint256.Int) error {
	if err := s.ledger.Move(from, vault.Address(), amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	return vault.WithdrawDirect(s.Address(), amount, from)
}

// VaultTransfer moves shares on behalf of the bound vault, with no destination
// restriction and no redemption callback. Unless from is the vault itself it
// spends from's allowance to the vault.
func (s *ShareUnit) VaultTransfer(caller, from, to common.Address, amount *uint256.Int) (bool, error) {
	err := s.Call(func() error {
		vault, err := s.vault()
		if err != nil {
			return err
		}
		if caller != vault.Address() {
			return gerror.ErrVaultOnly
		}
		if err := s.WhenNotPaused(); err != nil {
			return err
		}
		if from != caller {
			if err := s.ledger.SpendAllowance(from, caller, amount); err != nil {
				return err
			}
		}
		return s.ledger.Move(from, to, amount)
	})
	return err == nil, err
}

// Approve sets the allowance of spender over the caller's shares.
func (s *ShareUnit) Approve(caller, spender common.Address, amount *uint256.Int) (bool, error) {
	err := s.Call(func() error {
		if err := s.WhenNotPaused(); err != nil {
			return err
		}
		return s.ledger.Approve(caller, spender, amount)
	})
	return err == nil, err
}

func (s *ShareUnit) IncreaseAllowance(caller, spender common.Address, added *uint256.Int) (bool, error) {
	err := s.Call(func() error {
		if err := s.WhenNotPaused(); err != nil {
			return err
		}
		return s.ledger.IncreaseAllowance(caller, spender, added)
	})
	return err == nil, err
}

func (s *ShareUnit) DecreaseAllowance(caller, spender common.Address, subtracted *uint256.Int) (bool, error) {
	err := s.Call(func() error {
		if err := s.WhenNotPaused(); err != nil {
			return err
		}
		return s.ledger.DecreaseAllowance(caller, spender, subtracted)
	})
	return err == nil, err
}

// Mint creates amount shares for to. Requires TOKEN_MINTER.
func (s *ShareUnit) Mint(caller, to common.Address, amount *uint256.Int) error {
	return s.Call(func() error {
		if err := s.OnlyRole(security.RoleTokenMinter, caller); err != nil {
			return err
		}
		if err := s.WhenNotPaused(); err != nil {
			return err
		}
		return s.ledger.Mint(to, amount)
	})
}

// Burn destroys amount of the caller's own shares. Requires TOKEN_BURNER.
func (s *ShareUnit) Burn(caller common.Address, amount *uint256.Int) error {
	return s.Call(func() error {
		if err := s.OnlyRole(security.RoleTokenBurner, caller); err != nil {
			return err
		}
		if err := s.WhenNotPaused(); err != nil {
			return err
		}
		return s.ledger.Burn(caller, amount)
	})
}

// Upgrade bumps the logic version. The share unit has no migrations, its
// storage layout is unchanged across versions. Requires UPGRADER.
func (s *ShareUnit) Upgrade(caller common.Address, version uint64) error {
	return s.Call(func() error {
		if err := s.OnlyRole(security.RoleUpgrader, caller); err != nil {
			return err
		}
		return s.Base.Upgrade(version, nil)
	})
}

func (s *ShareUnit) vault() (Vault, error) {
	addr := s.VaultAddress()
	if addr == (common.Address{}) {
		return nil, gerror.ErrVaultNotSet
	}
	v, ok := contract.Resolve[Vault](s.Env().Directory, addr)
	if !ok {
		return nil, gerror.ErrVaultNotSet
	}
	return v, nil
}
