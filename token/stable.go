package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/state"
)

// KindStable is the contract kind of a Stable token
const KindStable = "stable"

var (
	slotOwner            = state.Slot("stable.owner")
	slotTransfersBlocked = state.Slot("stable.transfersBlocked")
	slotDecimals         = state.Slot("stable.decimals")
)

// Stable is a plain fungible token used as the base asset. Its owner can mint,
// and can make every transfer report failure by returning false, which is how
// non reverting tokens signal an unsuccessful transfer.
type Stable struct {
	*contract.Base
	ledger Ledger
}

// AtStable attaches a Stable token to addr and registers it in the directory.
func AtStable(env *contract.Env, addr common.Address) *Stable {
	base := contract.NewBase(env, KindStable, addr)
	s := &Stable{Base: base, ledger: NewLedger(base)}
	env.Directory.Register(addr, s)
	return s
}

// DeployStable deploys a Stable token owned by deployer minting supply to it.
func DeployStable(env *contract.Env, deployer common.Address, supply *uint256.Int, decimals uint8) (*Stable, error) {
	s := AtStable(env, env.Directory.NextAddress(deployer))
	if err := s.Initialize(deployer, supply, decimals); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize sets the owner and mints the initial supply to it.
func (s *Stable) Initialize(owner common.Address, supply *uint256.Int, decimals uint8) error {
	return s.Call(func() error {
		if err := s.Initializer(); err != nil {
			return err
		}
		s.SetAddress(slotOwner, owner)
		s.SetUint64(slotDecimals, uint64(decimals))
		if supply.IsZero() {
			return nil
		}
		return s.ledger.Mint(owner, supply)
	})
}

// Owner returns the owner of the token.
func (s *Stable) Owner() common.Address {
	return s.GetAddress(slotOwner)
}

// Decimals returns the display decimals.
func (s *Stable) Decimals() uint8 {
	return uint8(s.GetUint64(slotDecimals))
}

func (s *Stable) TotalSupply() *uint256.Int {
	return s.ledger.TotalSupply()
}

func (s *Stable) BalanceOf(account common.Address) *uint256.Int {
	return s.ledger.BalanceOf(account)
}

func (s *Stable) Allowance(owner, spender common.Address) *uint256.Int {
	return s.ledger.Allowance(owner, spender)
}

// Transfer moves amount from the caller to to. It returns false without
// changing state while transfers are blocked.
func (s *Stable) Transfer(caller, to common.Address, amount *uint256.Int) (bool, error) {
	if s.GetBool(slotTransfersBlocked) {
		return false, nil
	}
	err := s.Call(func() error {
		return s.ledger.Move(caller, to, amount)
	})
	return err == nil, err
}

// TransferFrom moves amount from from to to spending the caller's allowance.
func (s *Stable) TransferFrom(caller, from, to common.Address, amount *uint256.Int) (bool, error) {
	if s.GetBool(slotTransfersBlocked) {
		return false, nil
	}
	err := s.Call(func() error {
		if err := s.ledger.SpendAllowance(from, caller, amount); err != nil {
			return err
		}
		return s.ledger.Move(from, to, amount)
	})
	return err == nil, err
}

// Approve sets the allowance of spender over the caller's tokens.
func (s *Stable) Approve(caller, spender common.Address, amount *uint256.Int) (bool, error) {
	err := s.Call(func() error {
		return s.ledger.Approve(caller, spender, amount)
	})
	return err == nil, err
}

// Mint creates amount tokens for to. Owner only.
func (s *Stable) Mint(caller, to common.Address, amount *uint256.Int) error {
	return s.Call(func() error {
		if caller != s.Owner() {
			return &gerror.UnauthorizedAccessError{Account: caller}
		}
		return s.ledger.Mint(to, amount)
	})
}

// SetTransfersBlocked makes every transfer return false while blocked is true. Owner only.
func (s *Stable) SetTransfersBlocked(caller common.Address, blocked bool) error {
	return s.Call(func() error {
		if caller != s.Owner() {
			return &gerror.UnauthorizedAccessError{Account: caller}
		}
		s.SetBool(slotTransfersBlocked, blocked)
		return nil
	})
}
