package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/state"
)

var (
	slotBalances    = state.Slot("erc20.balances")
	slotAllowances  = state.Slot("erc20.allowances")
	slotTotalSupply = state.Slot("erc20.totalSupply")
)

// MaxAllowance is treated as an infinite allowance that is never spent.
var MaxAllowance = new(uint256.Int).SetAllOne()

// Ledger is the balance and allowance bookkeeping of a fungible token, kept in
// the storage of the contract owning it.
type Ledger struct {
	base *contract.Base
}

// NewLedger creates the ledger of the token contract base.
func NewLedger(base *contract.Base) Ledger {
	return Ledger{base: base}
}

// TotalSupply returns the amount of tokens in existence.
func (l Ledger) TotalSupply() *uint256.Int {
	return l.base.GetUint(slotTotalSupply)
}

// BalanceOf returns the amount of tokens owned by account.
func (l Ledger) BalanceOf(account common.Address) *uint256.Int {
	return l.base.GetUint(balanceSlot(account))
}

// Allowance returns the remaining amount spender may move on behalf of owner.
func (l Ledger) Allowance(owner, spender common.Address) *uint256.Int {
	return l.base.GetUint(allowanceSlot(owner, spender))
}

// Move moves amount from one account to another and emits Transfer.
func (l Ledger) Move(from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return gerror.ErrTransferZeroAddress
	}
	fromBalance := l.BalanceOf(from)
	if fromBalance.Lt(amount) {
		return gerror.ErrTransferExceedsBalance
	}
	l.base.SetUint(balanceSlot(from), new(uint256.Int).Sub(fromBalance, amount))
	// supply bounds every balance, the addition cannot overflow
	l.base.SetUint(balanceSlot(to), new(uint256.Int).Add(l.BalanceOf(to), amount))
	l.base.Emit(Transfer{From: from, To: to, Value: amount.Clone()})
	return nil
}

// Mint creates amount tokens for to.
func (l Ledger) Mint(to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return gerror.ErrMintZeroAddress
	}
	supply, overflow := new(uint256.Int).AddOverflow(l.TotalSupply(), amount)
	if overflow {
		return gerror.ErrSupplyOverflow
	}
	l.base.SetUint(slotTotalSupply, supply)
	l.base.SetUint(balanceSlot(to), new(uint256.Int).Add(l.BalanceOf(to), amount))
	l.base.Emit(Transfer{From: common.Address{}, To: to, Value: amount.Clone()})
	return nil
}

// Burn destroys amount tokens of from.
func (l Ledger) Burn(from common.Address, amount *uint256.Int) error {
	balance := l.BalanceOf(from)
	if balance.Lt(amount) {
		return gerror.ErrBurnExceedsBalance
	}
	l.base.SetUint(balanceSlot(from), new(uint256.Int).Sub(balance, amount))
	l.base.SetUint(slotTotalSupply, new(uint256.Int).Sub(l.TotalSupply(), amount))
	l.base.Emit(Transfer{From: from, To: common.Address{}, Value: amount.Clone()})
	return nil
}

// Approve sets the allowance of spender over the tokens of owner and emits Approval.
func (l Ledger) Approve(owner, spender common.Address, amount *uint256.Int) error {
	if spender == (common.Address{}) {
		return gerror.ErrApproveZeroAddress
	}
	l.base.SetUint(allowanceSlot(owner, spender), amount)
	l.base.Emit(Approval{Owner: owner, Spender: spender, Value: amount.Clone()})
	return nil
}

// SpendAllowance decreases the allowance of spender by amount. MaxAllowance is never spent.
func (l Ledger) SpendAllowance(owner, spender common.Address, amount *uint256.Int) error {
	current := l.Allowance(owner, spender)
	if current.Eq(MaxAllowance) {
		return nil
	}
	if current.Lt(amount) {
		return gerror.ErrInsufficientAllowance
	}
	return l.Approve(owner, spender, new(uint256.Int).Sub(current, amount))
}

// IncreaseAllowance atomically increases the allowance of spender.
func (l Ledger) IncreaseAllowance(owner, spender common.Address, added *uint256.Int) error {
	sum, overflow := new(uint256.Int).AddOverflow(l.Allowance(owner, spender), added)
	if overflow {
		return gerror.ErrAllowanceOverflow
	}
	return l.Approve(owner, spender, sum)
}

// DecreaseAllowance atomically decreases the allowance of spender.
func (l Ledger) DecreaseAllowance(owner, spender common.Address, subtracted *uint256.Int) error {
	current := l.Allowance(owner, spender)
	if current.Lt(subtracted) {
		return gerror.ErrDecreasedAllowanceBelowZero
	}
	return l.Approve(owner, spender, new(uint256.Int).Sub(current, subtracted))
}

func balanceSlot(account common.Address) common.Hash {
	return state.MapSlot(slotBalances, account.Bytes())
}

func allowanceSlot(owner, spender common.Address) common.Hash {
	return state.MapSlot(state.MapSlot(slotAllowances, owner.Bytes()), spender.Bytes())
}
