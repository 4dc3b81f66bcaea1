package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Asset is the fungible token surface custodied by the vault and the deposit
// bridge. Transfers can fail in two ways: by returning an error, or by
// returning false. Callers treat both as failure.
type Asset interface {
	Address() common.Address
	TotalSupply() *uint256.Int
	BalanceOf(account common.Address) *uint256.Int
	Allowance(owner, spender common.Address) *uint256.Int
	Transfer(caller, to common.Address, amount *uint256.Int) (bool, error)
	TransferFrom(caller, from, to common.Address, amount *uint256.Int) (bool, error)
	Approve(caller, spender common.Address, amount *uint256.Int) (bool, error)
}
