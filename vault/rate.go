package vault

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/patagonfinance/vault-service/gerror"
)

// ExchangeRate is the ratio of shares to base asset: VaultToken shares are
// worth BaseToken units of base asset.
type ExchangeRate struct {
	VaultToken *uint256.Int `json:"vaultToken"`
	BaseToken  *uint256.Int `json:"baseToken"`
}

// Parity is the 1:1 rate a vault starts with.
func Parity() ExchangeRate {
	return ExchangeRate{VaultToken: uint256.NewInt(1), BaseToken: uint256.NewInt(1)}
}

// NewExchangeRate is a shorthand for small rates.
func NewExchangeRate(vaultToken, baseToken uint64) ExchangeRate {
	return ExchangeRate{VaultToken: uint256.NewInt(vaultToken), BaseToken: uint256.NewInt(baseToken)}
}

// Validate fails unless both sides of the rate are positive.
func (r ExchangeRate) Validate() error {
	if r.VaultToken == nil || r.BaseToken == nil || r.VaultToken.IsZero() || r.BaseToken.IsZero() {
		return gerror.ErrZeroAmountArgument
	}
	return nil
}

// ToShares converts an amount of base asset to shares, rounding down.
func (r ExchangeRate) ToShares(base *uint256.Int) (*uint256.Int, error) {
	shares, overflow := new(uint256.Int).MulDivOverflow(base, r.VaultToken, r.BaseToken)
	if overflow {
		return nil, gerror.ErrConversionOverflow
	}
	return shares, nil
}

// ToBase converts an amount of shares to base asset, rounding down.
func (r ExchangeRate) ToBase(shares *uint256.Int) (*uint256.Int, error) {
	base, overflow := new(uint256.Int).MulDivOverflow(shares, r.BaseToken, r.VaultToken)
	if overflow {
		return nil, gerror.ErrConversionOverflow
	}
	return base, nil
}

func (r ExchangeRate) String() string {
	return fmt.Sprintf("%s:%s", r.VaultToken.Dec(), r.BaseToken.Dec())
}
