package vault

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Summary is a read model of the vault and its balances.
type Summary struct {
	Address         common.Address `json:"address"`
	Phase           Phase          `json:"phase"`
	Round           uint64         `json:"round"`
	Rate            ExchangeRate   `json:"rate"`
	MinimumDeposit  *uint256.Int   `json:"minimumDeposit"`
	Paused          bool           `json:"paused"`
	Version         uint64         `json:"version"`
	PauseCount      uint64         `json:"pauseCount"`
	BaseAsset       common.Address `json:"baseAsset"`
	ShareUnit       common.Address `json:"shareUnit"`
	Whitelist       common.Address `json:"whitelist"`
	SecurityManager common.Address `json:"securityManager"`
	BaseReserve     *uint256.Int   `json:"baseReserve"`
	Float           *uint256.Int   `json:"float"`
	ShareSupply     *uint256.Int   `json:"shareSupply"`
}

// Summarize collects the current Summary.
func (v *Vault) Summarize() (*Summary, error) {
	base, err := v.baseAsset()
	if err != nil {
		return nil, err
	}
	shares, err := v.shares()
	if err != nil {
		return nil, err
	}
	return &Summary{
		Address:         v.Address(),
		Phase:           v.CurrentPhase(),
		Round:           v.Round(),
		Rate:            v.CurrentExchangeRate(),
		MinimumDeposit:  v.MinimumDeposit(),
		Paused:          v.Paused(),
		Version:         v.Version(),
		PauseCount:      v.PauseCount(),
		BaseAsset:       v.BaseAssetAddress(),
		ShareUnit:       v.ShareUnitAddress(),
		Whitelist:       v.WhitelistAddress(),
		SecurityManager: v.SecurityManager(),
		BaseReserve:     base.BalanceOf(v.Address()),
		Float:           shares.BalanceOf(v.Address()),
		ShareSupply:     shares.TotalSupply(),
	}, nil
}
