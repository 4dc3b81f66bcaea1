package vault

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// PhaseChanged is emitted on every phase transition with the rate the new phase runs at.
type PhaseChanged struct {
	Phase Phase        `json:"phase"`
	Rate  ExchangeRate `json:"rate"`
}

func (PhaseChanged) EventName() string { return "PhaseChanged" }

type Deposit struct {
	Recipient common.Address `json:"recipient"`
	Payer     common.Address `json:"payer"`
	AmountIn  *uint256.Int   `json:"amountIn"`
	SharesOut *uint256.Int   `json:"sharesOut"`
}

func (Deposit) EventName() string { return "Deposit" }

type Withdraw struct {
	Payer    common.Address `json:"payer"`
	SharesIn *uint256.Int   `json:"sharesIn"`
	BaseOut  *uint256.Int   `json:"baseOut"`
}

func (Withdraw) EventName() string { return "Withdraw" }

// ExchangeRateChanged is emitted when the rate is replaced without a phase change.
type ExchangeRateChanged struct {
	Rate ExchangeRate `json:"rate"`
}

func (ExchangeRateChanged) EventName() string { return "ExchangeRateChanged" }
