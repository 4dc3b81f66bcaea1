package depositbridge

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// DepositExecuted is emitted for every finalized deposit.
type DepositExecuted struct {
	ExternalRef string         `json:"externalRef"`
	Recipient   common.Address `json:"recipient"`
	Amount      *uint256.Int   `json:"amount"`
}

func (DepositExecuted) EventName() string { return "DepositExecuted" }
