package contract

import "github.com/ethereum/go-ethereum/common"

// Paused is emitted when a contract is paused.
type Paused struct {
	Account common.Address `json:"account"`
}

func (Paused) EventName() string { return "Paused" }

// Unpaused is emitted when a contract is unpaused.
type Unpaused struct {
	Account common.Address `json:"account"`
}

func (Unpaused) EventName() string { return "Unpaused" }

// Initialized is emitted once, when a contract is initialized.
type Initialized struct {
	Version uint64 `json:"version"`
}

func (Initialized) EventName() string { return "Initialized" }

// Upgraded is emitted on every version bump.
type Upgraded struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

func (Upgraded) EventName() string { return "Upgraded" }
