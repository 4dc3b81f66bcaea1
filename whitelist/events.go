package whitelist

import "github.com/ethereum/go-ethereum/common"

type WhitelistOnOffChanged struct {
	Caller common.Address `json:"caller"`
	On     bool           `json:"on"`
}

func (WhitelistOnOffChanged) EventName() string { return "WhitelistOnOffChanged" }

type WhitelistAddedRemoved struct {
	Caller  common.Address `json:"caller"`
	Account common.Address `json:"account"`
	Added   bool           `json:"added"`
}

func (WhitelistAddedRemoved) EventName() string { return "WhitelistAddedRemoved" }
