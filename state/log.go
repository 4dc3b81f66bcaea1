package state

import "github.com/ethereum/go-ethereum/common"

// Event is the payload of a log emitted by a contract.
type Event interface {
	EventName() string
}

// Log is an event emitted during an operation. Logs of a reverted call frame are dropped.
type Log struct {
	Address common.Address
	Event   Event
	Index   uint
}
