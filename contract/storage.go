package contract

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Accessors scoped to the contract's own storage.

func (b *Base) GetUint(slot common.Hash) *uint256.Int {
	return b.env.State.GetUint(b.address, slot)
}

func (b *Base) SetUint(slot common.Hash, v *uint256.Int) {
	b.env.State.SetUint(b.address, slot, v)
}

func (b *Base) GetUint64(slot common.Hash) uint64 {
	return b.env.State.GetUint64(b.address, slot)
}

func (b *Base) SetUint64(slot common.Hash, v uint64) {
	b.env.State.SetUint64(b.address, slot, v)
}

func (b *Base) GetAddress(slot common.Hash) common.Address {
	return b.env.State.GetAddress(b.address, slot)
}

func (b *Base) SetAddress(slot common.Hash, v common.Address) {
	b.env.State.SetAddress(b.address, slot, v)
}

func (b *Base) GetBool(slot common.Hash) bool {
	return b.env.State.GetBool(b.address, slot)
}

func (b *Base) SetBool(slot common.Hash, v bool) {
	b.env.State.SetBool(b.address, slot, v)
}
