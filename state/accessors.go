package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// GetUint reads a word as an unsigned 256-bit integer.
func (s *StateDB) GetUint(addr common.Address, slot common.Hash) *uint256.Int {
	v := s.GetState(addr, slot)
	return new(uint256.Int).SetBytes32(v[:])
}

// SetUint writes an unsigned 256-bit integer.
func (s *StateDB) SetUint(addr common.Address, slot common.Hash, value *uint256.Int) {
	s.SetState(addr, slot, value.Bytes32())
}

// GetUint64 reads the low 64 bits of a word.
func (s *StateDB) GetUint64(addr common.Address, slot common.Hash) uint64 {
	return s.GetUint(addr, slot).Uint64()
}

// SetUint64 writes a 64-bit integer.
func (s *StateDB) SetUint64(addr common.Address, slot common.Hash, value uint64) {
	s.SetUint(addr, slot, uint256.NewInt(value))
}

// GetAddress reads a word as an address.
func (s *StateDB) GetAddress(addr common.Address, slot common.Hash) common.Address {
	v := s.GetState(addr, slot)
	return common.BytesToAddress(v[:])
}

// SetAddress writes an address.
func (s *StateDB) SetAddress(addr common.Address, slot common.Hash, value common.Address) {
	s.SetState(addr, slot, common.BytesToHash(value.Bytes()))
}

// GetBool reads a word as a flag.
func (s *StateDB) GetBool(addr common.Address, slot common.Hash) bool {
	return s.GetState(addr, slot) != (common.Hash{})
}

// SetBool writes a flag.
func (s *StateDB) SetBool(addr common.Address, slot common.Hash, value bool) {
	var v common.Hash
	if value {
		v[common.HashLength-1] = 1
	}
	s.SetState(addr, slot, v)
}
