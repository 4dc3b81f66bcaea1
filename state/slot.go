package state

import (
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Slot returns the storage slot of a named field.
func Slot(name string) common.Hash {
	return keccak([]byte(name))
}

// MapSlot returns the slot holding key inside the mapping rooted at base.
// Nested mappings are addressed by chaining calls.
func MapSlot(base common.Hash, key []byte) common.Hash {
	return keccak(common.LeftPadBytes(key, common.HashLength), base.Bytes())
}

func keccak(data ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b) //nolint:errcheck
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}
