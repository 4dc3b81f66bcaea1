package shareunit

import "github.com/ethereum/go-ethereum/common"

// VaultAddressSet is emitted when the share unit is bound to its vault.
type VaultAddressSet struct {
	Vault common.Address `json:"vault"`
}

func (VaultAddressSet) EventName() string { return "VaultAddressSet" }
