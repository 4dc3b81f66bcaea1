package security

import "github.com/ethereum/go-ethereum/common"

// RoleGranted is emitted when account is granted role.
type RoleGranted struct {
	Role    Role           `json:"role"`
	Account common.Address `json:"account"`
	Sender  common.Address `json:"sender"`
}

func (RoleGranted) EventName() string { return "RoleGranted" }

// RoleRevoked is emitted when account is revoked role.
type RoleRevoked struct {
	Role    Role           `json:"role"`
	Account common.Address `json:"account"`
	Sender  common.Address `json:"sender"`
}

func (RoleRevoked) EventName() string { return "RoleRevoked" }

// SecurityManagerChanged is emitted when a contract is pointed at another registry.
type SecurityManagerChanged struct {
	Previous common.Address `json:"previous"`
	Current  common.Address `json:"current"`
}

func (SecurityManagerChanged) EventName() string { return "SecurityManagerChanged" }
