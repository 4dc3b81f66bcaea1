package security

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Role identifies a capability. It is the keccak256 hash of the role name.
type Role = common.Hash

var (
	RoleAdmin            = roleID("ADMIN_ROLE")
	RoleTokenMinter      = roleID("MINTER_ROLE")
	RoleTokenBurner      = roleID("BURNER_ROLE")
	RolePauser           = roleID("PAUSER_ROLE")
	RoleLifecycleManager = roleID("LIFECYCLE_MANAGER_ROLE")
	RoleGeneralManager   = roleID("GENERAL_MANAGER_ROLE")
	RoleWhitelistManager = roleID("WHITELIST_MANAGER_ROLE")
	RoleDepositManager   = roleID("DEPOSIT_MANAGER_ROLE")
	RoleUpgrader         = roleID("UPGRADER_ROLE")
)

var roleNames = map[Role]string{
	RoleAdmin:            "ADMIN",
	RoleTokenMinter:      "TOKEN_MINTER",
	RoleTokenBurner:      "TOKEN_BURNER",
	RolePauser:           "PAUSER",
	RoleLifecycleManager: "LIFECYCLE_MANAGER",
	RoleGeneralManager:   "GENERAL_MANAGER",
	RoleWhitelistManager: "WHITELIST_MANAGER",
	RoleDepositManager:   "DEPOSIT_MANAGER",
	RoleUpgrader:         "UPGRADER",
}

func roleID(name string) Role {
	return crypto.Keccak256Hash([]byte(name))
}

// AllRoles returns every known role.
func AllRoles() []Role {
	return []Role{
		RoleAdmin, RoleTokenMinter, RoleTokenBurner, RolePauser, RoleLifecycleManager,
		RoleGeneralManager, RoleWhitelistManager, RoleDepositManager, RoleUpgrader,
	}
}

// RoleName returns the short name of a known role, or its hex id.
func RoleName(role Role) string {
	if name, ok := roleNames[role]; ok {
		return name
	}
	return role.Hex()
}

// ParseRole accepts a short name ("PAUSER"), a full name ("PAUSER_ROLE") or a hex id.
func ParseRole(s string) (Role, bool) {
	if strings.HasPrefix(s, "0x") && len(s) == 2+2*common.HashLength {
		return common.HexToHash(s), true
	}
	name := strings.TrimSuffix(strings.ToUpper(s), "_ROLE")
	for role, n := range roleNames {
		if n == name {
			return role, true
		}
	}
	return Role{}, false
}
