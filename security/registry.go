package security

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/state"
)

// KindRoleRegistry is the contract kind of a RoleRegistry
const KindRoleRegistry = "roleregistry"

var slotRoles = state.Slot("roleregistry.roles")

// RoleChecker is the view of a registry consumed by managed contracts.
// GrantRole is never called through it; it only keeps contract.Resolve from
// accepting a contract that merely answers HasRole.
type RoleChecker interface {
	HasRole(role Role, account common.Address) bool
	GrantRole(caller common.Address, role Role, account common.Address) error
}

// RoleRegistry is a flat role to members registry. ADMIN administers every
// role, itself included, but an admin can never drop its own ADMIN membership.
type RoleRegistry struct {
	*contract.Base
}

// AtRoleRegistry attaches a RoleRegistry to addr and registers it in the directory.
func AtRoleRegistry(env *contract.Env, addr common.Address) *RoleRegistry {
	r := &RoleRegistry{Base: contract.NewBase(env, KindRoleRegistry, addr)}
	env.Directory.Register(addr, r)
	return r
}

// DeployRoleRegistry deploys a RoleRegistry granting ADMIN to admin.
func DeployRoleRegistry(env *contract.Env, deployer, admin common.Address) (*RoleRegistry, error) {
	r := AtRoleRegistry(env, env.Directory.NextAddress(deployer))
	if err := r.Initialize(admin); err != nil {
		return nil, err
	}
	return r, nil
}

// Initialize grants ADMIN to admin.
func (r *RoleRegistry) Initialize(admin common.Address) error {
	return r.Call(func() error {
		if admin == (common.Address{}) {
			return gerror.ErrZeroAddressArgument
		}
		if err := r.Initializer(); err != nil {
			return err
		}
		r.grant(RoleAdmin, admin, admin)
		return nil
	})
}

// HasRole reports whether account holds role.
func (r *RoleRegistry) HasRole(role Role, account common.Address) bool {
	return r.GetBool(memberSlot(role, account))
}

// GrantRole grants role to account. Requires ADMIN.
func (r *RoleRegistry) GrantRole(caller common.Address, role Role, account common.Address) error {
	return r.Call(func() error {
		if err := r.onlyAdmin(caller); err != nil {
			return err
		}
		r.grant(role, account, caller)
		return nil
	})
}

// RevokeRole revokes role from account. Requires ADMIN. An admin revoking its
// own ADMIN membership is a silent no-op.
func (r *RoleRegistry) RevokeRole(caller common.Address, role Role, account common.Address) error {
	return r.Call(func() error {
		if err := r.onlyAdmin(caller); err != nil {
			return err
		}
		if role == RoleAdmin && account == caller {
			r.Logger().Debugf("ignoring self revocation of ADMIN by %s", caller.Hex())
			return nil
		}
		r.revoke(role, account, caller)
		return nil
	})
}

// RenounceRole drops role from the caller. account must be the caller.
// Renouncing ADMIN is a silent no-op.
func (r *RoleRegistry) RenounceRole(caller common.Address, role Role, account common.Address) error {
	return r.Call(func() error {
		if account != caller {
			return gerror.ErrCanOnlyRenounceForSelf
		}
		if role == RoleAdmin {
			return nil
		}
		r.revoke(role, account, caller)
		return nil
	})
}

func (r *RoleRegistry) onlyAdmin(caller common.Address) error {
	if !r.HasRole(RoleAdmin, caller) {
		return &gerror.UnauthorizedAccessError{Role: RoleAdmin, Account: caller}
	}
	return nil
}

func (r *RoleRegistry) grant(role Role, account, sender common.Address) {
	if r.HasRole(role, account) {
		return
	}
	r.SetBool(memberSlot(role, account), true)
	r.Emit(RoleGranted{Role: role, Account: account, Sender: sender})
}

func (r *RoleRegistry) revoke(role Role, account, sender common.Address) {
	if !r.HasRole(role, account) {
		return
	}
	r.SetBool(memberSlot(role, account), false)
	r.Emit(RoleRevoked{Role: role, Account: account, Sender: sender})
}

func memberSlot(role Role, account common.Address) common.Hash {
	return state.MapSlot(state.MapSlot(slotRoles, role.Bytes()), account.Bytes())
}
