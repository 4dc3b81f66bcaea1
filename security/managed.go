package security

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/state"
)

var slotSecurityManager = state.Slot("managed.securityManager")

// Managed gives a contract a rotatable reference to a role registry and the
// role checks built on it.
type Managed struct {
	base *contract.Base
}

// NewManaged binds the registry reference of base.
func NewManaged(base *contract.Base) Managed {
	return Managed{base: base}
}

// InitManaged stores the initial registry reference. The address must hold a registry.
func (m Managed) InitManaged(registry common.Address) error {
	if registry == (common.Address{}) {
		return gerror.ErrZeroAddressArgument
	}
	if _, ok := contract.Resolve[RoleChecker](m.base.Env().Directory, registry); !ok {
		return gerror.ErrInvalidSecurityManager
	}
	m.base.SetAddress(slotSecurityManager, registry)
	return nil
}

// SecurityManager returns the address of the registry the contract consults.
func (m Managed) SecurityManager() common.Address {
	return m.base.GetAddress(slotSecurityManager)
}

// HasRole consults the bound registry.
func (m Managed) HasRole(role Role, account common.Address) bool {
	registry, ok := contract.Resolve[RoleChecker](m.base.Env().Directory, m.SecurityManager())
	if !ok {
		return false
	}
	return registry.HasRole(role, account)
}

// OnlyRole fails with an UnauthorizedAccessError unless caller holds role.
func (m Managed) OnlyRole(role Role, caller common.Address) error {
	if !m.HasRole(role, caller) {
		return &gerror.UnauthorizedAccessError{Role: role, Account: caller}
	}
	return nil
}

// SetSecurityManager points the contract at another registry. Requires ADMIN
// on the current registry.
func (m Managed) SetSecurityManager(caller, registry common.Address) error {
	return m.base.Call(func() error {
		if err := m.OnlyRole(RoleAdmin, caller); err != nil {
			return err
		}
		previous := m.SecurityManager()
		if err := m.InitManaged(registry); err != nil {
			return err
		}
		if previous != registry {
			m.base.Emit(SecurityManagerChanged{Previous: previous, Current: registry})
		}
		return nil
	})
}

// Pause pauses the contract. Requires PAUSER.
func (m Managed) Pause(caller common.Address) error {
	return m.base.Call(func() error {
		if err := m.OnlyRole(RolePauser, caller); err != nil {
			return err
		}
		return m.base.SetPaused(caller, true)
	})
}

// Unpause unpauses the contract. Requires PAUSER.
func (m Managed) Unpause(caller common.Address) error {
	return m.base.Call(func() error {
		if err := m.OnlyRole(RolePauser, caller); err != nil {
			return err
		}
		return m.base.SetPaused(caller, false)
	})
}
