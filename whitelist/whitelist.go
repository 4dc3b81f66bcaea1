package whitelist

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/security"
	"github.com/patagonfinance/vault-service/state"
)

// Kind is the contract kind of a Whitelist
const Kind = "whitelist"

var (
	// the flag is stored inverted so that a fresh whitelist starts on
	slotOff     = state.Slot("whitelist.off")
	slotMembers = state.Slot("whitelist.members")
)

// Whitelist is a set of addresses with a global on/off switch.
type Whitelist struct {
	*contract.Base
	security.Managed
}

// At attaches a Whitelist to addr and registers it in the directory.
func At(env *contract.Env, addr common.Address) *Whitelist {
	base := contract.NewBase(env, Kind, addr)
	w := &Whitelist{Base: base, Managed: security.NewManaged(base)}
	env.Directory.Register(addr, w)
	return w
}

// Deploy deploys a Whitelist governed by registry.
func Deploy(env *contract.Env, deployer, registry common.Address) (*Whitelist, error) {
	w := At(env, env.Directory.NextAddress(deployer))
	if err := w.Initialize(registry); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Whitelist) Initialize(registry common.Address) error {
	return w.Call(func() error {
		if err := w.Initializer(); err != nil {
			return err
		}
		return w.InitManaged(registry)
	})
}

// WhitelistOn reports whether membership is enforced.
func (w *Whitelist) WhitelistOn() bool {
	return !w.GetBool(slotOff)
}

// IsWhitelisted returns the raw membership of account, regardless of the switch.
func (w *Whitelist) IsWhitelisted(account common.Address) bool {
	return w.GetBool(memberSlot(account))
}

// SetWhitelistOnOff turns enforcement on or off. Requires WHITELIST_MANAGER.
func (w *Whitelist) SetWhitelistOnOff(caller common.Address, on bool) error {
	return w.Call(func() error {
		if err := w.OnlyRole(security.RoleWhitelistManager, caller); err != nil {
			return err
		}
		if w.WhitelistOn() == on {
			return nil
		}
		w.SetBool(slotOff, !on)
		w.Emit(WhitelistOnOffChanged{Caller: caller, On: on})
		return nil
	})
}

// AddRemoveWhitelist adds or removes account. Requires WHITELIST_MANAGER.
func (w *Whitelist) AddRemoveWhitelist(caller, account common.Address, add bool) error {
	return w.Call(func() error {
		if err := w.OnlyRole(security.RoleWhitelistManager, caller); err != nil {
			return err
		}
		return w.addRemove(caller, account, add)
	})
}

// AddRemoveWhitelistBulk applies the same change to every account, all or nothing.
func (w *Whitelist) AddRemoveWhitelistBulk(caller common.Address, accounts []common.Address, add bool) error {
	return w.Call(func() error {
		if err := w.OnlyRole(security.RoleWhitelistManager, caller); err != nil {
			return err
		}
		for _, account := range accounts {
			if err := w.addRemove(caller, account, add); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *Whitelist) addRemove(caller, account common.Address, add bool) error {
	if account == (common.Address{}) {
		return gerror.ErrZeroAddressArgument
	}
	if w.IsWhitelisted(account) == add {
		return nil
	}
	w.SetBool(memberSlot(account), add)
	w.Emit(WhitelistAddedRemoved{Caller: caller, Account: account, Added: add})
	return nil
}

func memberSlot(account common.Address) common.Hash {
	return state.MapSlot(slotMembers, account.Bytes())
}
