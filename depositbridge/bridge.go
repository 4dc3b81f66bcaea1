package depositbridge

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/security"
	"github.com/patagonfinance/vault-service/state"
	"github.com/patagonfinance/vault-service/token"
)

// Kind is the contract kind of a DepositBridge
const Kind = "depositbridge"

var (
	slotVault         = state.Slot("depositbridge.vault")
	slotBaseAsset     = state.Slot("depositbridge.baseAsset")
	slotRejectDupRefs = state.Slot("depositbridge.rejectDuplicateRefs")
	slotSeenRefs      = state.Slot("depositbridge.seenRefs")
)

// Vault is the part of the vault the bridge deposits through.
type Vault interface {
	Address() common.Address
	SecurityManager() common.Address
	DepositFor(caller common.Address, amount *uint256.Int, recipient common.Address) error
}

// DepositBridge finalizes deposits settled elsewhere: it holds a float of base
// asset and deposits from it into the vault on behalf of the recipient.
type DepositBridge struct {
	*contract.Base
	security.Managed
}

// At attaches a DepositBridge to addr and registers it in the directory.
func At(env *contract.Env, addr common.Address) *DepositBridge {
	base := contract.NewBase(env, Kind, addr)
	b := &DepositBridge{Base: base, Managed: security.NewManaged(base)}
	env.Directory.Register(addr, b)
	return b
}

// Deploy deploys a DepositBridge in front of vault. The bridge shares the
// registry of the vault.
func Deploy(env *contract.Env, deployer, vault, baseAsset common.Address) (*DepositBridge, error) {
	b := At(env, env.Directory.NextAddress(deployer))
	if err := b.Initialize(vault, baseAsset); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *DepositBridge) Initialize(vault, baseAsset common.Address) error {
	return b.Call(func() error {
		if err := b.Initializer(); err != nil {
			return err
		}
		if vault == (common.Address{}) || baseAsset == (common.Address{}) {
			return gerror.ErrZeroAddressArgument
		}
		if _, ok := contract.Resolve[token.Asset](b.Env().Directory, baseAsset); !ok {
			return &gerror.InvalidTokenContractError{Address: baseAsset}
		}
		v, ok := contract.Resolve[Vault](b.Env().Directory, vault)
		if !ok {
			return gerror.ErrInvalidVaultAddress
		}
		if err := b.InitManaged(v.SecurityManager()); err != nil {
			return err
		}
		b.SetAddress(slotVault, vault)
		b.SetAddress(slotBaseAsset, baseAsset)
		return nil
	})
}

func (b *DepositBridge) VaultAddress() common.Address {
	return b.GetAddress(slotVault)
}

func (b *DepositBridge) BaseAssetAddress() common.Address {
	return b.GetAddress(slotBaseAsset)
}

// RejectsDuplicateRefs reports whether an external reference may only be finalized once.
func (b *DepositBridge) RejectsDuplicateRefs() bool {
	return b.GetBool(slotRejectDupRefs)
}

// RefSeen reports whether externalRef was finalized while duplicates were rejected.
func (b *DepositBridge) RefSeen(externalRef string) bool {
	return b.GetBool(refSlot(externalRef))
}

// SetRejectDuplicateRefs switches duplicate reference rejection. Requires ADMIN.
func (b *DepositBridge) SetRejectDuplicateRefs(caller common.Address, reject bool) error {
	return b.Call(func() error {
		if err := b.OnlyRole(security.RoleAdmin, caller); err != nil {
			return err
		}
		b.SetBool(slotRejectDupRefs, reject)
		return nil
	})
}

// FinalizeDeposit deposits amount of the bridge float into the vault for
// recipient. The vault enforces its own checks against the bridge as payer.
// Requires DEPOSIT_MANAGER.
func (b *DepositBridge) FinalizeDeposit(caller common.Address, amount *uint256.Int, externalRef string, recipient common.Address) error {
	return b.Call(func() error {
		if err := b.OnlyRole(security.RoleDepositManager, caller); err != nil {
			return err
		}
		if amount.IsZero() {
			return gerror.ErrZeroAmountArgument
		}
		if b.RejectsDuplicateRefs() {
			if b.RefSeen(externalRef) {
				return gerror.ErrDuplicateExternalRef
			}
			b.SetBool(refSlot(externalRef), true)
		}

		vault, ok := contract.Resolve[Vault](b.Env().Directory, b.VaultAddress())
		if !ok {
			return gerror.ErrInvalidVaultAddress
		}
		base, err := b.baseAsset()
		if err != nil {
			return err
		}
		approved, err := base.Approve(b.Address(), vault.Address(), amount)
		if err != nil {
			return err
		}
		if !approved {
			return gerror.ErrTokenTransferFailed
		}
		if err := vault.DepositFor(b.Address(), amount, recipient); err != nil {
			return err
		}

		b.Emit(DepositExecuted{ExternalRef: externalRef, Recipient: recipient, Amount: amount.Clone()})
		b.Logger().Infof("deposit %s of %s finalized for %s", externalRef, amount, recipient.Hex())
		return nil
	})
}

// AdminWithdraw sends amount of the bridge float to the caller. Requires ADMIN.
func (b *DepositBridge) AdminWithdraw(caller common.Address, amount *uint256.Int) error {
	return b.Call(func() error {
		if err := b.OnlyRole(security.RoleAdmin, caller); err != nil {
			return err
		}
		base, err := b.baseAsset()
		if err != nil {
			return err
		}
		ok, err := base.Transfer(b.Address(), caller, amount)
		if err != nil {
			return err
		}
		if !ok {
			return gerror.ErrTokenTransferFailed
		}
		return nil
	})
}

func (b *DepositBridge) baseAsset() (token.Asset, error) {
	addr := b.BaseAssetAddress()
	asset, ok := contract.Resolve[token.Asset](b.Env().Directory, addr)
	if !ok {
		return nil, &gerror.InvalidTokenContractError{Address: addr}
	}
	return asset, nil
}

func refSlot(externalRef string) common.Hash {
	return state.MapSlot(slotSeenRefs, crypto.Keccak256([]byte(externalRef)))
}
