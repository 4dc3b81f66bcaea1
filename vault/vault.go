package vault

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/security"
	"github.com/patagonfinance/vault-service/state"
	"github.com/patagonfinance/vault-service/token"
)

// Kind is the contract kind of a Vault
const Kind = "vault"

// DefaultMinimumDeposit applies when no minimum is given at construction.
const DefaultMinimumDeposit = 100

var (
	slotShareUnit      = state.Slot("vault.shareUnit")
	slotBaseAsset      = state.Slot("vault.baseAsset")
	slotWhitelist      = state.Slot("vault.whitelist")
	slotPhase          = state.Slot("vault.phase")
	slotRound          = state.Slot("vault.round")
	slotRateVaultToken = state.Slot("vault.rate.vaultToken")
	slotRateBaseToken  = state.Slot("vault.rate.baseToken")
	slotMinimumDeposit = state.Slot("vault.minimumDeposit")
)

// ShareLedger is the part of the share unit the vault drives.
type ShareLedger interface {
	Address() common.Address
	TotalSupply() *uint256.Int
	BalanceOf(account common.Address) *uint256.Int
	VaultAddress() common.Address
	VaultTransfer(caller, from, to common.Address, amount *uint256.Int) (bool, error)
	Mint(caller, to common.Address, amount *uint256.Int) error
}

// Whitelist gates who may deposit and withdraw.
type Whitelist interface {
	WhitelistOn() bool
	IsWhitelisted(account common.Address) bool
}

// Params are the construction arguments of a Vault.
type Params struct {
	ShareUnit      common.Address
	BaseAsset      common.Address
	MinimumDeposit *uint256.Int
	Registry       common.Address
}

// Vault pools base asset deposits and issues shares at a rate fixed per phase.
type Vault struct {
	*contract.Base
	security.Managed
}

// At attaches a Vault to addr and registers it in the directory.
func At(env *contract.Env, addr common.Address) *Vault {
	base := contract.NewBase(env, Kind, addr)
	v := &Vault{Base: base, Managed: security.NewManaged(base)}
	env.Directory.Register(addr, v)
	return v
}

// Deploy deploys and initializes a Vault.
func Deploy(env *contract.Env, deployer common.Address, params Params) (*Vault, error) {
	v := At(env, env.Directory.NextAddress(deployer))
	if err := v.Initialize(params); err != nil {
		return nil, err
	}
	return v, nil
}

// Initialize sets the vault up in the deposit phase of round 1 at parity.
func (v *Vault) Initialize(params Params) error {
	return v.Call(func() error {
		if err := v.Initializer(); err != nil {
			return err
		}
		if err := v.InitManaged(params.Registry); err != nil {
			return err
		}
		if params.BaseAsset == (common.Address{}) || params.ShareUnit == (common.Address{}) {
			return gerror.ErrZeroAddressArgument
		}
		if _, ok := contract.Resolve[token.Asset](v.Env().Directory, params.BaseAsset); !ok {
			return &gerror.InvalidTokenContractError{Address: params.BaseAsset}
		}
		shares, ok := contract.Resolve[ShareLedger](v.Env().Directory, params.ShareUnit)
		if !ok {
			return &gerror.InvalidTokenContractError{Address: params.ShareUnit}
		}
		if shares.VaultAddress() != (common.Address{}) {
			return gerror.ErrVaultTokenInUse
		}

		minimum := params.MinimumDeposit
		if minimum == nil {
			minimum = uint256.NewInt(DefaultMinimumDeposit)
		}
		v.SetAddress(slotShareUnit, params.ShareUnit)
		v.SetAddress(slotBaseAsset, params.BaseAsset)
		v.SetUint(slotMinimumDeposit, minimum)
		v.SetUint64(slotPhase, uint64(PhaseDeposit))
		v.SetUint64(slotRound, 1)
		v.setRate(Parity())
		return nil
	})
}

// ShareUnitAddress returns the address of the share unit the vault issues.
func (v *Vault) ShareUnitAddress() common.Address {
	return v.GetAddress(slotShareUnit)
}

// BaseAssetAddress returns the address of the asset the vault accepts.
func (v *Vault) BaseAssetAddress() common.Address {
	return v.GetAddress(slotBaseAsset)
}

// WhitelistAddress returns the bound whitelist, or the zero address.
func (v *Vault) WhitelistAddress() common.Address {
	return v.GetAddress(slotWhitelist)
}

func (v *Vault) CurrentPhase() Phase {
	return Phase(v.GetUint64(slotPhase))
}

func (v *Vault) Round() uint64 {
	return v.GetUint64(slotRound)
}

func (v *Vault) CurrentExchangeRate() ExchangeRate {
	return ExchangeRate{
		VaultToken: v.GetUint(slotRateVaultToken),
		BaseToken:  v.GetUint(slotRateBaseToken),
	}
}

func (v *Vault) MinimumDeposit() *uint256.Int {
	return v.GetUint(slotMinimumDeposit)
}

// ConvertBaseToShare returns the shares amount of base asset buys at the current rate.
func (v *Vault) ConvertBaseToShare(amount *uint256.Int) (*uint256.Int, error) {
	return v.CurrentExchangeRate().ToShares(amount)
}

// ConvertShareToBase returns the base asset amount shares redeem for at the current rate.
func (v *Vault) ConvertShareToBase(amount *uint256.Int) (*uint256.Int, error) {
	return v.CurrentExchangeRate().ToBase(amount)
}

// AdvancePhase moves the vault to the next phase running at rate. Entering
// the deposit phase starts a new round. Requires LIFECYCLE_MANAGER.
func (v *Vault) AdvancePhase(caller common.Address, rate ExchangeRate) error {
	return v.Call(func() error {
		if err := v.OnlyRole(security.RoleLifecycleManager, caller); err != nil {
			return err
		}
		if err := v.WhenNotPaused(); err != nil {
			return err
		}
		if err := rate.Validate(); err != nil {
			return err
		}
		next := v.CurrentPhase().Next()
		v.SetUint64(slotPhase, uint64(next))
		if next == PhaseDeposit {
			v.SetUint64(slotRound, v.Round()+1)
		}
		v.setRate(rate)
		v.Emit(PhaseChanged{Phase: next, Rate: rate})
		v.Logger().Infof("phase changed to %s at rate %s, round %d", next, rate, v.Round())
		return nil
	})
}

// SetMinimumDeposit changes the smallest accepted deposit. Zero disables the
// floor. Requires GENERAL_MANAGER.
func (v *Vault) SetMinimumDeposit(caller common.Address, minimum *uint256.Int) error {
	return v.Call(func() error {
		if err := v.OnlyRole(security.RoleGeneralManager, caller); err != nil {
			return err
		}
		v.SetUint(slotMinimumDeposit, minimum)
		return nil
	})
}

// SetWhitelist binds a whitelist, or unbinds it when addr is zero. Requires
// WHITELIST_MANAGER.
func (v *Vault) SetWhitelist(caller, addr common.Address) error {
	return v.Call(func() error {
		if err := v.OnlyRole(security.RoleWhitelistManager, caller); err != nil {
			return err
		}
		if err := v.WhenNotPaused(); err != nil {
			return err
		}
		if addr != (common.Address{}) {
			if _, ok := contract.Resolve[Whitelist](v.Env().Directory, addr); !ok {
				return gerror.ErrInvalidWhitelist
			}
		}
		v.SetAddress(slotWhitelist, addr)
		return nil
	})
}

func (v *Vault) setRate(rate ExchangeRate) {
	v.SetUint(slotRateVaultToken, rate.VaultToken)
	v.SetUint(slotRateBaseToken, rate.BaseToken)
}

func (v *Vault) requirePhase(phase Phase) error {
	if v.CurrentPhase() != phase {
		return gerror.ErrActionOutOfPhase
	}
	return nil
}

// checkWhitelist passes when no whitelist is bound or it is switched off.
func (v *Vault) checkWhitelist(account common.Address) error {
	addr := v.WhitelistAddress()
	if addr == (common.Address{}) {
		return nil
	}
	wl, ok := contract.Resolve[Whitelist](v.Env().Directory, addr)
	if !ok {
		return gerror.ErrInvalidWhitelist
	}
	if wl.WhitelistOn() && !wl.IsWhitelisted(account) {
		return &gerror.NotWhitelistedError{Account: account}
	}
	return nil
}

func (v *Vault) shares() (ShareLedger, error) {
	addr := v.ShareUnitAddress()
	shares, ok := contract.Resolve[ShareLedger](v.Env().Directory, addr)
	if !ok {
		return nil, &gerror.InvalidTokenContractError{Address: addr}
	}
	return shares, nil
}

func (v *Vault) baseAsset() (token.Asset, error) {
	addr := v.BaseAssetAddress()
	asset, ok := contract.Resolve[token.Asset](v.Env().Directory, addr)
	if !ok {
		return nil, &gerror.InvalidTokenContractError{Address: addr}
	}
	return asset, nil
}
