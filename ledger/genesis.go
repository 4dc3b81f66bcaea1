package ledger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/depositbridge"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/log"
	"github.com/patagonfinance/vault-service/security"
	"github.com/patagonfinance/vault-service/shareunit"
	"github.com/patagonfinance/vault-service/token"
	"github.com/patagonfinance/vault-service/vault"
	"github.com/patagonfinance/vault-service/whitelist"
	"github.com/pkg/errors"
)

// GenesisOperation is the name of the operation deploying the contracts.
const GenesisOperation = "genesis"

// GenesisConfig describes the initial deployment.
type GenesisConfig struct {
	// Deployer derives every contract address. Changing it on an existing database
	// makes the stored state unreachable.
	Deployer common.Address `mapstructure:"Deployer"`

	// Admin holds every role.
	Admin common.Address `mapstructure:"Admin"`

	// Operator runs the lifecycle, pauses and finalizes deposits. It owns the base asset supply.
	Operator common.Address `mapstructure:"Operator"`

	MinimumDeposit    uint64 `mapstructure:"MinimumDeposit"`
	BaseAssetSupply   uint64 `mapstructure:"BaseAssetSupply"`
	BaseAssetDecimals uint8  `mapstructure:"BaseAssetDecimals"`

	// VaultVersion the vault is upgraded to right after deployment.
	VaultVersion uint64 `mapstructure:"VaultVersion"`

	// Whitelisted accounts besides the operator and the deposit bridge.
	Whitelisted []common.Address `mapstructure:"Whitelisted"`

	// RejectDuplicateRefs makes the deposit bridge fail deposits reusing an external reference.
	RejectDuplicateRefs bool `mapstructure:"RejectDuplicateRefs"`
}

// Contracts are the contracts living on the ledger.
type Contracts struct {
	Registry  *security.RoleRegistry
	BaseAsset *token.Stable
	ShareUnit *shareunit.ShareUnit
	Vault     *vault.Vault
	Whitelist *whitelist.Whitelist
	Bridge    *depositbridge.DepositBridge
}

// Addresses are the addresses of the deployed contracts.
type Addresses struct {
	Registry  common.Address `json:"registry"`
	BaseAsset common.Address `json:"baseAsset"`
	ShareUnit common.Address `json:"shareUnit"`
	Vault     common.Address `json:"vault"`
	Whitelist common.Address `json:"whitelist"`
	Bridge    common.Address `json:"bridge"`
}

// Addresses returns the contract addresses.
func (c *Contracts) Addresses() Addresses {
	return Addresses{
		Registry:  c.Registry.Address(),
		BaseAsset: c.BaseAsset.Address(),
		ShareUnit: c.ShareUnit.Address(),
		Vault:     c.Vault.Address(),
		Whitelist: c.Whitelist.Address(),
		Bridge:    c.Bridge.Address(),
	}
}

// attach binds every contract to the address deployer would create it at.
// The order is part of the persisted layout.
func attach(env *contract.Env, deployer common.Address) *Contracts {
	next := func() common.Address { return env.Directory.NextAddress(deployer) }
	return &Contracts{
		Registry:  security.AtRoleRegistry(env, next()),
		BaseAsset: token.AtStable(env, next()),
		ShareUnit: shareunit.At(env, next()),
		Vault:     vault.At(env, next()),
		Whitelist: whitelist.At(env, next()),
		Bridge:    depositbridge.At(env, next()),
	}
}

// Open returns a Host holding the persisted state, running the genesis
// deployment first when the storage is empty.
func Open(ctx context.Context, cfg GenesisConfig, opts ...Option) (*Host, error) {
	if cfg.Deployer == (common.Address{}) || cfg.Admin == (common.Address{}) || cfg.Operator == (common.Address{}) {
		return nil, errors.Wrap(gerror.ErrZeroAddressArgument, "genesis accounts")
	}
	h := newHost(opts...)
	h.contracts = attach(h.env, cfg.Deployer)

	if h.storage != nil {
		entries, err := h.storage.LoadState(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "load state")
		}
		if len(entries) > 0 {
			h.env.State.Load(entries)
			if !h.contracts.Vault.Initialized() {
				return nil, gerror.ErrGenesisMismatch
			}
			log.Infof("ledger state restored: words[%v] vault[%v] phase[%v] round[%v]",
				len(entries), h.contracts.Vault.Address().Hex(), h.contracts.Vault.CurrentPhase(), h.contracts.Vault.Round())
			return h, nil
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.execute(ctx, GenesisOperation, cfg.Deployer, func() error { return genesis(h.contracts, cfg) }); err != nil {
		return nil, errors.Wrap(err, "genesis")
	}
	log.Infof("genesis deployed: vault[%v] shareUnit[%v] baseAsset[%v] bridge[%v]",
		h.contracts.Vault.Address().Hex(), h.contracts.ShareUnit.Address().Hex(),
		h.contracts.BaseAsset.Address().Hex(), h.contracts.Bridge.Address().Hex())
	return h, nil
}

type grant struct {
	role    security.Role
	account common.Address
}

func genesis(c *Contracts, cfg GenesisConfig) error {
	a := c.Addresses()
	if err := c.Registry.Initialize(cfg.Admin); err != nil {
		return err
	}
	if err := c.BaseAsset.Initialize(cfg.Operator, uint256.NewInt(cfg.BaseAssetSupply), cfg.BaseAssetDecimals); err != nil {
		return err
	}
	if err := c.ShareUnit.Initialize(a.Registry); err != nil {
		return err
	}
	var minimum *uint256.Int
	if cfg.MinimumDeposit > 0 {
		minimum = uint256.NewInt(cfg.MinimumDeposit)
	}
	err := c.Vault.Initialize(vault.Params{
		ShareUnit:      a.ShareUnit,
		BaseAsset:      a.BaseAsset,
		MinimumDeposit: minimum,
		Registry:       a.Registry,
	})
	if err != nil {
		return err
	}
	if err := c.Whitelist.Initialize(a.Registry); err != nil {
		return err
	}
	if err := c.Bridge.Initialize(a.Vault, a.BaseAsset); err != nil {
		return err
	}

	grants := []grant{
		{security.RoleTokenMinter, a.Vault},
		{security.RoleDepositManager, a.Bridge},
		{security.RoleLifecycleManager, cfg.Operator},
		{security.RoleDepositManager, cfg.Operator},
		{security.RolePauser, cfg.Operator},
	}
	for _, role := range security.AllRoles() {
		grants = append(grants, grant{role, cfg.Admin})
	}
	for _, g := range grants {
		if err := c.Registry.GrantRole(cfg.Admin, g.role, g.account); err != nil {
			return err
		}
	}

	if err := c.ShareUnit.SetVaultAddress(cfg.Admin, a.Vault); err != nil {
		return err
	}
	if err := c.Vault.SetWhitelist(cfg.Admin, a.Whitelist); err != nil {
		return err
	}
	members := append([]common.Address{a.Bridge, cfg.Operator}, cfg.Whitelisted...)
	if err := c.Whitelist.AddRemoveWhitelistBulk(cfg.Admin, members, true); err != nil {
		return err
	}
	if cfg.RejectDuplicateRefs {
		if err := c.Bridge.SetRejectDuplicateRefs(cfg.Admin, true); err != nil {
			return err
		}
	}
	if cfg.VaultVersion > 1 {
		return c.Vault.Upgrade(cfg.Admin, cfg.VaultVersion)
	}
	return nil
}
