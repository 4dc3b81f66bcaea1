package vault

import (
	"testing"

	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpgradeToPauseCount(t *testing.T) {
	f := newFixture(t)
	v := f.vault
	require.NoError(t, v.SetWhitelist(admin, f.whitelist.Address()))
	f.advance(NewExchangeRate(12, 13))
	f.env.State.Commit()

	require.NoError(t, v.Upgrade(admin, VersionPauseCount))
	assert.Equal(t, uint64(VersionPauseCount), v.Version())
	upgrades := f.eventsNamed("Upgraded")
	require.Len(t, upgrades, 1)
	assert.Equal(t, contract.Upgraded{From: 1, To: VersionPauseCount}, upgrades[0])

	// state is carried over
	assert.Equal(t, f.shares.Address(), v.ShareUnitAddress())
	assert.Equal(t, f.base.Address(), v.BaseAssetAddress())
	assert.Equal(t, f.whitelist.Address(), v.WhitelistAddress())
	assert.Equal(t, f.registry.Address(), v.SecurityManager())
	assert.Equal(t, PhaseLocked, v.CurrentPhase())
	assert.Equal(t, NewExchangeRate(12, 13), v.CurrentExchangeRate())

	assert.Equal(t, uint64(0), v.PauseCount())
	for i := 0; i < 2; i++ {
		require.NoError(t, v.Pause(admin))
		require.NoError(t, v.Unpause(admin))
	}
	assert.Equal(t, uint64(2), v.PauseCount())

	require.NoError(t, v.SetExchangeRate(admin, NewExchangeRate(9, 10)))
	assert.Equal(t, NewExchangeRate(9, 10), v.CurrentExchangeRate())
	assert.Equal(t, PhaseLocked, v.CurrentPhase())
	require.ErrorIs(t, v.SetExchangeRate(admin, NewExchangeRate(0, 10)), gerror.ErrZeroAmountArgument)

	var unauthorized *gerror.UnauthorizedAccessError
	require.ErrorAs(t, v.SetExchangeRate(depositor, Parity()), &unauthorized)
	assert.Equal(t, security.RoleLifecycleManager, unauthorized.Role)
}

func TestUpgradeToEmptyVault(t *testing.T) {
	f := newFixture(t)
	v := f.vault
	_, err := f.base.Transfer(admin, v.Address(), u(1_000_000))
	require.NoError(t, err)

	require.ErrorIs(t, v.EmptyVault(admin), gerror.ErrNotSupported)
	require.NoError(t, v.Upgrade(admin, VersionPauseCount))
	require.NoError(t, v.Pause(admin))
	require.ErrorIs(t, v.EmptyVault(admin), gerror.ErrNotSupported)

	require.NoError(t, v.Upgrade(admin, VersionEmptyVault))
	assert.Equal(t, uint64(VersionEmptyVault), v.Version())
	assert.Equal(t, uint64(1), v.PauseCount())

	// retired
	require.ErrorIs(t, v.SetExchangeRate(admin, Parity()), gerror.ErrNotSupported)

	var unauthorized *gerror.UnauthorizedAccessError
	require.ErrorAs(t, v.EmptyVault(depositor), &unauthorized)
	assert.Equal(t, security.RoleAdmin, unauthorized.Role)

	require.NoError(t, v.EmptyVault(admin))
	assert.True(t, f.base.BalanceOf(v.Address()).IsZero())
}

func TestUpgradeSkipsVersions(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.vault.Upgrade(admin, LatestVersion))
	assert.Equal(t, uint64(LatestVersion), f.vault.Version())
	require.NoError(t, f.vault.Pause(admin))
	assert.Equal(t, uint64(1), f.vault.PauseCount())
}

func TestUpgradeRejects(t *testing.T) {
	f := newFixture(t)
	v := f.vault

	require.ErrorIs(t, v.SetExchangeRate(admin, Parity()), gerror.ErrNotSupported)
	require.ErrorIs(t, v.Upgrade(admin, 1), gerror.ErrInvalidVersion)
	require.ErrorIs(t, v.Upgrade(admin, LatestVersion+1), gerror.ErrInvalidVersion)

	require.NoError(t, f.registry.RenounceRole(admin, security.RoleUpgrader, admin))
	var unauthorized *gerror.UnauthorizedAccessError
	require.ErrorAs(t, v.Upgrade(admin, VersionPauseCount), &unauthorized)
	assert.Equal(t, security.RoleUpgrader, unauthorized.Role)
	assert.Equal(t, admin, unauthorized.Account)

	require.NoError(t, f.registry.GrantRole(admin, security.RoleUpgrader, admin))
	require.NoError(t, v.Upgrade(admin, VersionPauseCount))
	require.ErrorIs(t, v.Upgrade(admin, VersionPauseCount), gerror.ErrInvalidVersion)
	assert.Equal(t, uint64(VersionPauseCount), v.Version())
}

func TestShareUnitUpgrade(t *testing.T) {
	f := newFixture(t)
	f.deposit(depositor, 1000)

	var unauthorized *gerror.UnauthorizedAccessError
	require.ErrorAs(t, f.shares.Upgrade(depositor, 2), &unauthorized)
	require.NoError(t, f.shares.Upgrade(admin, 2))
	assert.Equal(t, uint64(2), f.shares.Version())
	assert.Equal(t, u(1000), f.shares.BalanceOf(depositor))
	assert.Equal(t, f.vault.Address(), f.shares.VaultAddress())
}
