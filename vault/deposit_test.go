package vault

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositAtParity(t *testing.T) {
	f := newFixture(t)
	f.fund(depositor, 1000)
	f.env.State.Commit()

	require.NoError(t, f.vault.Deposit(depositor, u(1000)))

	assert.Equal(t, u(1000), f.shares.BalanceOf(depositor))
	assert.Equal(t, u(1000), f.base.BalanceOf(f.vault.Address()))
	assert.Equal(t, u(0), f.base.BalanceOf(depositor))
	assert.Equal(t, u(0), f.base.Allowance(depositor, f.vault.Address()))

	deposits := f.eventsNamed("Deposit")
	require.Len(t, deposits, 1)
	assert.Equal(t, Deposit{Recipient: depositor, Payer: depositor, AmountIn: u(1000), SharesOut: u(1000)}, deposits[0])
}

func TestDepositAtRate(t *testing.T) {
	f := newFixture(t)
	f.advance(NewExchangeRate(1, 1), NewExchangeRate(1, 1), NewExchangeRate(100, 101))
	require.Equal(t, PhaseDeposit, f.vault.CurrentPhase())

	f.deposit(depositor, 1000)
	assert.Equal(t, u(990), f.shares.BalanceOf(depositor))
	assert.Equal(t, u(1000), f.base.BalanceOf(f.vault.Address()))
}

func TestDepositMinimum(t *testing.T) {
	f := newFixture(t)
	f.fund(depositor, 10_000)

	for _, amount := range []uint64{1, 50, 99} {
		require.ErrorIs(t, f.vault.Deposit(depositor, u(amount)), gerror.ErrDepositBelowMinimum)
	}
	require.NoError(t, f.vault.Deposit(depositor, u(100)))
	require.NoError(t, f.vault.Deposit(depositor, u(101)))

	require.NoError(t, f.vault.SetMinimumDeposit(admin, u(1000)))
	require.ErrorIs(t, f.vault.Deposit(depositor, u(999)), gerror.ErrDepositBelowMinimum)
	require.NoError(t, f.vault.Deposit(depositor, u(1000)))

	require.NoError(t, f.vault.SetMinimumDeposit(admin, u(0)))
	require.NoError(t, f.vault.Deposit(depositor, u(1)))
	require.ErrorIs(t, f.vault.Deposit(depositor, u(0)), gerror.ErrZeroAmountArgument)

	assert.Equal(t, u(1202), f.shares.BalanceOf(depositor))
}

func TestDepositRejects(t *testing.T) {
	f := newFixture(t)
	f.fund(depositor, 1000)

	// no allowance
	_, err := f.base.Transfer(admin, addr2, u(1000))
	require.NoError(t, err)
	require.ErrorIs(t, f.vault.Deposit(addr2, u(1000)), gerror.ErrInsufficientAllowance)

	// more than approved
	require.ErrorIs(t, f.vault.Deposit(depositor, u(1001)), gerror.ErrInsufficientAllowance)

	require.ErrorIs(t, f.vault.Deposit(depositor, u(0)), gerror.ErrZeroAmountArgument)

	require.NoError(t, f.base.SetTransfersBlocked(admin, true))
	require.ErrorIs(t, f.vault.Deposit(depositor, u(1000)), gerror.ErrTokenTransferFailed)
	require.NoError(t, f.base.SetTransfersBlocked(admin, false))

	require.NoError(t, f.vault.Pause(admin))
	require.ErrorIs(t, f.vault.Deposit(depositor, u(1000)), gerror.ErrPaused)
	require.NoError(t, f.vault.Unpause(admin))

	f.advance(Parity())
	require.ErrorIs(t, f.vault.Deposit(depositor, u(1000)), gerror.ErrActionOutOfPhase)
	f.advance(Parity())
	require.ErrorIs(t, f.vault.Deposit(depositor, u(1000)), gerror.ErrActionOutOfPhase)

	assert.True(t, f.shares.TotalSupply().IsZero())
	assert.Equal(t, u(1000), f.base.BalanceOf(depositor))
	assert.Equal(t, u(1000), f.base.Allowance(depositor, f.vault.Address()))
}

func TestDepositDrawsFloatFirst(t *testing.T) {
	testCases := []struct {
		name       string
		deposit    uint64
		wantFloat  uint64
		wantSupply uint64
	}{
		{name: "less than float", deposit: 300, wantFloat: 200, wantSupply: 500},
		{name: "one less than float", deposit: 499, wantFloat: 1, wantSupply: 500},
		{name: "equal to float", deposit: 500, wantFloat: 0, wantSupply: 500},
		{name: "more than float", deposit: 700, wantFloat: 0, wantSupply: 700},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.shares.Mint(admin, f.vault.Address(), u(500)))

			f.deposit(depositor, tc.deposit)

			assert.Equal(t, u(tc.deposit), f.shares.BalanceOf(depositor))
			assert.Equal(t, u(tc.wantFloat), f.shares.BalanceOf(f.vault.Address()))
			assert.Equal(t, u(tc.wantSupply), f.shares.TotalSupply())
		})
	}
}

func TestDepositMintsWithoutFloat(t *testing.T) {
	f := newFixture(t)
	f.deposit(depositor, 1000)
	f.deposit(addr2, 2500)

	assert.Equal(t, u(3500), f.shares.TotalSupply())
	assert.True(t, f.shares.BalanceOf(f.vault.Address()).IsZero())
}

func TestDepositFor(t *testing.T) {
	f := newFixture(t)
	f.fund(depositor, 10_000)

	var unauthorized *gerror.UnauthorizedAccessError
	require.ErrorAs(t, f.vault.DepositFor(depositor, u(1000), addr2), &unauthorized)
	assert.Equal(t, security.RoleDepositManager, unauthorized.Role)
	assert.Equal(t, depositor, unauthorized.Account)

	require.NoError(t, f.registry.GrantRole(admin, security.RoleDepositManager, depositor))
	f.env.State.Commit()
	require.NoError(t, f.vault.DepositFor(depositor, u(1000), addr2))
	assert.Equal(t, u(1000), f.shares.BalanceOf(addr2))
	assert.True(t, f.shares.BalanceOf(depositor).IsZero())
	assert.Equal(t, u(9000), f.base.BalanceOf(depositor))

	deposits := f.eventsNamed("Deposit")
	require.Len(t, deposits, 1)
	assert.Equal(t, Deposit{Recipient: addr2, Payer: depositor, AmountIn: u(1000), SharesOut: u(1000)}, deposits[0])

	require.ErrorIs(t, f.vault.DepositFor(depositor, u(1000), common.Address{}), gerror.ErrZeroAddressArgument)
}

func TestDepositForVaultAndShareUnit(t *testing.T) {
	f := newFixture(t)
	f.fund(depositor, 3000)
	require.NoError(t, f.registry.GrantRole(admin, security.RoleDepositManager, depositor))

	// shares credited to the vault would be redeemed on arrival
	require.ErrorIs(t, f.vault.DepositFor(depositor, u(1000), f.vault.Address()), gerror.ErrActionOutOfPhase)
	assert.Equal(t, u(3000), f.base.BalanceOf(depositor))

	require.NoError(t, f.vault.DepositFor(depositor, u(1000), f.shares.Address()))
	assert.Equal(t, u(1000), f.shares.BalanceOf(f.shares.Address()))
	assert.Equal(t, u(2000), f.base.BalanceOf(depositor))
	assert.Equal(t, u(2000), f.base.Allowance(depositor, f.vault.Address()))
}

func TestDepositWhitelist(t *testing.T) {
	f := newFixture(t)
	f.fund(depositor, 10_000)
	require.NoError(t, f.vault.SetWhitelist(admin, f.whitelist.Address()))

	var notWhitelisted *gerror.NotWhitelistedError
	require.ErrorAs(t, f.vault.Deposit(depositor, u(100)), &notWhitelisted)
	assert.Equal(t, depositor, notWhitelisted.Account)

	require.NoError(t, f.whitelist.AddRemoveWhitelist(admin, depositor, true))
	require.NoError(t, f.vault.Deposit(depositor, u(100)))

	// off lets everybody in
	require.NoError(t, f.whitelist.AddRemoveWhitelist(admin, depositor, false))
	require.NoError(t, f.whitelist.SetWhitelistOnOff(admin, false))
	require.NoError(t, f.vault.Deposit(depositor, u(100)))

	// so does an unbound whitelist
	require.NoError(t, f.whitelist.SetWhitelistOnOff(admin, true))
	require.ErrorAs(t, f.vault.Deposit(depositor, u(100)), &notWhitelisted)
	require.NoError(t, f.vault.SetWhitelist(admin, common.Address{}))
	require.NoError(t, f.vault.Deposit(depositor, u(100)))

	assert.Equal(t, u(300), f.shares.BalanceOf(depositor))
}

func TestDepositForWhitelist(t *testing.T) {
	testCases := []struct {
		name            string
		payerListed     bool
		recipientListed bool
		rejected        common.Address
	}{
		{name: "payer listed, recipient not", payerListed: true, rejected: addr2},
		{name: "recipient listed, payer not", recipientListed: true, rejected: depositor},
		{name: "neither listed", rejected: depositor},
		{name: "both listed", payerListed: true, recipientListed: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.fund(depositor, 1000)
			require.NoError(t, f.registry.GrantRole(admin, security.RoleDepositManager, depositor))
			require.NoError(t, f.vault.SetWhitelist(admin, f.whitelist.Address()))
			require.NoError(t, f.whitelist.AddRemoveWhitelist(admin, depositor, tc.payerListed))
			require.NoError(t, f.whitelist.AddRemoveWhitelist(admin, addr2, tc.recipientListed))

			err := f.vault.DepositFor(depositor, u(1000), addr2)
			if tc.rejected == (common.Address{}) {
				require.NoError(t, err)
				assert.Equal(t, u(1000), f.shares.BalanceOf(addr2))
				return
			}
			var notWhitelisted *gerror.NotWhitelistedError
			require.ErrorAs(t, err, &notWhitelisted)
			assert.Equal(t, tc.rejected, notWhitelisted.Account)
			assert.True(t, f.shares.BalanceOf(addr2).IsZero())
		})
	}
}
