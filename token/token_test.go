package token

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/patagonfinance/vault-service/contract"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner   = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	alice   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob     = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	million = uint256.NewInt(1_000_000)
)

func deployStable(t *testing.T) (*contract.Env, *Stable) {
	env := contract.NewEnv()
	s, err := DeployStable(env, owner, million, 6)
	require.NoError(t, err)
	env.State.Commit()
	return env, s
}

func TestStableInitialState(t *testing.T) {
	_, s := deployStable(t)
	assert.Equal(t, owner, s.Owner())
	assert.Equal(t, uint8(6), s.Decimals())
	assert.Equal(t, million, s.TotalSupply())
	assert.Equal(t, million, s.BalanceOf(owner))
	require.ErrorIs(t, s.Initialize(alice, million, 6), gerror.ErrAlreadyInitialized)
}

func TestStableTransfer(t *testing.T) {
	env, s := deployStable(t)

	ok, err := s.Transfer(owner, alice, uint256.NewInt(400))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(400), s.BalanceOf(alice).Uint64())
	assert.Equal(t, uint64(999_600), s.BalanceOf(owner).Uint64())

	logs := env.State.Commit().Logs
	require.Len(t, logs, 1)
	assert.Equal(t, Transfer{From: owner, To: alice, Value: uint256.NewInt(400)}, logs[0].Event)

	ok, err = s.Transfer(alice, bob, uint256.NewInt(401))
	require.ErrorIs(t, err, gerror.ErrTransferExceedsBalance)
	assert.False(t, ok)
	assert.Empty(t, env.State.Commit().Logs)

	_, err = s.Transfer(alice, common.Address{}, uint256.NewInt(1))
	require.ErrorIs(t, err, gerror.ErrTransferZeroAddress)
}

func TestStableTransferFrom(t *testing.T) {
	_, s := deployStable(t)

	_, err := s.TransferFrom(alice, owner, bob, uint256.NewInt(10))
	require.ErrorIs(t, err, gerror.ErrInsufficientAllowance)

	ok, err := s.Approve(owner, alice, uint256.NewInt(15))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.TransferFrom(alice, owner, bob, uint256.NewInt(10))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(5), s.Allowance(owner, alice).Uint64())
	assert.Equal(t, uint64(10), s.BalanceOf(bob).Uint64())

	_, err = s.TransferFrom(alice, owner, bob, uint256.NewInt(6))
	require.ErrorIs(t, err, gerror.ErrInsufficientAllowance)
	assert.Equal(t, uint64(5), s.Allowance(owner, alice).Uint64())

	// infinite allowance is never spent
	_, err = s.Approve(owner, alice, MaxAllowance)
	require.NoError(t, err)
	_, err = s.TransferFrom(alice, owner, bob, uint256.NewInt(6))
	require.NoError(t, err)
	assert.Equal(t, MaxAllowance, s.Allowance(owner, alice))
}

func TestStableBlockedTransfers(t *testing.T) {
	_, s := deployStable(t)

	require.Error(t, s.SetTransfersBlocked(alice, true))
	require.NoError(t, s.SetTransfersBlocked(owner, true))

	ok, err := s.Transfer(owner, alice, uint256.NewInt(1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, s.BalanceOf(alice).IsZero())

	_, err = s.Approve(owner, alice, uint256.NewInt(1))
	require.NoError(t, err)
	ok, err = s.TransferFrom(alice, owner, alice, uint256.NewInt(1))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetTransfersBlocked(owner, false))
	ok, err = s.Transfer(owner, alice, uint256.NewInt(1))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStableMint(t *testing.T) {
	_, s := deployStable(t)

	var unauthorized *gerror.UnauthorizedAccessError
	require.ErrorAs(t, s.Mint(alice, alice, uint256.NewInt(1)), &unauthorized)

	require.NoError(t, s.Mint(owner, alice, uint256.NewInt(7)))
	assert.Equal(t, uint64(7), s.BalanceOf(alice).Uint64())
	assert.Equal(t, uint64(1_000_007), s.TotalSupply().Uint64())

	require.ErrorIs(t, s.Mint(owner, common.Address{}, uint256.NewInt(1)), gerror.ErrMintZeroAddress)
	require.ErrorIs(t, s.Mint(owner, alice, MaxAllowance), gerror.ErrSupplyOverflow)
}

func TestLedgerAllowanceHelpers(t *testing.T) {
	env := contract.NewEnv()
	l := NewLedger(contract.NewBase(env, "ledger", owner))

	require.NoError(t, l.IncreaseAllowance(alice, bob, uint256.NewInt(10)))
	require.NoError(t, l.IncreaseAllowance(alice, bob, uint256.NewInt(5)))
	assert.Equal(t, uint64(15), l.Allowance(alice, bob).Uint64())

	require.NoError(t, l.DecreaseAllowance(alice, bob, uint256.NewInt(15)))
	assert.True(t, l.Allowance(alice, bob).IsZero())
	require.ErrorIs(t, l.DecreaseAllowance(alice, bob, uint256.NewInt(1)), gerror.ErrDecreasedAllowanceBelowZero)
	require.ErrorIs(t, l.Approve(alice, common.Address{}, uint256.NewInt(1)), gerror.ErrApproveZeroAddress)

	nearMax := new(uint256.Int).SubUint64(MaxAllowance, 5)
	require.NoError(t, l.Approve(alice, bob, nearMax))
	require.ErrorIs(t, l.IncreaseAllowance(alice, bob, uint256.NewInt(10)), gerror.ErrAllowanceOverflow)
	assert.Equal(t, nearMax, l.Allowance(alice, bob))
	require.NoError(t, l.SpendAllowance(alice, bob, uint256.NewInt(100)))
	assert.Equal(t, new(uint256.Int).SubUint64(nearMax, 100), l.Allowance(alice, bob))

	require.NoError(t, l.Mint(alice, uint256.NewInt(3)))
	require.ErrorIs(t, l.Burn(alice, uint256.NewInt(4)), gerror.ErrBurnExceedsBalance)
	require.NoError(t, l.Burn(alice, uint256.NewInt(3)))
	assert.True(t, l.TotalSupply().IsZero())
}
