package db

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patagonfinance/vault-service/db/pgstorage"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageUnknownDriver(t *testing.T) {
	_, err := NewStorage(Config{Database: "sqlite"})
	require.ErrorIs(t, err, gerror.ErrStorageNotRegister)
}

func TestLedgerOnPostgres(t *testing.T) {
	cfg := pgstorage.NewConfigFromEnv()
	if err := pgstorage.InitOrReset(cfg); err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	storageCfg := Config{
		Database: "postgres",
		Name:     cfg.Name,
		User:     cfg.User,
		Password: cfg.Password,
		Host:     cfg.Host,
		Port:     cfg.Port,
		MaxConns: 20,
		SSLMode:  cfg.SSLMode,
	}
	storage, err := NewStorage(storageCfg)
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()
	genesis := ledger.GenesisConfig{
		Deployer:          common.HexToAddress("0x00000000000000000000000000000000000000d0"),
		Admin:             common.HexToAddress("0x00000000000000000000000000000000000000a0"),
		Operator:          common.HexToAddress("0x00000000000000000000000000000000000000b0"),
		MinimumDeposit:    100,
		BaseAssetSupply:   1_000_000,
		BaseAssetDecimals: 6,
	}
	h, err := ledger.Open(ctx, genesis, ledger.WithStorage(storage))
	require.NoError(t, err)

	op, err := h.Execute(ctx, "pause", genesis.Operator, func(c *ledger.Contracts) error {
		return c.Vault.Pause(genesis.Operator)
	})
	require.NoError(t, err)

	stored, err := storage.GetOperation(ctx, op.ID, nil)
	require.NoError(t, err)
	require.Len(t, stored.EventsNamed("Paused"), 1)

	restored, err := ledger.Open(ctx, genesis, ledger.WithStorage(storage))
	require.NoError(t, err)
	require.NoError(t, restored.View(func(c *ledger.Contracts) error {
		assert.True(t, c.Vault.Paused())
		assert.Equal(t, uint64(1), c.Vault.Round())
		return nil
	}))

	events, err := storage.GetEvents(ctx, ledger.EventQuery{Name: "RoleGranted"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
}
