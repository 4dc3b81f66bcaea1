package server

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v4"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/vault"
)

type ledgerHost interface {
	Addresses() ledger.Addresses
	View(fn func(c *ledger.Contracts) error) error
	Execute(ctx context.Context, name string, caller common.Address, fn func(c *ledger.Contracts) error) (*ledger.Operation, error)
}

type eventStorage interface {
	GetEvents(ctx context.Context, q ledger.EventQuery, dbTx pgx.Tx) ([]*ledger.EventRecord, error)
}

type summaryCache interface {
	GetVaultSummary(ctx context.Context) (*vault.Summary, error)
}
