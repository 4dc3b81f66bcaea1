package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/patagonfinance/vault-service/db/pgstorage"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/ledger"
)

// Storage interface
type Storage interface {
	ledger.Storage
	GetOperation(ctx context.Context, id uuid.UUID, dbTx pgx.Tx) (*ledger.Operation, error)
	GetEvents(ctx context.Context, q ledger.EventQuery, dbTx pgx.Tx) ([]*ledger.EventRecord, error)
	Close()
}

// NewStorage creates a new Storage
func NewStorage(cfg Config) (Storage, error) {
	if cfg.Database == "postgres" {
		return pgstorage.NewPostgresStorage(cfg.pgConfig())
	}
	return nil, gerror.ErrStorageNotRegister
}

// RunMigrations will execute pending migrations if needed to keep
// the database updated with the latest changes
func RunMigrations(cfg Config) error {
	return pgstorage.RunMigrations(cfg.pgConfig())
}

// RollbackMigrations undoes the last n migrations, all of them when n is 0.
func RollbackMigrations(cfg Config, n int) error {
	return pgstorage.RollbackMigrations(cfg.pgConfig(), n)
}
