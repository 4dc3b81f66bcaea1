package pgstorage

import (
	"context"
	"os"
	"strconv"

	"github.com/gobuffalo/packr/v2"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/patagonfinance/vault-service/log"
	migrate "github.com/rubenv/sql-migrate"
)

const migrationsTable = "gorp_migrations"

func migrationSource() migrate.MigrationSource {
	return &migrate.PackrMigrationSource{Box: packr.New("vault-db-migrations", "./migrations")}
}

// RunMigrations will execute pending migrations if needed to keep
// the database updated with the latest changes
func RunMigrations(cfg Config) error {
	return runMigrations(cfg, migrate.Up, 0)
}

// RollbackMigrations undoes the last n applied migrations. n = 0 undoes all of them.
func RollbackMigrations(cfg Config, n int) error {
	return runMigrations(cfg, migrate.Down, n)
}

func runMigrations(cfg Config, direction migrate.MigrationDirection, max int) error {
	c, err := pgx.ParseConfig(cfg.url())
	if err != nil {
		return err
	}
	db := stdlib.OpenDB(*c)
	defer db.Close()

	nMigrations, err := migrate.ExecMax(db, "postgres", migrationSource(), direction, max)
	if err != nil {
		return err
	}
	log.Infof("successfully ran %v migrations, direction[%v]", nMigrations, direction)
	return nil
}

// InitOrReset will initializes the db running the migrations or
// will reset all the known data and rerun the migrations
func InitOrReset(cfg Config) error {
	pgStorage, err := NewPostgresStorage(cfg)
	if err != nil {
		return err
	}
	defer pgStorage.Close()

	// reset db droping migrations table and schemas
	if _, err := pgStorage.Exec(context.Background(), "DROP TABLE IF EXISTS "+migrationsTable+" CASCADE;"); err != nil {
		return err
	}
	if _, err := pgStorage.Exec(context.Background(), "DROP SCHEMA IF EXISTS vault CASCADE;"); err != nil {
		return err
	}

	return RunMigrations(cfg)
}

// NewConfigFromEnv creates config from standard postgres environment variables,
func NewConfigFromEnv() Config {
	maxConns, _ := strconv.Atoi(getEnv("VAULT_SERVICE_DATABASE_MAXCONNS", "20"))
	return Config{
		User:     getEnv("VAULT_SERVICE_DATABASE_USER", "test_user"),
		Password: getEnv("VAULT_SERVICE_DATABASE_PASSWORD", "test_password"),
		Name:     getEnv("VAULT_SERVICE_DATABASE_NAME", "test_db"),
		Host:     getEnv("VAULT_SERVICE_DATABASE_HOST", "localhost"),
		Port:     getEnv("VAULT_SERVICE_DATABASE_PORT", "5433"),
		SSLMode:  getEnv("VAULT_SERVICE_DATABASE_SSLMODE", "disable"),
		MaxConns: maxConns,
	}
}

func getEnv(key string, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if exists {
		return value
	}
	return defaultValue
}
