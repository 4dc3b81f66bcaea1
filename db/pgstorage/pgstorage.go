package pgstorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/log"
	"github.com/patagonfinance/vault-service/state"
	pkgerrors "github.com/pkg/errors"
)

const (
	uniqueViolationCode = "23505"
	defaultEventsLimit  = 100
)

type execQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (commandTag pgconn.CommandTag, err error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresStorage implements the ledger storage on top of postgres.
type PostgresStorage struct {
	*pgxpool.Pool
}

// getExecQuerier determines which execQuerier to use, dbTx or the main pgxpool
func (p *PostgresStorage) getExecQuerier(dbTx pgx.Tx) execQuerier {
	if dbTx != nil {
		return &execQuerierWrapper{dbTx}
	}
	return &execQuerierWrapper{p.Pool}
}

// NewPostgresStorage creates a new Storage DB
func NewPostgresStorage(cfg Config) (*PostgresStorage, error) {
	log.Debugf("Create PostgresStorage with host[%v] port[%v] name[%v] maxConns[%v]", cfg.Host, cfg.Port, cfg.Name, cfg.MaxConns)
	config, err := pgxpool.ParseConfig(cfg.poolURL())
	if err != nil {
		log.Errorf("Unable to parse DB config: %v", err)
		return nil, err
	}
	db, err := pgxpool.ConnectConfig(context.Background(), config)
	if err != nil {
		log.Errorf("Unable to connect to database: %v", err)
		return nil, err
	}
	return &PostgresStorage{db}, nil
}

// Rollback rollbacks a db transaction.
func (p *PostgresStorage) Rollback(ctx context.Context, dbTx pgx.Tx) error {
	if dbTx != nil {
		return dbTx.Rollback(ctx)
	}
	return gerror.ErrNilDBTransaction
}

// Commit commits a db transaction.
func (p *PostgresStorage) Commit(ctx context.Context, dbTx pgx.Tx) error {
	if dbTx != nil {
		return dbTx.Commit(ctx)
	}
	return gerror.ErrNilDBTransaction
}

// BeginDBTransaction starts a transaction block.
func (p *PostgresStorage) BeginDBTransaction(ctx context.Context) (pgx.Tx, error) {
	return p.Begin(ctx)
}

// StoreOperation persists op in its own transaction: the operation row, the
// words it wrote and the events it emitted. A zero word deletes the row.
func (p *PostgresStorage) StoreOperation(ctx context.Context, op *ledger.Operation) error {
	dbTx, err := p.BeginDBTransaction(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "begin db transaction")
	}
	if err := p.storeOperation(ctx, op, dbTx); err != nil {
		if rollbackErr := p.Rollback(ctx, dbTx); rollbackErr != nil {
			log.Errorf("error rolling back operation %v: %v", op.ID, rollbackErr)
		}
		return err
	}
	return p.Commit(ctx, dbTx)
}

func (p *PostgresStorage) storeOperation(ctx context.Context, op *ledger.Operation, dbTx pgx.Tx) error {
	const addOperationSQL = "INSERT INTO vault.operation (id, name, caller, committed_at, duration_ms) VALUES ($1, $2, $3, $4, $5)"
	const upsertWordSQL = `INSERT INTO vault.storage (address, slot, value, operation_id) VALUES ($1, $2, $3, $4)
		ON CONFLICT (address, slot) DO UPDATE SET value = EXCLUDED.value, operation_id = EXCLUDED.operation_id`
	const deleteWordSQL = "DELETE FROM vault.storage WHERE address = $1 AND slot = $2"
	const addEventSQL = "INSERT INTO vault.event (operation_id, log_index, contract, name, payload) VALUES ($1, $2, $3, $4, $5)"

	e := p.getExecQuerier(dbTx)
	_, err := e.Exec(ctx, addOperationSQL, op.ID.String(), op.Name, op.Caller.Bytes(), op.CommittedAt, op.Duration.Milliseconds())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return gerror.ErrAlreadyStored
		}
		return err
	}
	for _, w := range op.Changes {
		if w.Value == (common.Hash{}) {
			_, err = e.Exec(ctx, deleteWordSQL, w.Address.Bytes(), w.Slot.Bytes())
		} else {
			_, err = e.Exec(ctx, upsertWordSQL, w.Address.Bytes(), w.Slot.Bytes(), w.Value.Bytes(), op.ID.String())
		}
		if err != nil {
			return pkgerrors.Wrapf(err, "store word %s/%s", w.Address.Hex(), w.Slot.Hex())
		}
	}
	for _, ev := range op.Events {
		if _, err := e.Exec(ctx, addEventSQL, op.ID.String(), ev.Index, ev.Contract.Bytes(), ev.Name, string(ev.Payload)); err != nil {
			return pkgerrors.Wrapf(err, "store event %s", ev.Name)
		}
	}
	return nil
}

// LoadState reads back every stored word.
func (p *PostgresStorage) LoadState(ctx context.Context) ([]state.StorageEntry, error) {
	const loadStateSQL = "SELECT address, slot, value FROM vault.storage ORDER BY address, slot"
	rows, err := p.getExecQuerier(nil).Query(ctx, loadStateSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []state.StorageEntry
	for rows.Next() {
		var address, slot, value []byte
		if err := rows.Scan(&address, &slot, &value); err != nil {
			return nil, err
		}
		entries = append(entries, state.StorageEntry{
			Address: common.BytesToAddress(address),
			Slot:    common.BytesToHash(slot),
			Value:   common.BytesToHash(value),
		})
	}
	return entries, rows.Err()
}

// GetOperation returns the operation with the given id and its events. Storage
// changes are not returned.
func (p *PostgresStorage) GetOperation(ctx context.Context, id uuid.UUID, dbTx pgx.Tx) (*ledger.Operation, error) {
	const getOperationSQL = "SELECT name, caller, committed_at, duration_ms FROM vault.operation WHERE id = $1"
	var (
		op         = &ledger.Operation{ID: id}
		caller     []byte
		durationMs int64
	)
	e := p.getExecQuerier(dbTx)
	err := e.QueryRow(ctx, getOperationSQL, id.String()).Scan(&op.Name, &caller, &op.CommittedAt, &durationMs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, gerror.ErrStorageNotFound
	} else if err != nil {
		return nil, err
	}
	op.Caller = common.BytesToAddress(caller)
	op.Duration = time.Duration(durationMs) * time.Millisecond

	const getOperationEventsSQL = `SELECT e.operation_id, o.committed_at, e.log_index, e.contract, e.name, e.payload
		FROM vault.event e INNER JOIN vault.operation o ON o.id = e.operation_id
		WHERE e.operation_id = $1 ORDER BY e.log_index`
	op.Events, err = p.queryEvents(ctx, e, getOperationEventsSQL, id.String())
	if err != nil {
		return nil, err
	}
	return op, nil
}

// GetEvents returns stored events matching q, newest first.
func (p *PostgresStorage) GetEvents(ctx context.Context, q ledger.EventQuery, dbTx pgx.Tx) ([]*ledger.EventRecord, error) {
	var (
		conds []string
		args  []interface{}
	)
	if q.Name != "" {
		args = append(args, q.Name)
		conds = append(conds, fmt.Sprintf("e.name = $%d", len(args)))
	}
	if q.Contract != (common.Address{}) {
		args = append(args, q.Contract.Bytes())
		conds = append(conds, fmt.Sprintf("e.contract = $%d", len(args)))
	}
	limit := q.Limit
	if limit == 0 {
		limit = defaultEventsLimit
	}
	args = append(args, limit, q.Offset)

	sql := `SELECT e.operation_id, o.committed_at, e.log_index, e.contract, e.name, e.payload
		FROM vault.event e INNER JOIN vault.operation o ON o.id = e.operation_id`
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += fmt.Sprintf(" ORDER BY o.committed_at DESC, e.log_index DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return p.queryEvents(ctx, p.getExecQuerier(dbTx), sql, args...)
}

func (p *PostgresStorage) queryEvents(ctx context.Context, e execQuerier, sql string, args ...interface{}) ([]*ledger.EventRecord, error) {
	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*ledger.EventRecord
	for rows.Next() {
		var (
			ev       ledger.EventRecord
			opID     string
			contract []byte
			payload  string
		)
		if err := rows.Scan(&opID, &ev.CommittedAt, &ev.Index, &contract, &ev.Name, &payload); err != nil {
			return nil, err
		}
		if ev.OperationID, err = uuid.Parse(opID); err != nil {
			return nil, pkgerrors.Wrap(err, "parse operation id")
		}
		ev.Contract = common.BytesToAddress(contract)
		ev.Payload = json.RawMessage(payload)
		events = append(events, &ev)
	}
	return events, rows.Err()
}
