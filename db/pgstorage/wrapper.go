package pgstorage

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/patagonfinance/vault-service/log"
	"github.com/patagonfinance/vault-service/utils"
)

// execQuerierWrapper logs every query with its duration and the trace id of the request
type execQuerierWrapper struct {
	execQuerier
}

func (w *execQuerierWrapper) logger(ctx context.Context) *log.Logger {
	return log.WithFields(utils.TraceID, ctx.Value(utils.CtxTraceID))
}

func (w *execQuerierWrapper) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	startTime := time.Now()
	tag, err := w.execQuerier.Exec(ctx, sql, arguments...)
	w.logger(ctx).Debugf("DB query, method[Exec], sql[%v] rowsAffected[%v] err[%v] processTime[%v]",
		removeNewLine(sql), tag.RowsAffected(), err, time.Since(startTime).String())
	return tag, err
}

func (w *execQuerierWrapper) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	startTime := time.Now()
	rows, err := w.execQuerier.Query(ctx, sql, args...)
	w.logger(ctx).Debugf("DB query, method[Query], sql[%v] arguments[%v] err[%v] processTime[%v]",
		removeNewLine(sql), args, err, time.Since(startTime).String())
	return rows, err
}

func (w *execQuerierWrapper) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	startTime := time.Now()
	row := w.execQuerier.QueryRow(ctx, sql, args...)
	w.logger(ctx).Debugf("DB query, method[QueryRow], sql[%v] arguments[%v] processTime[%v]",
		removeNewLine(sql), args, time.Since(startTime).String())
	return row
}

func (w *execQuerierWrapper) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	startTime := time.Now()
	res, err := w.execQuerier.CopyFrom(ctx, tableName, columnNames, rowSrc)
	w.logger(ctx).Debugf("DB query, method[CopyFrom], tableName[%v] res[%v] err[%v] processTime[%v]",
		tableName, res, err, time.Since(startTime).String())
	return res, err
}

func removeNewLine(s string) string {
	return strings.Replace(s, "\n", " ", -1)
}
