package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	perr "astrochat/internal/platform/errors"
	"astrochat/internal/platform/store/sqlite"
)

// liteAdapter wraps sqlite.DB and implements RowQuerier + TxRunner
// SQLITE_BUSY/LOCKED surface as perr Conflict so callers can retry them
type liteAdapter struct {
	db *sqlite.DB
}

func newLiteAdapter(db *sqlite.DB) *liteAdapter { return &liteAdapter{db: db} }

func (a *liteAdapter) Ping(ctx context.Context) error {
	if a == nil || a.db == nil {
		return errors.New("sqlite: nil adapter")
	}
	return a.db.SQL.PingContext(ctx)
}

func (a *liteAdapter) Close() error { return a.db.Close() }

func (a *liteAdapter) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return liteExec(ctx, a.db.SQL, q, args)
}

func (a *liteAdapter) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return liteQuery(ctx, a.db.SQL, q, args)
}

func (a *liteAdapter) QueryRow(ctx context.Context, q string, args ...any) Row {
	return liteRow{r: a.db.SQL.QueryRowContext(ctx, q, args...)}
}

func (a *liteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return liteErr(err)
	}
	if err := fn(liteTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return liteErr(tx.Commit())
}

// sqlRunner is satisfied by both *sql.DB and *sql.Tx
type sqlRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func liteExec(ctx context.Context, r sqlRunner, q string, args []any) (CommandTag, error) {
	res, err := r.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, liteErr(err)
	}
	return liteTag{res: res}, nil
}

func liteQuery(ctx context.Context, r sqlRunner, q string, args []any) (Rows, error) {
	rs, err := r.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, liteErr(err)
	}
	return liteRows{r: rs}, nil
}

type liteTx struct{ tx *sql.Tx }

func (t liteTx) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return liteExec(ctx, t.tx, q, args)
}

func (t liteTx) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return liteQuery(ctx, t.tx, q, args)
}

func (t liteTx) QueryRow(ctx context.Context, q string, args ...any) Row {
	return liteRow{r: t.tx.QueryRowContext(ctx, q, args...)}
}

type liteRow struct{ r *sql.Row }

func (x liteRow) Scan(dst ...any) error { return liteErr(x.r.Scan(dst...)) }

type liteRows struct{ r *sql.Rows }

func (x liteRows) Next() bool            { return x.r.Next() }
func (x liteRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x liteRows) Err() error            { return liteErr(x.r.Err()) }
func (x liteRows) Close()                { _ = x.r.Close() }
func (x liteRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}

type liteTag struct{ res sql.Result }

func (t liteTag) RowsAffected() int64 {
	n, _ := t.res.RowsAffected()
	return n
}

func (t liteTag) String() string { return fmt.Sprintf("rows=%d", t.RowsAffected()) }

func liteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case sqlite.IsBusy(err):
		return perr.Wrap(err, perr.ErrorCodeConflict, "sqlite busy")
	case sqlite.IsConstraint(err):
		return perr.Wrap(err, perr.ErrorCodeDuplicateKey, "sqlite constraint")
	}
	return err
}
