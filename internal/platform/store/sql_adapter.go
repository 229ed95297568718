package store

import (
	"context"
	"errors"
	"time"

	"astrochat/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgRunner is the statement surface shared by the pool and an open transaction
type pgRunner interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgPool is the part of *pgxpool.Pool the adapter needs
type pgPool interface {
	pgRunner
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// pgQuerier runs statements on r and reports each one to the pg tracer
type pgQuerier struct {
	r  pgRunner
	db *pg.PG
}

func (q pgQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := q.r.Exec(ctx, sql, args...)
	q.db.Observe(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return ct, nil
}

// Query reports timing up to the first row, not the full scan
func (q pgQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := q.r.Query(ctx, sql, args...)
	q.db.Observe(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgRows{rs}, nil
}

// QueryRow defers the trace until Scan so the scan error is included
func (q pgQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return pgRow{
		Row: q.r.QueryRow(ctx, sql, args...),
		done: func(err error) {
			q.db.Observe(ctx, sql, args, start, err)
		},
	}
}

// pgAdapter is the TxRunner the quota repo binds to when QUOTA_STORE=postgres
type pgAdapter struct {
	pgQuerier
	pool pgPool
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{pgQuerier: pgQuerier{r: p.Pool, db: p}, pool: p.Pool}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.pool == nil {
		return errors.New("pg: nil adapter")
	}
	return a.pool.Ping(ctx)
}

func (a *pgAdapter) Close() error {
	a.pool.Close()
	return nil
}

// Tx commits when fn returns nil and rolls back otherwise
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(pgQuerier{r: tx, db: a.db}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type pgRow struct {
	pgx.Row
	done func(error)
}

func (r pgRow) Scan(dst ...any) error {
	err := r.Row.Scan(dst...)
	r.done(err)
	return err
}

type pgRows struct{ pgx.Rows }

func (r pgRows) Columns() []string {
	fds := r.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}
	return cols
}
