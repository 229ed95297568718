// Package store opens the optional storage backends and hides each driver
// behind the small seams repos are written against
package store

import (
	"context"
	"errors"
	"fmt"

	"astrochat/internal/platform/logger"
)

// Row is a single row result
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set; Close is idempotent
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag describes the outcome of Exec
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos use, inside or outside a transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn in a transaction, committing when fn returns nil
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam: batch inserts and plain queries
type Clickhouse interface {
	Insert(ctx context.Context, table string, data any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) error
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Store holds whichever backends Open enabled; the rest stay nil
type Store struct {
	Log logger.Logger

	PG   TxRunner
	Lite TxRunner
	CH   Clickhouse
}

// Option mutates Store during Open
type Option func(*Store)

// WithLogger sets the logger openers and the pg tracer write to
func WithLogger(log logger.Logger) Option { return func(s *Store) { s.Log = log } }

// Open brings up every enabled backend in pg, sqlite, clickhouse order
// if one fails the ones already open are closed again
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		o(s)
	}

	steps := []struct {
		name string
		on   bool
		open func() error
	}{
		{"pg", cfg.PG.Enabled, func() (err error) { s.PG, err = openPG(ctx, cfg, s); return }},
		{"sqlite", cfg.SQLite.Enabled, func() (err error) { s.Lite, err = openSQLite(ctx, cfg, s); return }},
		{"ch", cfg.CH.Enabled, func() (err error) { s.CH, err = openCH(ctx, cfg, s); return }},
	}
	for _, st := range steps {
		if !st.on {
			continue
		}
		if err := st.open(); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("store: open %s: %w", st.name, err)
		}
	}
	return s, nil
}

type seam struct {
	name string
	v    any
}

// seams lists the configured backends; nil interfaces are skipped
func (s *Store) seams() []seam {
	var out []seam
	if s.PG != nil {
		out = append(out, seam{"pg", s.PG})
	}
	if s.Lite != nil {
		out = append(out, seam{"sqlite", s.Lite})
	}
	if s.CH != nil {
		out = append(out, seam{"ch", s.CH})
	}
	return out
}

// Guard pings every configured backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil")
	}
	var errs []error
	for _, sm := range s.seams() {
		if p, ok := sm.v.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", sm.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases every configured backend
func (s *Store) Close(context.Context) error {
	var errs []error
	for _, sm := range s.seams() {
		switch c := sm.v.(type) {
		case interface{ Close() error }:
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", sm.name, err))
			}
		case interface{ Close() }:
			c.Close()
		}
	}
	return errors.Join(errs...)
}
