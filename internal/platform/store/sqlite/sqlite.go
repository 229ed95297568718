// Package sqlite provides an embedded sqlite database for single node deployments
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Config configures the sqlite file
type Config struct {
	// Path is a file path or ":memory:"
	Path string

	// BusyTimeout is how long a writer waits on a locked database (default 5s)
	BusyTimeout time.Duration
}

// DB wraps the database/sql handle for a sqlite file
type DB struct {
	SQL  *sql.DB
	Path string
}

// DSN builds the go-sqlite3 connection string for cfg
func DSN(cfg Config) string {
	bt := cfg.BusyTimeout
	if bt <= 0 {
		bt = 5 * time.Second
	}
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprint(bt.Milliseconds()))
	q.Set("_foreign_keys", "on")
	q.Set("_txlock", "immediate")
	if cfg.Path != ":memory:" {
		q.Set("_journal_mode", "WAL")
	}
	return "file:" + cfg.Path + "?" + q.Encode()
}

// Open opens the file and verifies it with a ping
// One connection keeps writes serialized and lets ":memory:" behave as a single database
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite: empty path")
	}
	db, err := sql.Open("sqlite3", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", cfg.Path, err)
	}
	return &DB{SQL: db, Path: cfg.Path}, nil
}

// Close closes the handle
func (d *DB) Close() error {
	if d == nil || d.SQL == nil {
		return nil
	}
	return d.SQL.Close()
}

// IsBusy reports whether err is SQLITE_BUSY or SQLITE_LOCKED, i.e. another
// writer held the database for longer than the busy timeout
func IsBusy(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}

// IsConstraint reports whether err is a constraint violation
func IsConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
