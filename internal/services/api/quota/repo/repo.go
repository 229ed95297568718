// Package repo persists quota records in postgres, sqlite, or process memory
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	"astrochat/internal/services/api/quota/domain"

	"github.com/jackc/pgx/v5"
)

// Repo is the persistence surface the quota service needs
type Repo interface {
	// Get returns the record for key or perr.ErrNotFound
	Get(ctx context.Context, key string) (domain.Record, error)

	// Consume atomically applies one question for in.Key:
	// creates the record (daily=1), resets a stale day (daily=1), or increments
	// when daily < daily_limit. applied=false means the day was already full and
	// nothing was written; the returned record is then the current row
	Consume(ctx context.Context, in ConsumeArgs) (rec domain.Record, applied bool, err error)
}

// ConsumeArgs carries one consume attempt
type ConsumeArgs struct {
	Key        string
	Person     domain.Person
	Today      time.Time // UTC midnight
	Now        time.Time
	DailyLimit int // used only when the record is created
}

// Dialect selects the SQL flavour for schema and statements
type Dialect string

// Supported dialects
const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, stdsql.ErrNoRows)
}
