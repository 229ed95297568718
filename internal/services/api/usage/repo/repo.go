// Package repo stores question events in clickhouse
package repo

import (
	"context"
	"fmt"
	"time"

	"astrochat/internal/platform/store"
	"astrochat/internal/services/api/usage/domain"
)

// Table is the events table name inside the DSN database
const Table = "question_events"

// Schema creates the events table; rows expire after a year
const Schema = `
CREATE TABLE IF NOT EXISTS question_events (
	event_id       UUID,
	ts             DateTime64(3, 'UTC'),
	day            Date,
	identity       String,
	outcome        LowCardinality(String),
	fallback       Bool,
	model          LowCardinality(String),
	latency_ms     UInt32,
	questions_used UInt16
)
ENGINE = MergeTree
PARTITION BY toYYYYMM(day)
ORDER BY (day, outcome, ts)
TTL day + INTERVAL 365 DAY
`

// Repo is the analytics store surface
type Repo interface {
	Insert(ctx context.Context, evs []domain.Event) error
	Daily(ctx context.Context, since time.Time) ([]domain.DailyRow, error)
}

type chRepo struct{ ch store.Clickhouse }

// NewCH binds the repo to a clickhouse seam
func NewCH(ch store.Clickhouse) Repo { return &chRepo{ch: ch} }

// EnsureSchema creates the events table when missing
func EnsureSchema(ctx context.Context, ch store.Clickhouse) error {
	if err := ch.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("usage: ensure schema: %w", err)
	}
	return nil
}

// Insert writes events in one batch in column order
func (r *chRepo) Insert(ctx context.Context, evs []domain.Event) error {
	if len(evs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(evs))
	for _, e := range evs {
		at := e.At.UTC()
		rows = append(rows, []any{
			e.ID,
			at,
			time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
			e.Identity,
			string(e.Outcome),
			e.Fallback,
			e.Model,
			clampU32(e.Latency.Milliseconds()),
			clampU16(e.QuestionsUsed),
		})
	}
	return r.ch.Insert(ctx, Table, rows)
}

// Daily returns one row per day from since (inclusive, UTC) in day order
func (r *chRepo) Daily(ctx context.Context, since time.Time) ([]domain.DailyRow, error) {
	sql := `
		SELECT
			toString(day)                  AS d,
			countIf(outcome = 'allowed')   AS allowed,
			countIf(outcome = 'denied')    AS denied,
			countIf(outcome = 'fail_open') AS fail_open,
			countIf(fallback)              AS fallbacks,
			uniqExact(identity)            AS identities
		FROM question_events
		WHERE day >= ?
		GROUP BY d
		ORDER BY d
	`
	rs, err := r.ch.Query(ctx, sql, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []domain.DailyRow
	for rs.Next() {
		var row domain.DailyRow
		if err := rs.Scan(&row.Day, &row.Allowed, &row.Denied, &row.FailOpen, &row.Fallbacks, &row.Identities); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rs.Err()
}

func clampU32(n int64) uint32 {
	switch {
	case n < 0:
		return 0
	case n > int64(^uint32(0)):
		return ^uint32(0)
	}
	return uint32(n)
}

func clampU16(n int) uint16 {
	switch {
	case n < 0:
		return 0
	case n > int(^uint16(0)):
		return ^uint16(0)
	}
	return uint16(n)
}
