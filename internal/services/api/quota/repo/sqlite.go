package repo

import (
	"context"
	"fmt"
	"time"

	"astrochat/internal/modkit/repokit"
	perr "astrochat/internal/platform/errors"
	ptime "astrochat/internal/platform/time"
	"astrochat/internal/services/api/quota/domain"
)

type (
	// SQLite is a binder that can bind the repo to a sqlite Queryer or TxRunner
	SQLite struct{}
	// liteQueries implements Repo for sqlite
	liteQueries struct{ q repokit.Queryer }
)

// NewSQLite returns a binder for the sqlite repo
func NewSQLite() repokit.Binder[Repo] { return SQLite{} }

// Bind wires a Queryer to the repo
func (SQLite) Bind(q repokit.Queryer) Repo { return &liteQueries{q: q} }

const liteColumns = `identity_key, first_name, last_name, date_of_birth, place_of_birth, time_of_birth,
lifetime_question_count, daily_question_count, last_question_date, daily_limit, created_at, updated_at`

const liteConsume = `
INSERT INTO quota_records (
	identity_key, first_name, last_name, date_of_birth, place_of_birth, time_of_birth,
	lifetime_question_count, daily_question_count, last_question_date, daily_limit, created_at, updated_at
) VALUES (?1, ?2, ?3, ?4, ?5, ?6, 1, 1, ?7, ?8, ?9, ?9)
ON CONFLICT (identity_key) DO UPDATE SET
	daily_question_count = CASE
		WHEN quota_records.last_question_date = excluded.last_question_date THEN quota_records.daily_question_count + 1
		ELSE 1
	END,
	lifetime_question_count = quota_records.lifetime_question_count + 1,
	last_question_date = excluded.last_question_date,
	updated_at = excluded.updated_at
WHERE quota_records.last_question_date <> excluded.last_question_date
   OR quota_records.daily_question_count < quota_records.daily_limit
RETURNING ` + liteColumns

const liteGet = `SELECT ` + liteColumns + ` FROM quota_records WHERE identity_key = ?1`

func (r *liteQueries) Get(ctx context.Context, key string) (domain.Record, error) {
	rec, err := scanLiteRecord(r.q.QueryRow(ctx, liteGet, key))
	if err != nil {
		if noRows(err) {
			return domain.Record{}, perr.ErrNotFound
		}
		return domain.Record{}, wrapLite(err, "quota: get record")
	}
	return rec, nil
}

func (r *liteQueries) Consume(ctx context.Context, in ConsumeArgs) (domain.Record, bool, error) {
	p := in.Person
	rec, err := scanLiteRecord(r.q.QueryRow(ctx, liteConsume,
		in.Key, p.FirstName, p.LastName, p.DateOfBirth, p.PlaceOfBirth, p.TimeOfBirth,
		ptime.DateString(in.Today), in.DailyLimit, in.Now.UTC().Format(time.RFC3339Nano),
	))
	if err == nil {
		return rec, true, nil
	}
	if !noRows(err) {
		return domain.Record{}, false, wrapLite(err, "quota: consume")
	}

	rec, err = r.Get(ctx, in.Key)
	if err != nil {
		return domain.Record{}, false, err
	}
	return rec, false, nil
}

func scanLiteRecord(row repokit.Row) (domain.Record, error) {
	var rec domain.Record
	var day, created, updated string
	err := row.Scan(
		&rec.IdentityKey, &rec.Person.FirstName, &rec.Person.LastName, &rec.Person.DateOfBirth,
		&rec.Person.PlaceOfBirth, &rec.Person.TimeOfBirth,
		&rec.LifetimeCount, &rec.DailyCount, &day, &rec.DailyLimit,
		&created, &updated,
	)
	if err != nil {
		return domain.Record{}, err
	}
	if rec.LastDate, err = time.Parse(time.DateOnly, day); err != nil {
		return domain.Record{}, fmt.Errorf("quota: bad last_question_date %q: %w", day, err)
	}
	// bookkeeping stamps are informational; tolerate hand edited rows
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return rec, nil
}

// wrapLite keeps Conflict (busy/locked) errors retryable and tags the rest as DB errors
func wrapLite(err error, msg string) error {
	if perr.IsCode(err, perr.ErrorCodeConflict) {
		return err
	}
	return perr.Wrap(err, perr.ErrorCodeDB, msg)
}
