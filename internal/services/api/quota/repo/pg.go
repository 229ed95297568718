package repo

import (
	"context"

	"astrochat/internal/modkit/repokit"
	perr "astrochat/internal/platform/errors"
	"astrochat/internal/services/api/quota/domain"
)

type (
	// PG is a binder that can bind the repo to a postgres Queryer or TxRunner
	PG struct{}
	// pgQueries implements Repo for postgres
	pgQueries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the postgres repo
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &pgQueries{q: q} }

const pgColumns = `identity_key, first_name, last_name, date_of_birth, place_of_birth, time_of_birth,
lifetime_question_count, daily_question_count, last_question_date, daily_limit, created_at, updated_at`

// the WHERE on the update arm keeps a full day untouched; RETURNING is then empty
const pgConsume = `
insert into quota_records as qr (
	identity_key, first_name, last_name, date_of_birth, place_of_birth, time_of_birth,
	lifetime_question_count, daily_question_count, last_question_date, daily_limit, created_at, updated_at
) values ($1, $2, $3, $4, $5, $6, 1, 1, $7, $8, $9, $9)
on conflict (identity_key) do update set
	daily_question_count = case
		when qr.last_question_date = excluded.last_question_date then qr.daily_question_count + 1
		else 1
	end,
	lifetime_question_count = qr.lifetime_question_count + 1,
	last_question_date = excluded.last_question_date,
	updated_at = excluded.updated_at
where qr.last_question_date <> excluded.last_question_date
   or qr.daily_question_count < qr.daily_limit
returning ` + pgColumns

const pgGet = `select ` + pgColumns + ` from quota_records where identity_key = $1`

func (r *pgQueries) Get(ctx context.Context, key string) (domain.Record, error) {
	rec, err := scanRecord(r.q.QueryRow(ctx, pgGet, key))
	if err != nil {
		if noRows(err) {
			return domain.Record{}, perr.ErrNotFound
		}
		return domain.Record{}, perr.FromPostgres(err, "quota: get record")
	}
	return rec, nil
}

func (r *pgQueries) Consume(ctx context.Context, in ConsumeArgs) (domain.Record, bool, error) {
	p := in.Person
	rec, err := scanRecord(r.q.QueryRow(ctx, pgConsume,
		in.Key, p.FirstName, p.LastName, p.DateOfBirth, p.PlaceOfBirth, p.TimeOfBirth,
		in.Today, in.DailyLimit, in.Now,
	))
	if err == nil {
		return rec, true, nil
	}
	if !noRows(err) {
		return domain.Record{}, false, perr.FromPostgres(err, "quota: consume")
	}

	// limit reached today; report the row as it stands
	rec, err = r.Get(ctx, in.Key)
	if err != nil {
		return domain.Record{}, false, err
	}
	return rec, false, nil
}

func scanRecord(row repokit.Row) (domain.Record, error) {
	var rec domain.Record
	err := row.Scan(
		&rec.IdentityKey, &rec.Person.FirstName, &rec.Person.LastName, &rec.Person.DateOfBirth,
		&rec.Person.PlaceOfBirth, &rec.Person.TimeOfBirth,
		&rec.LifetimeCount, &rec.DailyCount, &rec.LastDate, &rec.DailyLimit,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.Record{}, err
	}
	rec.LastDate = rec.LastDate.UTC()
	return rec, nil
}
