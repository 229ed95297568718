package repo

import (
	"context"
	"fmt"

	"astrochat/internal/modkit/repokit"
)

// PGSchema creates the quota table in postgres
const PGSchema = `
create table if not exists quota_records (
	identity_key            char(64)    primary key,
	first_name              text        not null,
	last_name               text        not null default '',
	date_of_birth           text        not null,
	place_of_birth          text        not null default '',
	time_of_birth           text        not null default '',
	lifetime_question_count bigint      not null default 0 check (lifetime_question_count >= 0),
	daily_question_count    integer     not null default 0 check (daily_question_count >= 0),
	last_question_date      date        not null,
	daily_limit             integer     not null default 10 check (daily_limit > 0),
	created_at              timestamptz not null default now(),
	updated_at              timestamptz not null default now()
);
`

// SQLiteSchema creates the quota table in sqlite; dates are YYYY-MM-DD text
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS quota_records (
	identity_key            TEXT    PRIMARY KEY,
	first_name              TEXT    NOT NULL,
	last_name               TEXT    NOT NULL DEFAULT '',
	date_of_birth           TEXT    NOT NULL,
	place_of_birth          TEXT    NOT NULL DEFAULT '',
	time_of_birth           TEXT    NOT NULL DEFAULT '',
	lifetime_question_count INTEGER NOT NULL DEFAULT 0 CHECK (lifetime_question_count >= 0),
	daily_question_count    INTEGER NOT NULL DEFAULT 0 CHECK (daily_question_count >= 0),
	last_question_date      TEXT    NOT NULL,
	daily_limit             INTEGER NOT NULL DEFAULT 10 CHECK (daily_limit > 0),
	created_at              TEXT    NOT NULL,
	updated_at              TEXT    NOT NULL
);
`

// EnsureSchema creates the quota table when missing
func EnsureSchema(ctx context.Context, q repokit.Queryer, d Dialect) error {
	var ddl string
	switch d {
	case DialectPostgres:
		ddl = PGSchema
	case DialectSQLite:
		ddl = SQLiteSchema
	default:
		return fmt.Errorf("quota: unknown dialect %q", d)
	}
	if _, err := q.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("quota: ensure schema (%s): %w", d, err)
	}
	return nil
}
