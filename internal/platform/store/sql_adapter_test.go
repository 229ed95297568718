package store

import (
	"context"
	"errors"
	"testing"

	"astrochat/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRunner records statements and answers from canned values
type fakeRunner struct {
	stmts   []string
	execErr error
	scanErr error
	cols    []string
}

func (f *fakeRunner) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.stmts = append(f.stmts, sql)
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeRunner) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	f.stmts = append(f.stmts, sql)
	return fakeRows{cols: f.cols}, nil
}

func (f *fakeRunner) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	f.stmts = append(f.stmts, sql)
	return fakeRow{err: f.scanErr}
}

type fakeRow struct{ err error }

func (r fakeRow) Scan(dst ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dst[0].(*int); ok {
		*p = 2
	}
	return nil
}

// fakeRows panics on anything but FieldDescriptions
type fakeRows struct {
	pgx.Rows
	cols []string
}

func (r fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i].Name = c
	}
	return out
}

type fakeTx struct {
	pgx.Tx
	*fakeRunner
	committed, rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.fakeRunner.Exec(ctx, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.fakeRunner.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.fakeRunner.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rolledBack = true; return nil }

type fakePool struct {
	*fakeRunner
	tx      *fakeTx
	pingErr error
	closed  bool
}

func (p *fakePool) Begin(context.Context) (pgx.Tx, error) { return p.tx, nil }
func (p *fakePool) Ping(context.Context) error            { return p.pingErr }
func (p *fakePool) Close()                                { p.closed = true }

type events struct{ got []pg.QueryEvent }

func (e *events) OnQuery(_ context.Context, ev pg.QueryEvent) { e.got = append(e.got, ev) }

func newFakeAdapter(r *fakeRunner) (*pgAdapter, *fakePool, *events) {
	ev := &events{}
	db := &pg.PG{Tracer: ev, SlowMs: -1}
	pool := &fakePool{fakeRunner: r, tx: &fakeTx{fakeRunner: &fakeRunner{}}}
	return &pgAdapter{pgQuerier: pgQuerier{r: pool, db: db}, pool: pool}, pool, ev
}

func TestPGAdapter_Statements(t *testing.T) {
	scanErr := errors.New("no rows in result set")
	tests := []struct {
		name    string
		runner  *fakeRunner
		run     func(a *pgAdapter) error
		wantErr error
	}{
		{
			name:   "exec reports rows affected",
			runner: &fakeRunner{},
			run: func(a *pgAdapter) error {
				ct, err := a.Exec(context.Background(), "update quota_records set daily_limit = $1", 5)
				if err == nil && ct.RowsAffected() != 1 {
					return errors.New("rows affected not passed through")
				}
				return err
			},
		},
		{
			name:    "exec error is returned and traced",
			runner:  &fakeRunner{execErr: errors.New("deadlock detected")},
			run:     func(a *pgAdapter) error { _, err := a.Exec(context.Background(), "delete from quota_records"); return err },
			wantErr: errors.New("deadlock detected"),
		},
		{
			name:   "query row scans",
			runner: &fakeRunner{},
			run: func(a *pgAdapter) error {
				var n int
				if err := a.QueryRow(context.Background(), "select daily_question_count from quota_records").Scan(&n); err != nil {
					return err
				}
				if n != 2 {
					return errors.New("scan did not fill dest")
				}
				return nil
			},
		},
		{
			name:    "scan error reaches caller",
			runner:  &fakeRunner{scanErr: scanErr},
			run:     func(a *pgAdapter) error { var n int; return a.QueryRow(context.Background(), "select 1").Scan(&n) },
			wantErr: scanErr,
		},
		{
			name:   "query exposes column names",
			runner: &fakeRunner{cols: []string{"identity_key", "daily_question_count"}},
			run: func(a *pgAdapter) error {
				rs, err := a.Query(context.Background(), "select identity_key, daily_question_count from quota_records")
				if err != nil {
					return err
				}
				if cols := rs.Columns(); len(cols) != 2 || cols[1] != "daily_question_count" {
					return errors.New("columns not mapped")
				}
				return nil
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, _, ev := newFakeAdapter(tc.runner)
			err := tc.run(a)
			if (err == nil) != (tc.wantErr == nil) || (err != nil && err.Error() != tc.wantErr.Error()) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if len(ev.got) != 1 {
				t.Fatalf("want one trace event, got %d", len(ev.got))
			}
			if tc.wantErr != nil && ev.got[0].Err == nil {
				t.Fatal("trace event lost the error")
			}
		})
	}
}

func TestPGAdapter_Tx(t *testing.T) {
	rollback := errors.New("limit reached")
	tests := []struct {
		name       string
		fnErr      error
		commit     bool
		rolledBack bool
	}{
		{"commit on success", nil, true, false},
		{"rollback on error", rollback, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, pool, ev := newFakeAdapter(&fakeRunner{})
			err := a.Tx(context.Background(), func(q RowQuerier) error {
				if _, err := q.Exec(context.Background(), "update quota_records set daily_question_count = 0"); err != nil {
					return err
				}
				return tc.fnErr
			})
			if !errors.Is(err, tc.fnErr) {
				t.Fatalf("err = %v, want %v", err, tc.fnErr)
			}
			if pool.tx.committed != tc.commit || pool.tx.rolledBack != tc.rolledBack {
				t.Fatalf("committed=%v rolledBack=%v", pool.tx.committed, pool.tx.rolledBack)
			}
			if len(pool.tx.stmts) != 1 || len(pool.stmts) != 0 {
				t.Fatal("statement should run on the tx, not the pool")
			}
			if len(ev.got) != 1 {
				t.Fatalf("tx statements should be traced, got %d events", len(ev.got))
			}
		})
	}
}

func TestPGAdapter_PingClose(t *testing.T) {
	a, pool, _ := newFakeAdapter(&fakeRunner{})
	if err := a.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	pool.pingErr = errors.New("connection refused")
	if err := a.Ping(context.Background()); err == nil {
		t.Fatal("want ping error")
	}
	if err := a.Close(); err != nil || !pool.closed {
		t.Fatalf("Close err=%v closed=%v", err, pool.closed)
	}

	var nilAdapter *pgAdapter
	if err := nilAdapter.Ping(context.Background()); err == nil {
		t.Fatal("nil adapter should fail ping")
	}
}
