package store

import (
	"context"
	stdsql "database/sql"
	"errors"
	"path/filepath"
	"testing"

	perr "astrochat/internal/platform/errors"
	"astrochat/internal/platform/store/sqlite"

	"github.com/mattn/go-sqlite3"
)

func openLite(t *testing.T) *liteAdapter {
	t.Helper()
	db, err := sqlite.Open(context.Background(), sqlite.Config{Path: filepath.Join(t.TempDir(), "a.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return newLiteAdapter(db)
}

func TestLiteAdapter_ExecQueryRow(t *testing.T) {
	a := openLite(t)
	ctx := context.Background()

	if _, err := a.Exec(ctx, `CREATE TABLE kv (k TEXT PRIMARY KEY, v INTEGER NOT NULL)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	tag, err := a.Exec(ctx, `INSERT INTO kv (k, v) VALUES (?1, ?2), (?3, ?4)`, "a", 1, "b", 2)
	if err != nil || tag.RowsAffected() != 2 {
		t.Fatalf("insert: tag=%v err=%v", tag, err)
	}

	var v int
	if err := a.QueryRow(ctx, `SELECT v FROM kv WHERE k = ?1`, "b").Scan(&v); err != nil || v != 2 {
		t.Fatalf("queryrow v=%d err=%v", v, err)
	}
	if err := a.QueryRow(ctx, `SELECT v FROM kv WHERE k = ?1`, "zz").Scan(&v); !errors.Is(err, stdsql.ErrNoRows) {
		t.Fatalf("want ErrNoRows, got %v", err)
	}

	rows, err := a.Query(ctx, `SELECT k, v FROM kv ORDER BY k`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	if cols := rows.Columns(); len(cols) != 2 || cols[0] != "k" {
		t.Fatalf("columns = %v", cols)
	}
	n := 0
	for rows.Next() {
		n++
	}
	if rows.Err() != nil || n != 2 {
		t.Fatalf("n=%d err=%v", n, rows.Err())
	}
}

func TestLiteAdapter_TxRollback(t *testing.T) {
	a := openLite(t)
	ctx := context.Background()
	if _, err := a.Exec(ctx, `CREATE TABLE kv (k TEXT PRIMARY KEY)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	err := a.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, `INSERT INTO kv (k) VALUES ('x')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	var n int
	if err := a.QueryRow(ctx, `SELECT count(*) FROM kv`).Scan(&n); err != nil || n != 0 {
		t.Fatalf("rollback failed: n=%d err=%v", n, err)
	}
}

func TestLiteErr_MapsBusyToConflict(t *testing.T) {
	err := liteErr(sqlite3.Error{Code: sqlite3.ErrBusy})
	if !perr.IsCode(err, perr.ErrorCodeConflict) || !perr.Retryable(err) {
		t.Fatalf("busy should map to retryable conflict, got %v", err)
	}
	if liteErr(nil) != nil {
		t.Fatalf("nil stays nil")
	}
}

func TestLiteErr_MapsConstraintToDuplicateKey(t *testing.T) {
	err := liteErr(sqlite3.Error{Code: sqlite3.ErrConstraint})
	if !perr.IsCode(err, perr.ErrorCodeDuplicateKey) || perr.Retryable(err) {
		t.Fatalf("constraint should map to a non retryable duplicate key, got %v", err)
	}
}
