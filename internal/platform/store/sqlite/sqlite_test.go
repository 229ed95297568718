package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
)

func TestDSN(t *testing.T) {
	got := DSN(Config{Path: "/tmp/x.db", BusyTimeout: 2 * time.Second})
	for _, want := range []string{"file:/tmp/x.db?", "_busy_timeout=2000", "_journal_mode=WAL", "_txlock=immediate"} {
		if !strings.Contains(got, want) {
			t.Fatalf("DSN %q missing %q", got, want)
		}
	}
	if mem := DSN(Config{Path: ":memory:"}); strings.Contains(mem, "WAL") {
		t.Fatalf("memory DSN should not request WAL: %q", mem)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpen_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "astro.db")
	db, err := Open(context.Background(), Config{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.SQL.ExecContext(ctx, `CREATE TABLE t (k TEXT PRIMARY KEY)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.SQL.ExecContext(ctx, `INSERT INTO t (k) VALUES ('a')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err = db.SQL.ExecContext(ctx, `INSERT INTO t (k) VALUES ('a')`)
	if !IsConstraint(err) {
		t.Fatalf("duplicate insert should be a constraint error, got %v", err)
	}
}

func TestIsBusy(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{sqlite3.Error{Code: sqlite3.ErrBusy}, true},
		{fmt.Errorf("wrapped: %w", sqlite3.Error{Code: sqlite3.ErrLocked}), true},
		{sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{errors.New("nope"), false},
		{nil, false},
	}
	for i, c := range cases {
		if got := IsBusy(c.err); got != c.want {
			t.Fatalf("case %d: IsBusy = %v, want %v", i, got, c.want)
		}
	}
}
