package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"astrochat/internal/platform/store"
	"astrochat/internal/services/api/usage/domain"

	"github.com/google/uuid"
)

type fakeRows struct {
	data [][]any
	i    int
	err  error
}

func (f *fakeRows) Next() bool { f.i++; return f.i <= len(f.data) }
func (f *fakeRows) Scan(dest ...any) error {
	row := f.data[f.i-1]
	*(dest[0].(*string)) = row[0].(string)
	for j := 1; j < len(dest); j++ {
		*(dest[j].(*uint64)) = row[j].(uint64)
	}
	return nil
}
func (f *fakeRows) Err() error        { return f.err }
func (f *fakeRows) Close()            {}
func (f *fakeRows) Columns() []string { return nil }

type fakeCH struct {
	table string
	rows  [][]any
	sql   string
	args  []any
	out   *fakeRows
	execs []string
	err   error
}

func (f *fakeCH) Insert(_ context.Context, table string, data any) error {
	f.table = table
	f.rows = data.([][]any)
	return f.err
}
func (f *fakeCH) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.sql, f.args = sql, args
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}
func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return f.err
}
func (f *fakeCH) Close() error { return nil }

func TestInsert_ColumnOrder(t *testing.T) {
	f := &fakeCH{}
	r := NewCH(f)
	id := uuid.New()
	at := time.Date(2024, 1, 3, 2, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))

	err := r.Insert(context.Background(), []domain.Event{{
		ID:            id,
		At:            at,
		Identity:      "abc123def456",
		Outcome:       domain.OutcomeDenied,
		Fallback:      true,
		Model:         "gemini-1.5-flash",
		Latency:       1500 * time.Millisecond,
		QuestionsUsed: 10,
	}})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if f.table != Table || len(f.rows) != 1 {
		t.Fatalf("table=%q rows=%d", f.table, len(f.rows))
	}
	row := f.rows[0]
	if len(row) != 9 {
		t.Fatalf("row has %d columns, want 9", len(row))
	}
	if row[0] != id || row[3] != "abc123def456" || row[4] != "denied" || row[5] != true {
		t.Fatalf("row = %#v", row)
	}
	// early morning of the 3rd in IST is still the 2nd in UTC
	if day := row[2].(time.Time); !day.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day = %v", day)
	}
	if row[7] != uint32(1500) || row[8] != uint16(10) {
		t.Fatalf("latency/used = %#v %#v", row[7], row[8])
	}
}

func TestInsert_EmptyIsNoop(t *testing.T) {
	f := &fakeCH{err: errors.New("must not be called")}
	if err := NewCH(f).Insert(context.Background(), nil); err != nil {
		t.Fatalf("Insert(nil) = %v", err)
	}
}

func TestDaily_Scans(t *testing.T) {
	f := &fakeCH{out: &fakeRows{data: [][]any{
		{"2024-01-01", uint64(5), uint64(1), uint64(0), uint64(2), uint64(3)},
		{"2024-01-02", uint64(7), uint64(0), uint64(1), uint64(0), uint64(4)},
	}}}
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows, err := NewCH(f).Daily(context.Background(), since)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(rows) != 2 || rows[0].Day != "2024-01-01" || rows[1].Allowed != 7 || rows[1].FailOpen != 1 || rows[0].Identities != 3 {
		t.Fatalf("rows = %+v", rows)
	}
	if !strings.Contains(f.sql, "FROM question_events") || len(f.args) != 1 || !f.args[0].(time.Time).Equal(since) {
		t.Fatalf("query = %q args=%v", f.sql, f.args)
	}
}

func TestDaily_QueryError(t *testing.T) {
	boom := errors.New("ch down")
	if _, err := NewCH(&fakeCH{err: boom}).Daily(context.Background(), time.Now()); !errors.Is(err, boom) {
		t.Fatalf("want ch down, got %v", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	f := &fakeCH{}
	if err := EnsureSchema(context.Background(), f); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if len(f.execs) != 1 || !strings.Contains(f.execs[0], "CREATE TABLE IF NOT EXISTS question_events") {
		t.Fatalf("execs = %v", f.execs)
	}

	f.err = errors.New("denied")
	if err := EnsureSchema(context.Background(), f); err == nil {
		t.Fatal("expected schema error")
	}
}

func TestClamp(t *testing.T) {
	if clampU32(-5) != 0 || clampU32(1<<40) != ^uint32(0) || clampU32(42) != 42 {
		t.Fatal("clampU32")
	}
	if clampU16(-1) != 0 || clampU16(70000) != ^uint16(0) || clampU16(9) != 9 {
		t.Fatal("clampU16")
	}
}
