package repokit

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "astrochat/internal/platform/errors"
	"astrochat/internal/platform/store"
	"astrochat/internal/platform/testkit"
)

type fakeQ struct{ store.RowQuerier }

type boundRepo struct{ q Queryer }

type binder struct{}

func (binder) Bind(q Queryer) boundRepo { return boundRepo{q: q} }

func TestMustBind(t *testing.T) {
	q := fakeQ{}
	if got := MustBind[boundRepo](binder{}, q); got.q != q {
		t.Fatal("queryer not bound")
	}
	testkit.MustPanic(t, func() { MustBind[boundRepo](binder{}, nil) })
}

func TestRetry(t *testing.T) {
	conflict := perr.Newf(perr.ErrorCodeConflict, "database is locked")
	fatal := perr.Newf(perr.ErrorCodeDB, "syntax error")

	tests := []struct {
		name      string
		attempts  int
		errs      []error // returned per call, nil after the list ends
		wantCalls int
		wantErr   error
		retried   int
	}{
		{"first call wins", 3, nil, 1, nil, 0},
		{"conflict then success", 3, []error{conflict}, 2, nil, 1},
		{"conflicts exhaust attempts", 3, []error{conflict, conflict, conflict, conflict}, 3, conflict, 2},
		{"non retryable stops at once", 3, []error{fatal}, 1, fatal, 0},
		{"zero attempts means one", 0, []error{conflict}, 1, conflict, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls, retried := 0, 0
			err := Retry(context.Background(), RetryPolicy{
				Attempts: tc.attempts,
				Backoff:  time.Microsecond,
				OnRetry:  func(int, error) { retried++ },
			}, func(context.Context) error {
				calls++
				if calls <= len(tc.errs) {
					return tc.errs[calls-1]
				}
				return nil
			})
			if !errors.Is(err, tc.wantErr) && err != tc.wantErr {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if calls != tc.wantCalls || retried != tc.retried {
				t.Fatalf("calls=%d retried=%d, want %d/%d", calls, retried, tc.wantCalls, tc.retried)
			}
		})
	}
}

func TestRetry_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, RetryPolicy{
		Attempts:  5,
		Backoff:   time.Hour,
		Retryable: func(error) bool { return true },
		OnRetry:   func(int, error) { cancel() },
	}, func(context.Context) error {
		calls++
		return errors.New("busy")
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}
