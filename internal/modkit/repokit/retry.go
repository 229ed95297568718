package repokit

import (
	"context"
	"time"

	perr "astrochat/internal/platform/errors"
)

// RetryPolicy bounds Retry
type RetryPolicy struct {
	// Attempts is the total number of calls, at least 1
	Attempts int
	// Backoff is the pause before the second call, doubled after each retry
	Backoff time.Duration
	// Retryable decides whether an error earns another call; nil means perr.Retryable
	Retryable func(error) bool
	// OnRetry is told about each error that is about to be retried
	OnRetry func(attempt int, err error)
}

// Retry calls fn until it succeeds, fails with a non retryable error, or runs out of attempts
// a cancelled ctx during backoff ends the loop with ctx.Err()
func Retry(ctx context.Context, p RetryPolicy, fn func(context.Context) error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = perr.Retryable
	}
	backoff := p.Backoff
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil || !retryable(err) || attempt >= max(1, p.Attempts) {
			return err
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		if err := sleep(ctx, backoff); err != nil {
			return err
		}
		backoff *= 2
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
