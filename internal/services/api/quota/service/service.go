// Package service implements the quota tracker: key derivation, the daily
// consume transition, and the read only status view
package service

import (
	"context"
	"errors"
	"time"

	"astrochat/internal/core/identity"
	"astrochat/internal/modkit/repokit"
	perr "astrochat/internal/platform/errors"
	"astrochat/internal/platform/logger"
	ptime "astrochat/internal/platform/time"
	"astrochat/internal/services/api/quota/domain"
	"astrochat/internal/services/api/quota/repo"
)

// Service defines the quota service contract
type Service interface {
	domain.ServicePort
}

// Options tune the tracker
type Options struct {
	// DailyLimit applies to records created from now on (default 10)
	DailyLimit int
	// MaxAttempts bounds consume attempts on conflicts (default 3)
	MaxAttempts int
	// PeekFailOpen returns the default status when the store is unreachable
	PeekFailOpen bool
	// RetryBackoff is the pause before the second attempt, doubled after (default 20ms)
	RetryBackoff time.Duration
}

// Svc implements the quota service
type Svc struct {
	repo  repo.Repo
	clock ptime.Clock
	opts  Options
}

// trackingUnavailable is the message callers see when the store fails during consume
const trackingUnavailable = "question tracking unavailable"

// New constructs a quota service over a bound repo
func New(r repo.Repo, clock ptime.Clock, opts Options) *Svc {
	if r == nil {
		panic("quota.Service requires a non nil Repo")
	}
	if clock == nil {
		clock = ptime.System{}
	}
	if opts.DailyLimit <= 0 {
		opts.DailyLimit = domain.DefaultDailyLimit
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 20 * time.Millisecond
	}
	return &Svc{repo: r, clock: clock, opts: opts}
}

// DailyLimit returns the limit new records are created with
func (s *Svc) DailyLimit() int { return s.opts.DailyLimit }

// ResolveKey derives the identity key for p
func ResolveKey(p domain.Person) string { return identity.Key(p.FirstName, p.DateOfBirth) }

// CheckAndConsume records one question for p when today's count is below the limit
// The question that reaches the limit is allowed; only the one after it is denied
func (s *Svc) CheckAndConsume(ctx context.Context, p domain.Person) (domain.Decision, error) {
	key := ResolveKey(p)
	now := s.clock.Now().UTC()
	in := repo.ConsumeArgs{
		Key:        key,
		Person:     p,
		Today:      ptime.Day(now),
		Now:        now,
		DailyLimit: s.opts.DailyLimit,
	}
	ctx = logger.WithIdentity(ctx, identity.Short(key))
	log := logger.C(ctx)

	var (
		rec     domain.Record
		applied bool
	)
	err := repokit.Retry(ctx, repokit.RetryPolicy{
		Attempts: s.opts.MaxAttempts,
		Backoff:  s.opts.RetryBackoff,
		OnRetry: func(attempt int, err error) {
			log.Debug().Err(err).Int("attempt", attempt).Msg("quota consume conflict, retrying")
		},
	}, func(ctx context.Context) error {
		var err error
		rec, applied, err = s.repo.Consume(ctx, in)
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("quota consume failed")
		return domain.Decision{}, perr.Wrap(err, perr.ErrorCodeUnavailable, trackingUnavailable)
	}

	d := decide(rec, applied)
	log.Debug().
		Bool("allowed", d.AllowedThisRequest).
		Int("used", d.QuestionsUsedToday).
		Int("limit", d.DailyLimit).
		Msg("quota decision")
	return d, nil
}

func decide(rec domain.Record, applied bool) domain.Decision {
	if !applied {
		return domain.Decision{
			AllowedThisRequest: false,
			QuestionsUsedToday: rec.DailyCount,
			DailyLimit:         rec.DailyLimit,
			QuestionsRemaining: 0,
			CanAskMore:         false,
		}
	}
	remaining := max(0, rec.DailyLimit-rec.DailyCount)
	return domain.Decision{
		AllowedThisRequest: true,
		QuestionsUsedToday: rec.DailyCount,
		DailyLimit:         rec.DailyLimit,
		QuestionsRemaining: remaining,
		CanAskMore:         remaining > 0,
	}
}

// PeekStatus reports p's quota for today; it never creates or updates a record
func (s *Svc) PeekStatus(ctx context.Context, p domain.Person) (domain.Status, error) {
	key := ResolveKey(p)
	rec, err := s.repo.Get(ctx, key)
	switch {
	case errors.Is(err, perr.ErrNotFound):
		return s.fresh(s.opts.DailyLimit), nil
	case err != nil:
		if s.opts.PeekFailOpen && perr.IsTransient(err) {
			logger.C(logger.WithIdentity(ctx, identity.Short(key))).Warn().Err(err).Msg("quota peek degraded to defaults")
			return s.fresh(s.opts.DailyLimit), nil
		}
		return domain.Status{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "question status unavailable")
	}

	if !ptime.SameDay(rec.LastDate, s.clock.Now()) {
		return s.fresh(rec.DailyLimit), nil
	}
	return domain.Status{
		QuestionsUsed:      rec.DailyCount,
		DailyLimit:         rec.DailyLimit,
		QuestionsRemaining: max(0, rec.DailyLimit-rec.DailyCount),
		CanAsk:             rec.DailyCount < rec.DailyLimit,
	}, nil
}

func (s *Svc) fresh(limit int) domain.Status {
	return domain.Status{QuestionsUsed: 0, DailyLimit: limit, QuestionsRemaining: limit, CanAsk: true}
}
