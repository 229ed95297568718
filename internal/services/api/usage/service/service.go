// Package service buffers question events for clickhouse and serves daily counts
package service

import (
	"context"
	"sync/atomic"
	"time"

	perr "astrochat/internal/platform/errors"
	"astrochat/internal/platform/logger"
	ptime "astrochat/internal/platform/time"
	"astrochat/internal/services/api/usage/domain"
	"astrochat/internal/services/api/usage/repo"

	"github.com/google/uuid"
)

// Service is the usage contract seen by http and other modules
type Service interface {
	domain.RecorderPort
	domain.ReaderPort
}

// Options tune the event sink
type Options struct {
	BatchSize  int           // rows per insert (default 100)
	FlushEvery time.Duration // max wait before a partial batch is written (default 2s)
	Buffer     int           // queued events before new ones are dropped (default 1024)
}

// Svc implements Service; with a nil repo it records nothing and reads fail
type Svc struct {
	repo    repo.Repo
	clock   ptime.Clock
	opts    Options
	events  chan domain.Event
	dropped atomic.Int64
}

// DefaultDays is the window /usage/daily returns without a days query
const DefaultDays = 7

// New constructs the usage service; r may be nil when analytics is off
func New(r repo.Repo, clock ptime.Clock, opts Options) *Svc {
	if clock == nil {
		clock = ptime.System{}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = 2 * time.Second
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 1024
	}
	s := &Svc{repo: r, clock: clock, opts: opts}
	if r != nil {
		s.events = make(chan domain.Event, opts.Buffer)
	}
	return s
}

// Enabled reports whether events reach a store
func (s *Svc) Enabled() bool { return s.repo != nil }

// Dropped counts events lost to a full buffer
func (s *Svc) Dropped() int64 { return s.dropped.Load() }

// Record queues ev without blocking; a full buffer drops it
func (s *Svc) Record(ev domain.Event) {
	if s.events == nil {
		return
	}
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.At.IsZero() {
		ev.At = s.clock.Now()
	}
	select {
	case s.events <- ev:
	default:
		if n := s.dropped.Add(1); n == 1 || n%100 == 0 {
			logger.Named("usage").Warn().Int64("dropped", n).Msg("usage buffer full, dropping events")
		}
	}
}

// Run drains the queue into clickhouse until ctx is done, then flushes what is left
func (s *Svc) Run(ctx context.Context) error {
	if s.events == nil {
		<-ctx.Done()
		return nil
	}
	log := logger.Named("usage-sink")
	ticker := time.NewTicker(s.opts.FlushEvery)
	defer ticker.Stop()

	batch := make([]domain.Event, 0, s.opts.BatchSize)
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case ev := <-s.events:
					batch = append(batch, ev)
					continue
				default:
				}
				break
			}
			// the request context is gone; give the final write its own deadline
			fctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.flush(fctx, batch)
			cancel()
			log.Info().Int64("dropped", s.Dropped()).Msg("usage sink stopped")
			return nil
		case ev := <-s.events:
			batch = append(batch, ev)
			if len(batch) >= s.opts.BatchSize {
				s.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

// flush writes batch in BatchSize chunks; failures are logged and the rows discarded
func (s *Svc) flush(ctx context.Context, batch []domain.Event) {
	for len(batch) > 0 {
		n := min(len(batch), s.opts.BatchSize)
		if err := s.repo.Insert(ctx, batch[:n]); err != nil {
			logger.Named("usage-sink").Error().Err(err).Int("rows", n).Msg("usage insert failed")
		}
		batch = batch[n:]
	}
}

// Daily returns per day outcome counts for the last in.Days UTC days, today included
func (s *Svc) Daily(ctx context.Context, in domain.DailyInput) ([]domain.DailyRow, error) {
	if s.repo == nil {
		return nil, perr.Unavailablef("usage analytics disabled")
	}
	days := in.Days
	if days <= 0 {
		days = DefaultDays
	}
	since := ptime.Day(s.clock.Now()).AddDate(0, 0, -(days - 1))
	rows, err := s.repo.Daily(ctx, since)
	if err != nil {
		logger.C(ctx).Error().Err(err).Msg("usage daily query failed")
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "usage analytics unavailable")
	}
	if rows == nil {
		rows = []domain.DailyRow{}
	}
	return rows, nil
}
