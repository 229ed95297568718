package repo

import (
	"context"
	"sync"

	perr "astrochat/internal/platform/errors"
	ptime "astrochat/internal/platform/time"
	"astrochat/internal/services/api/quota/domain"
)

// Memory is a process local Repo; one mutex serializes every consume
type Memory struct {
	mu   sync.Mutex
	recs map[string]domain.Record

	// FailWith, when set, is returned by every call (test seam)
	FailWith error
}

// NewMemory returns an empty in-memory repo
func NewMemory() *Memory { return &Memory{recs: map[string]domain.Record{}} }

var _ Repo = (*Memory)(nil)

// Get returns a copy of the record for key
func (m *Memory) Get(ctx context.Context, key string) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return domain.Record{}, m.FailWith
	}
	rec, ok := m.recs[key]
	if !ok {
		return domain.Record{}, perr.ErrNotFound
	}
	return rec, nil
}

// Consume applies the same transition as the SQL upserts
func (m *Memory) Consume(ctx context.Context, in ConsumeArgs) (domain.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return domain.Record{}, false, m.FailWith
	}

	today := ptime.Day(in.Today)
	rec, ok := m.recs[in.Key]
	switch {
	case !ok:
		rec = domain.Record{
			IdentityKey:   in.Key,
			Person:        in.Person,
			LifetimeCount: 1,
			DailyCount:    1,
			LastDate:      today,
			DailyLimit:    in.DailyLimit,
			CreatedAt:     in.Now,
			UpdatedAt:     in.Now,
		}
	case !rec.LastDate.Equal(today):
		rec.DailyCount = 1
		rec.LifetimeCount++
		rec.LastDate = today
		rec.UpdatedAt = in.Now
	case rec.DailyCount < rec.DailyLimit:
		rec.DailyCount++
		rec.LifetimeCount++
		rec.UpdatedAt = in.Now
	default:
		return rec, false, nil
	}
	m.recs[in.Key] = rec
	return rec, true, nil
}

// Len reports how many records exist
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

// Put stores rec as is (test seam for seeding state)
func (m *Memory) Put(rec domain.Record) {
	m.mu.Lock()
	m.recs[rec.IdentityKey] = rec
	m.mu.Unlock()
}
