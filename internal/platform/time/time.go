// Package time contains time related helpers
package time

import (
	"sync"
	"time"
)

// Clock is the source of "now" for anything that depends on the calendar
type Clock interface {
	Now() time.Time
}

// System is the wall clock, always reported in UTC
type System struct{}

// Now returns the current UTC time
func (System) Now() time.Time { return time.Now().UTC() }

// Day truncates t to its UTC calendar date (midnight UTC)
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar date
func SameDay(a, b time.Time) bool { return Day(a).Equal(Day(b)) }

// DateString formats t as a UTC YYYY-MM-DD string
func DateString(t time.Time) string { return t.UTC().Format(time.DateOnly) }

// Frozen is a settable clock for tests
type Frozen struct {
	mu sync.Mutex
	t  time.Time
}

// NewFrozen returns a Frozen clock pinned at t
func NewFrozen(t time.Time) *Frozen { return &Frozen{t: t.UTC()} }

// Now returns the pinned time
func (f *Frozen) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Set moves the clock to t
func (f *Frozen) Set(t time.Time) {
	f.mu.Lock()
	f.t = t.UTC()
	f.mu.Unlock()
}

// Advance moves the clock forward by d
func (f *Frozen) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}
