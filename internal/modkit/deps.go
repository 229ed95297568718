package modkit

import (
	"astrochat/internal/modkit/repokit"
	"astrochat/internal/platform/config"
	"astrochat/internal/platform/logger"
	"astrochat/internal/platform/store"
	ptime "astrochat/internal/platform/time"
)

// Deps holds core dependencies passed to modules
// every store is optional; modules nil check what they use
type Deps struct {
	Log   *logger.Logger
	Cfg   config.Conf
	PG    repokit.TxRunner
	Lite  repokit.TxRunner
	CH    store.Clickhouse
	Clock ptime.Clock
}

// Now reads the injected clock, falling back to the system clock
func (d Deps) Now() ptime.Clock {
	if d.Clock == nil {
		return ptime.System{}
	}
	return d.Clock
}

// Named returns a component logger off the injected root, or the global one
func (d Deps) Named(component string) *logger.Logger {
	if d.Log == nil {
		return logger.Named(component)
	}
	l := d.Log.With().Str("component", component).Logger()
	return &l
}
