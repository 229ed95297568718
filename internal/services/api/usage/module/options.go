package module

import (
	"time"

	"astrochat/internal/platform/config"
)

// Options controls the analytics sink
type Options struct {
	BatchSize   int
	FlushEvery  time.Duration
	Buffer      int
	AutoMigrate bool
}

// FromConfig reads USAGE_*
func FromConfig(cfg config.Conf) Options {
	uc := cfg.Prefix("USAGE_")
	return Options{
		BatchSize:   uc.MayInt("BATCH_SIZE", 100),
		FlushEvery:  uc.MayDuration("FLUSH_EVERY", 2*time.Second),
		Buffer:      uc.MayInt("BUFFER", 1024),
		AutoMigrate: uc.MayBool("AUTO_MIGRATE", true),
	}
}

func merge(base, over Options) Options {
	if over.BatchSize != 0 {
		base.BatchSize = over.BatchSize
	}
	if over.FlushEvery != 0 {
		base.FlushEvery = over.FlushEvery
	}
	if over.Buffer != 0 {
		base.Buffer = over.Buffer
	}
	if over.AutoMigrate {
		base.AutoMigrate = true
	}
	return base
}
