package module

import (
	"time"

	"astrochat/internal/platform/config"
	"astrochat/internal/services/api/quota/domain"
)

// Store names accepted by QUOTA_STORE
const (
	StoreAuto     = "auto"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// Options controls the quota tracker and its backing store
type Options struct {
	DailyLimit   int
	Store        string // auto picks postgres, then sqlite, then memory
	MaxAttempts  int
	PeekFailOpen bool
	AutoMigrate  bool

	// status endpoint rate limit per client ip, zero disables
	StatusLimit  int
	StatusWindow time.Duration
}

// FromConfig reads QUOTA_* and the status rate limit from CORE_API_*
func FromConfig(cfg config.Conf) Options {
	qc := cfg.Prefix("QUOTA_")
	ac := cfg.Prefix("CORE_API_")
	return Options{
		DailyLimit:   qc.MayInt("DAILY_LIMIT", domain.DefaultDailyLimit),
		Store:        qc.MayEnum("STORE", StoreAuto, StoreAuto, StorePostgres, StoreSQLite, StoreMemory),
		MaxAttempts:  qc.MayInt("MAX_ATTEMPTS", 3),
		PeekFailOpen: qc.MayBool("PEEK_FAIL_OPEN", false),
		AutoMigrate:  qc.MayBool("AUTO_MIGRATE", true),
		StatusLimit:  ac.MayInt("RATE_STATUS_LIMIT", 10),
		StatusWindow: ac.MayDuration("RATE_STATUS_WINDOW", time.Minute),
	}
}
