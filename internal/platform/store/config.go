package store

import (
	"time"

	"astrochat/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	// AppName is reported as application_name and as the clickhouse client role
	AppName string

	PG     PGConfig
	SQLite SQLiteConfig
	CH     CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // 20 when unset
	PingTimeout    time.Duration // 3s when unset
}

// SQLiteConfig configures the embedded sqlite file
type SQLiteConfig struct {
	Enabled     bool
	Path        string
	BusyTimeout time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string

	// ClientRole and ClientTag are reported in system.query_log
	ClientRole string
	ClientTag  string
}

// FromConfig reads SERVICE_PGSQL_*, SERVICE_SQLITE_* and SERVICE_CLICKHOUSE_*
// a backend is enabled exactly when its DBURL or PATH is set
func FromConfig(root config.Conf, app string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	lite := root.Prefix("SERVICE_SQLITE_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")

	c := Config{
		AppName: app,
		PG: PGConfig{
			URL:            pg.MayString("DBURL", ""),
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 500),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		SQLite: SQLiteConfig{
			Path:        lite.MayString("PATH", ""),
			BusyTimeout: lite.MayDuration("BUSY_TIMEOUT", 5*time.Second),
		},
		CH: CHConfig{
			URL:        ch.MayString("DBURL", ""),
			ClientRole: ch.MayString("CLIENT_ROLE", app),
			ClientTag:  ch.MayString("CLIENT_TAG", "api"),
		},
	}
	c.PG.Enabled = c.PG.URL != ""
	c.SQLite.Enabled = c.SQLite.Path != ""
	c.CH.Enabled = c.CH.URL != ""
	return c
}
