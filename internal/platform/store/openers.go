package store

import (
	"context"
	"fmt"
	"time"

	chx "astrochat/internal/platform/store/ch"
	"astrochat/internal/platform/store/pg"
	"astrochat/internal/platform/store/sqlite"
)

// openPG builds the pool then waits for the server with capped exponential backoff
// the adapter is only published once a ping succeeds
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	var lastErr error
	for i, backoff := 0, 150*time.Millisecond; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pingCtx)
		cancel()
		if lastErr == nil {
			s.Log.Debug().Int("attempt", i+1).Msg("postgres reachable")
			return newPGAdapter(p), nil
		}

		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 2*time.Second)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

// openSQLite opens the embedded database file and wraps it with the sqlite adapter
func openSQLite(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	db, err := sqlite.Open(ctx, sqlite.Config{
		Path:        cfg.SQLite.Path,
		BusyTimeout: cfg.SQLite.BusyTimeout,
	})
	if err != nil {
		return nil, err
	}
	s.Log.Debug().Str("path", db.Path).Msg("sqlite opened")
	return newLiteAdapter(db), nil
}

func openCH(ctx context.Context, cfg Config, s *Store) (Clickhouse, error) {
	role := cfg.CH.ClientRole
	if role == "" {
		role = cfg.AppName
	}
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: role, Tag: cfg.CH.ClientTag})
	if err != nil {
		return nil, err
	}
	s.Log.Debug().Str("role", role).Msg("clickhouse connected")
	return newCHAdapter(c), nil
}
