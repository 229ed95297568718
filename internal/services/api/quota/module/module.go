// Package module wires the quota tracker into the API using modkit
package module

import (
	"context"
	"fmt"
	"strings"

	modkit "astrochat/internal/modkit"
	"astrochat/internal/modkit/httpkit"
	"astrochat/internal/modkit/repokit"
	qhttp "astrochat/internal/services/api/quota/http"
	qrepo "astrochat/internal/services/api/quota/repo"
	qsvc "astrochat/internal/services/api/quota/service"
)

// Module implements the quota module
type Module struct {
	modkit.Base

	svc     *qsvc.Svc
	backend string
}

// New constructs the quota module over the store picked by o.Store
// non zero fields of overrides win over QUOTA_* config
func New(ctx context.Context, deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	o := merge(FromConfig(deps.Cfg), overrides)
	b := modkit.Build(append([]modkit.Option{modkit.WithName("quota"), modkit.WithPrefix("/quota")}, opts...)...)

	repo, backend, err := openRepo(ctx, deps, o)
	if err != nil {
		return nil, err
	}

	svc := qsvc.New(repo, deps.Now(), qsvc.Options{
		DailyLimit:   o.DailyLimit,
		MaxAttempts:  o.MaxAttempts,
		PeekFailOpen: o.PeekFailOpen,
	})

	log := deps.Named("quota")
	if backend == StoreMemory {
		log.Warn().Msg("quota counts live in process memory and reset on restart")
	}
	log.Info().
		Str("store", backend).
		Int("daily_limit", svc.DailyLimit()).
		Bool("peek_fail_open", o.PeekFailOpen).
		Msg("quota tracker ready")

	statusLimit := httpkit.RateLimit(o.StatusLimit, o.StatusWindow,
		"Too many status requests from this IP, please slow down.")
	return &Module{
		Base: b.Base(func(r httpkit.Router) {
			qhttp.Register(r, svc, statusLimit)
		}),
		svc:     svc,
		backend: backend,
	}, nil
}

// openRepo resolves the configured store to a bound repo, creating the schema when asked
func openRepo(ctx context.Context, deps modkit.Deps, o Options) (qrepo.Repo, string, error) {
	kind := strings.ToLower(strings.TrimSpace(o.Store))
	if kind == "" || kind == StoreAuto {
		switch {
		case deps.PG != nil:
			kind = StorePostgres
		case deps.Lite != nil:
			kind = StoreSQLite
		default:
			kind = StoreMemory
		}
	}

	var (
		db      repokit.TxRunner
		dialect qrepo.Dialect
		binder  repokit.Binder[qrepo.Repo]
	)
	switch kind {
	case StoreMemory:
		return qrepo.NewMemory(), kind, nil
	case StorePostgres:
		db, dialect, binder = deps.PG, qrepo.DialectPostgres, qrepo.NewPG()
	case StoreSQLite:
		db, dialect, binder = deps.Lite, qrepo.DialectSQLite, qrepo.NewSQLite()
	default:
		return nil, "", fmt.Errorf("quota: unknown store %q", o.Store)
	}
	if db == nil {
		return nil, "", fmt.Errorf("quota: store %q selected but not configured", kind)
	}
	if o.AutoMigrate {
		if err := qrepo.EnsureSchema(ctx, db, dialect); err != nil {
			return nil, "", err
		}
	}
	return repokit.MustBind(binder, db), kind, nil
}

func merge(base, over Options) Options {
	if over.DailyLimit != 0 {
		base.DailyLimit = over.DailyLimit
	}
	if over.Store != "" {
		base.Store = over.Store
	}
	if over.MaxAttempts != 0 {
		base.MaxAttempts = over.MaxAttempts
	}
	if over.PeekFailOpen {
		base.PeekFailOpen = true
	}
	if over.AutoMigrate {
		base.AutoMigrate = true
	}
	if over.StatusLimit != 0 {
		base.StatusLimit = over.StatusLimit
	}
	if over.StatusWindow != 0 {
		base.StatusWindow = over.StatusWindow
	}
	return base
}

// Backend reports which store the tracker runs on
func (m *Module) Backend() string { return m.backend }
