// Package module wires question analytics into the API using modkit
package module

import (
	"context"

	modkit "astrochat/internal/modkit"
	"astrochat/internal/modkit/httpkit"
	uhttp "astrochat/internal/services/api/usage/http"
	urepo "astrochat/internal/services/api/usage/repo"
	usvc "astrochat/internal/services/api/usage/service"
)

// Module implements the usage module
type Module struct {
	modkit.Base

	svc *usvc.Svc
}

// New constructs the usage module; without clickhouse events are discarded
// and /usage/daily answers 503
func New(ctx context.Context, deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	o := merge(FromConfig(deps.Cfg), overrides)
	b := modkit.Build(append([]modkit.Option{modkit.WithName("usage"), modkit.WithPrefix("/usage")}, opts...)...)

	var repo urepo.Repo
	if deps.CH != nil {
		if o.AutoMigrate {
			if err := urepo.EnsureSchema(ctx, deps.CH); err != nil {
				return nil, err
			}
		}
		repo = urepo.NewCH(deps.CH)
	}

	svc := usvc.New(repo, deps.Now(), usvc.Options{
		BatchSize:  o.BatchSize,
		FlushEvery: o.FlushEvery,
		Buffer:     o.Buffer,
	})

	log := deps.Named("usage")
	if svc.Enabled() {
		log.Info().Int("batch", o.BatchSize).Dur("flush_every", o.FlushEvery).Msg("usage analytics ready")
	} else {
		log.Info().Msg("usage analytics disabled, no clickhouse configured")
	}

	return &Module{
		Base: b.Base(func(r httpkit.Router) { uhttp.Register(r, svc) }),
		svc:  svc,
	}, nil
}

// Run drives the batching sink until ctx is done
func (m *Module) Run(ctx context.Context) error { return m.svc.Run(ctx) }

// Enabled reports whether events reach clickhouse
func (m *Module) Enabled() bool { return m.svc.Enabled() }
