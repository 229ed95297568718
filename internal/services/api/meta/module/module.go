// Package module wires meta endpoints into the API
package module

import (
	"strings"

	"astrochat/internal/core/version"
	modkit "astrochat/internal/modkit"
	"astrochat/internal/modkit/httpkit"
	registry "astrochat/internal/modkit/module"
	metahttp "astrochat/internal/services/api/meta/http"
)

// Module serves health, readiness, version and service info
type Module struct {
	modkit.Base
}

// New builds the meta module; it reads CORE_API_ENV and whether GEMINI_API_KEY is set
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	d := metahttp.Deps{
		ServiceName: version.Service,
		StartedAt:   deps.Now().Now(),
		Clock:       deps.Now(),
		Env:         deps.Cfg.Prefix("CORE_API_").MayString("ENV", "development"),
		HasGemini:   strings.TrimSpace(deps.Cfg.Prefix("GEMINI_").MayString("API_KEY", "")) != "",
		Modules:     registry.Names,
		PG:          deps.PG,
		Lite:        deps.Lite,
		CH:          deps.CH,
	}
	return &Module{Base: b.Base(func(r httpkit.Router) { metahttp.Register(r, d) })}
}

// Ports is nil; nothing consumes meta
func (m *Module) Ports() any { return nil }
