// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"astrochat/internal/core/version"
	"astrochat/internal/modkit/httpkit"
	ptime "astrochat/internal/platform/time"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Clock       ptime.Clock
	Env         string
	HasGemini   bool

	// Modules lists mounted modules; nil reports none
	Modules func() []string

	// store seams; nil means not configured
	PG   any
	Lite any
	CH   any
}

// readyTimeout bounds all store pings of one /ready call
const readyTimeout = 2 * time.Second

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Clock == nil {
		d.Clock = ptime.System{}
	}
	h := handlers(d)
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/service", h.service)
}

type handlers Deps

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// Environment reports which integrations are configured, never their values
type Environment struct {
	Env           string `json:"env"            example:"development"`
	HasGeminiKey  bool   `json:"has_gemini_key" example:"true"`
	HasPostgres   bool   `json:"has_postgres"   example:"false"`
	HasSQLite     bool   `json:"has_sqlite"     example:"true"`
	HasClickhouse bool   `json:"has_clickhouse" example:"false"`
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK          bool        `json:"ok"      example:"true"`
	Service     string      `json:"service" example:"astrochat-api"`
	Started     string      `json:"started" example:"2025-09-03T13:00:00Z"`
	Now         string      `json:"now"     example:"2025-09-03T13:05:00Z"`
	Environment Environment `json:"environment"`
}

// @Summary Health check with configured integrations
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.ServiceName,
		Started: stamp(h.StartedAt),
		Now:     stamp(h.Clock.Now()),
		Environment: Environment{
			Env:           h.Env,
			HasGeminiKey:  h.HasGemini,
			HasPostgres:   h.PG != nil,
			HasSQLite:     h.Lite != nil,
			HasClickhouse: h.CH != nil,
		},
	}, nil
}

// Check statuses; a store that cannot be pinged is unknown
const (
	CheckOK      = "ok"
	CheckFail    = "fail"
	CheckSkipped = "skipped"
	CheckUnknown = "unknown"
)

// ReadyCheck is one store probe
type ReadyCheck struct {
	Name   string `json:"name"            example:"pg"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse rolls the checks up: any fail is fail, any unknown is degraded
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

func probe(ctx context.Context, name string, store any) ReadyCheck {
	c := ReadyCheck{Name: name, Status: CheckUnknown}
	switch p := store.(type) {
	case nil:
		c.Status = CheckSkipped
	case Pinger:
		if err := p.Ping(ctx); err != nil {
			c.Status, c.Error = CheckFail, err.Error()
		} else {
			c.Status = CheckOK
		}
	}
	return c
}

// @Summary Readiness probe with dependency checks
// @Description A store that is not configured is skipped; the quota tracker then runs in memory
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	out := ReadyResponse{
		Status: CheckOK,
		Checks: []ReadyCheck{probe(ctx, "pg", h.PG), probe(ctx, "sqlite", h.Lite), probe(ctx, "ch", h.CH)},
	}
	for _, c := range out.Checks {
		switch {
		case c.Status == CheckFail:
			out.Status = CheckFail
		case c.Status == CheckUnknown && out.Status == CheckOK:
			out.Status = "degraded"
		}
	}
	out.Now = stamp(h.Clock.Now())
	return out, nil
}

// ServiceResponse is the service payload
type ServiceResponse struct {
	Name    string   `json:"name"    example:"astrochat-api"`
	Started string   `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64    `json:"uptime"  example:"300"`
	Modules []string `json:"modules"`
}

// @Summary Service uptime and mounted modules
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h handlers) service(*http.Request) (any, error) {
	out := ServiceResponse{
		Name:    h.ServiceName,
		Started: stamp(h.StartedAt),
		Uptime:  int64(h.Clock.Now().Sub(h.StartedAt) / time.Second),
		Modules: []string{},
	}
	if h.Modules != nil {
		out.Modules = h.Modules()
	}
	return out, nil
}
