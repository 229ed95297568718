// Package api provides the HTTP API for the application
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"astrochat/internal/core/version"
	"astrochat/internal/platform/config"
	"astrochat/internal/platform/logger"
	phttp "astrochat/internal/platform/net/http"
	"astrochat/internal/platform/net/middleware"
	"astrochat/internal/platform/store"
	ptime "astrochat/internal/platform/time"

	"astrochat/internal/modkit"
	"astrochat/internal/modkit/httpkit"
	"astrochat/internal/modkit/module"
	"astrochat/internal/modkit/swaggerkit"

	chatdom "astrochat/internal/services/api/chat/domain"
	chatmod "astrochat/internal/services/api/chat/module"
	metamod "astrochat/internal/services/api/meta/module"
	quotadom "astrochat/internal/services/api/quota/domain"
	quotamod "astrochat/internal/services/api/quota/module"
	usagemod "astrochat/internal/services/api/usage/module"

	"github.com/go-chi/chi/v5"
)

// Messages for responses the modules never see
const (
	NotFoundMessage = "Endpoint not found in this cosmic realm"
	PanicMessage    = "Something went wrong. The stars are realigning..."
)

// devOrigins are allowed when CORE_API_CORS_ORIGINS is empty outside production
var devOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// Options are the API options
type Options struct {
	// Config is the root view; modules read their own prefixes
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Clock          ptime.Clock
	EnableSwagger  bool
	EnableProfiler bool

	// LLM overrides the gemini client built from GEMINI_*
	LLM chatdom.LLM
}

// Mounted exposes what main drives after routes are mounted
type Mounted struct {
	Quota *quotamod.Module
	Usage *usagemod.Module
	Chat  *chatmod.Module
}

// Run drives background work (the usage sink) until ctx is done
func (m *Mounted) Run(ctx context.Context) error { return m.Usage.Run(ctx) }

// Mount mounts the API service onto the given router
func Mount(ctx context.Context, r phttp.Router, opt Options) (*Mounted, error) {
	st := opt.Store
	if st == nil {
		st = &store.Store{}
	}

	// shared deps for modules
	deps := modkit.Deps{
		Log:   opt.Logger,
		Cfg:   opt.Config,
		PG:    st.PG,
		Lite:  st.Lite,
		CH:    st.CH,
		Clock: opt.Clock,
	}

	quota, err := quotamod.New(ctx, deps, quotamod.Options{})
	if err != nil {
		return nil, err
	}
	usage, err := usagemod.New(ctx, deps, usagemod.Options{})
	if err != nil {
		return nil, err
	}

	// chat consumes the tracker and the usage recorder through their ports
	chat, err := chatmod.New(deps, chatmod.Options{}, modkit.WithPorts(chatmod.Ports{
		Quota: module.MustPortsOf[quotadom.ServicePort](quota),
		Usage: module.MustPortsOf[usagemod.Port](usage),
		LLM:   opt.LLM,
	}))
	if err != nil {
		return nil, err
	}

	mods := []module.Module{
		metamod.New(deps),
		quota,
		usage,
		chat,
	}

	stack := httpkit.Stack(StackOptions(opt.Config))

	// Swagger + profiler
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// root info route carries the same stack as the API
	r.Group(func(g httpkit.Router) {
		g.Use(stack...)
		g.Get("/", rootInfo)
	})

	// versioned API with the shared middleware stack
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// the registry feeds /meta/service
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	return &Mounted{Quota: quota, Usage: usage, Chat: chat}, nil
}

// StackOptions derives CORS, slow request and panic settings from CORE_API_*
func StackOptions(root config.Conf) httpkit.StackOptions {
	ac := root.Prefix("CORE_API_")
	env := strings.ToLower(ac.MayString("ENV", "development"))
	origins := ac.MayCSV("CORS_ORIGINS", nil)
	if len(origins) == 0 && env != "production" {
		origins = devOrigins
	}
	return httpkit.StackOptions{
		CORSOrigins:  origins,
		Slow:         ac.MayDuration("SLOW_REQUEST", 2*time.Second),
		PanicMessage: PanicMessage,
		Timeout:      ac.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		TrustProxy:   ac.MayBool("TRUST_PROXY", false),
	}
}

// ServerOptions are the mux hooks main passes to phttp.NewServer
// they run before any route is mounted, so they may add middleware to the root mux
func ServerOptions() []func(*chi.Mux) {
	return []func(*chi.Mux){
		func(m *chi.Mux) { m.Use(middleware.Heartbeat("/health")) },
		phttp.WithNotFound(NotFoundMessage),
	}
}

// RootInfo is the payload of GET /
type RootInfo struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func rootInfo(w http.ResponseWriter, r *http.Request) {
	phttp.RespondOK(w, r, RootInfo{
		Message: "Astro Chat Backend API",
		Version: version.Info().Version,
		Endpoints: map[string]string{
			"chat":   "POST /api/v1/chat",
			"status": "POST /api/v1/quota/status",
			"health": "GET /api/v1/meta/health",
			"usage":  "GET /api/v1/usage/daily",
			"docs":   "GET /api/docs",
		},
	})
}
