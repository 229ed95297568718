// Package module wires chat into the API using modkit
package module

import (
	"errors"

	"astrochat/internal/adapters/llm/gemini"
	modkit "astrochat/internal/modkit"
	"astrochat/internal/modkit/httpkit"
	"astrochat/internal/services/api/chat/domain"
	chttp "astrochat/internal/services/api/chat/http"
	csvc "astrochat/internal/services/api/chat/service"
	qdomain "astrochat/internal/services/api/quota/domain"
	udomain "astrochat/internal/services/api/usage/domain"
)

// Module implements the chat module
type Module struct {
	modkit.Base

	svc *csvc.Svc
}

// Ports declares what chat needs from other modules
// LLM is optional; when nil a gemini client is built from GEMINI_*
type Ports struct {
	Quota qdomain.ServicePort
	Usage udomain.RecorderPort
	LLM   domain.LLM
}

// New constructs the chat module; the quota port is required
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("chat"), modkit.WithPrefix("/chat")}, opts...)...)
	o := merge(FromConfig(deps.Cfg), overrides)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Quota == nil {
		return nil, errors.New("chat module requires the quota port")
	}

	log := deps.Named("chat")
	llm := injected.LLM
	model := o.Gemini.Model
	if llm == nil {
		c, err := gemini.New(o.Gemini)
		switch {
		case errors.Is(err, gemini.ErrNoAPIKey):
			log.Warn().Msg("GEMINI_API_KEY not set, every answer will be a fallback reply")
		case err != nil:
			return nil, err
		default:
			llm, model = c, c.Model()
		}
	}

	svc := csvc.New(injected.Quota, llm, injected.Usage, deps.Now(), csvc.Options{
		QuotaFailOpen: o.QuotaFailOpen,
		MaxMessage:    o.MaxMessage,
		Model:         model,
	})

	log.Info().
		Str("model", model).
		Bool("llm", llm != nil).
		Bool("quota_fail_open", o.QuotaFailOpen).
		Int("max_message", o.MaxMessage).
		Msg("chat ready")

	limit := httpkit.RateLimit(o.RateLimit, o.RateWindow,
		"Too many requests from this IP, please try again later.")
	return &Module{
		Base: b.Base(func(r httpkit.Router) { chttp.Register(r, svc, limit) }),
		svc:  svc,
	}, nil
}

func merge(base, over Options) Options {
	if over.QuotaFailOpen {
		base.QuotaFailOpen = true
	}
	if over.MaxMessage != 0 {
		base.MaxMessage = over.MaxMessage
	}
	if over.RateLimit != 0 {
		base.RateLimit = over.RateLimit
	}
	if over.RateWindow != 0 {
		base.RateWindow = over.RateWindow
	}
	if over.Gemini.APIKey != "" {
		base.Gemini.APIKey = over.Gemini.APIKey
	}
	if over.Gemini.Model != "" {
		base.Gemini.Model = over.Gemini.Model
	}
	if over.Gemini.BaseURL != "" {
		base.Gemini.BaseURL = over.Gemini.BaseURL
	}
	if over.Gemini.Timeout != 0 {
		base.Gemini.Timeout = over.Gemini.Timeout
	}
	if over.Gemini.HTTPClient != nil {
		base.Gemini.HTTPClient = over.Gemini.HTTPClient
	}
	return base
}

// Ports returns the module ports, a domain.ServicePort
func (m *Module) Ports() any { return domain.ServicePort(m.svc) }
