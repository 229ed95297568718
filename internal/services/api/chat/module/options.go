package module

import (
	"time"

	"astrochat/internal/adapters/llm/gemini"
	"astrochat/internal/platform/config"
	"astrochat/internal/services/api/chat/domain"
)

// Options controls the chat path and its model client
type Options struct {
	QuotaFailOpen bool
	MaxMessage    int

	// chat endpoint rate limit per client ip, zero disables
	RateLimit  int
	RateWindow time.Duration

	Gemini gemini.Options
}

// FromConfig reads CHAT_*, GEMINI_* and the chat rate limit from CORE_API_*
func FromConfig(cfg config.Conf) Options {
	cc := cfg.Prefix("CHAT_")
	gc := cfg.Prefix("GEMINI_")
	ac := cfg.Prefix("CORE_API_")
	return Options{
		QuotaFailOpen: cc.MayBool("QUOTA_FAIL_OPEN", true),
		MaxMessage:    cc.MayInt("MAX_MESSAGE", domain.DefaultMaxMessage),
		RateLimit:     ac.MayInt("RATE_CHAT_LIMIT", 100),
		RateWindow:    ac.MayDuration("RATE_CHAT_WINDOW", 15*time.Minute),
		Gemini: gemini.Options{
			APIKey:  gc.MayString("API_KEY", ""),
			Model:   gc.MayString("MODEL", gemini.DefaultModel),
			BaseURL: gc.MayString("BASE_URL", gemini.DefaultBaseURL),
			Timeout: gc.MayDuration("TIMEOUT", 15*time.Second),
		},
	}
}
