package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"astrochat/internal/platform/net/middleware"
)

// StackOptions tunes the shared middleware stack
type StackOptions struct {
	// CORSOrigins are the allowed browser origins, empty allows none
	CORSOrigins []string
	// Slow marks access log lines as warn at or above this duration
	Slow time.Duration
	// PanicMessage is the 500 error text for recovered panics
	PanicMessage string
	// Timeout cancels request contexts, defaults to 30s
	Timeout time.Duration
	// TrustProxy takes the client address from forwarding headers
	// only enable it behind a proxy that overwrites them
	TrustProxy bool
}

// Stack builds the API middleware slice from options
func Stack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	// tracing / correlation
	mws := []func(http.Handler) http.Handler{middleware.RequestID()}
	if o.TrustProxy {
		mws = append(mws, middleware.RealIP())
	}
	return append(mws,
		middleware.LogContext,

		// safety
		middleware.Recover(o.PanicMessage),

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.Slow}),

		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins:   o.CORSOrigins,
			AllowCredentials: true,
			ExposedHeaders:   []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset"},
		}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	)
}

// RateLimit applies a per client fixed window limit to a module's routes
func RateLimit(limit int, window time.Duration, msg string) func(http.Handler) http.Handler {
	return middleware.RateLimit(middleware.RateLimitOptions{Limit: limit, Window: window, Message: msg})
}
