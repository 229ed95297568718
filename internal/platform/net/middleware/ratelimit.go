package middleware

import (
	"net"
	stdhttp "net/http"
	"strconv"
	"sync"
	"time"

	perr "astrochat/internal/platform/errors"
	pnet "astrochat/internal/platform/net"
)

// RateLimitOptions configures a fixed window limiter keyed by client ip
type RateLimitOptions struct {
	Limit   int
	Window  time.Duration
	Message string // error text on 429, defaults to a generic message

	// Now is a clock seam for tests
	Now func() time.Time
}

type window struct {
	count int
	reset time.Time
}

// limiter holds one fixed window per client
type limiter struct {
	mu      sync.Mutex
	opts    RateLimitOptions
	windows map[string]*window
	sweep   time.Time
}

// take counts a hit for key and reports whether it fits the window
func (l *limiter) take(key string) (ok bool, remaining int, reset time.Time) {
	now := l.opts.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	// drop expired windows once per window length so the map stays bounded
	if now.After(l.sweep) {
		for k, w := range l.windows {
			if !now.Before(w.reset) {
				delete(l.windows, k)
			}
		}
		l.sweep = now.Add(l.opts.Window)
	}

	w, found := l.windows[key]
	if !found || !now.Before(w.reset) {
		w = &window{reset: now.Add(l.opts.Window)}
		l.windows[key] = w
	}
	if w.count >= l.opts.Limit {
		return false, 0, w.reset
	}
	w.count++
	return true, l.opts.Limit - w.count, w.reset
}

// RateLimit limits each client ip to Limit requests per Window
// it sets RateLimit-Limit, RateLimit-Remaining and RateLimit-Reset on every response
// and answers 429 with the JSON envelope once the window is used up
func RateLimit(o RateLimitOptions) func(stdhttp.Handler) stdhttp.Handler {
	if o.Limit <= 0 || o.Window <= 0 {
		return func(next stdhttp.Handler) stdhttp.Handler { return next }
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Message == "" {
		o.Message = "Too many requests, please try again later."
	}
	l := &limiter{opts: o, windows: map[string]*window{}}

	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			ok, remaining, reset := l.take(ClientIP(r))

			secs := int(reset.Sub(o.Now()).Round(time.Second) / time.Second)
			if secs < 0 {
				secs = 0
			}
			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(o.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(secs))

			if !ok {
				h.Set("Retry-After", strconv.Itoa(secs))
				status, body := pnet.Error(perr.TooManyRequestsf("%s", o.Message), pnet.RequestID(r.Context()))
				pnet.Write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the host part of RemoteAddr
// forwarding headers are ignored here; RealIP earlier in the stack rewrites
// RemoteAddr when a trusted proxy sits in front
func ClientIP(r *stdhttp.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
