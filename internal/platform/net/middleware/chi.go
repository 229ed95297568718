// Package middleware holds the HTTP middleware the API stack is built from
// chi's stock middleware is re-exported here so callers never import chi
package middleware

import (
	"net/http"
	"time"

	pstrings "astrochat/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID attaches or propagates X-Request-Id
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP sets RemoteAddr from True-Client-IP, X-Real-IP or X-Forwarded-For
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d and answers 504 if nothing was written
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

func NoCache() func(http.Handler) http.Handler         { return chimw.NoCache }
func RedirectSlashes() func(http.Handler) http.Handler { return chimw.RedirectSlashes }
func StripSlashes() func(http.Handler) http.Handler    { return chimw.StripSlashes }

// Compress gzips or deflates responses at level for the default content types
func Compress(level int) func(http.Handler) http.Handler { return chimw.Compress(level) }

// Heartbeat answers GET and HEAD on path with a plain "." before any routing
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// CORSOptions is the part of go-chi/cors the API sets
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

var (
	defaultMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	defaultHeaders = []string{"Accept", "Content-Type", "X-Request-Id", "X-Api-Version"}
)

// CORS allows GET, POST and OPTIONS plus the JSON headers unless told otherwise
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, defaultMethods),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, defaultHeaders),
		ExposedHeaders:   o.ExposedHeaders,
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
