package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	perr "astrochat/internal/platform/errors"
	"astrochat/internal/platform/logger"
	pnet "astrochat/internal/platform/net"
)

// Recover turns a panic into the JSON 500 envelope carrying msg, logging the stack
// http.ErrAbortHandler is re-raised so net/http can drop the connection
func Recover(msg string) func(http.Handler) http.Handler {
	if msg == "" {
		msg = "panic recovered"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}
				logger.C(r.Context()).Error().
					Interface("panic", v).
					Bytes("stack", debug.Stack()).
					Str("path", r.URL.Path).
					Msg("panic recovered")

				id := pnet.RequestID(r.Context())
				if id != "" {
					w.Header().Set("X-Request-Id", id)
				}
				status, body := pnet.Error(perr.PanicErrf("%s", msg), id)
				pnet.Write(w, status, body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
