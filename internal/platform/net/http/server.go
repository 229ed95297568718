package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"strings"
	"time"

	"astrochat/internal/platform/config"
	perr "astrochat/internal/platform/errors"
	"astrochat/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// DefaultPort is used when neither ADDR nor PORT is configured
const DefaultPort = "5001"

// shutdownGrace bounds in flight requests once Run's context is done
const shutdownGrace = 10 * time.Second

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *stdhttp.Server
}

// NewServer creates a zero-value friendly http server
// cfg is the service scoped view (eg CORE_API_); ADDR wins over PORT
// opts receive the *chi.Mux so callers can mount routes/mw
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := ListenAddr(cfg)
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ListenAddr resolves ADDR, else PORT (bare number or :n), else :5001
func ListenAddr(cfg config.Conf) string {
	if a := cfg.MayString("ADDR", ""); a != "" {
		return a
	}
	p := strings.TrimPrefix(cfg.MayString("PORT", DefaultPort), ":")
	return ":" + p
}

// WithNotFound answers unknown routes and methods with a JSON envelope carrying msg
func WithNotFound(msg string) func(*chi.Mux) {
	return func(m *chi.Mux) {
		m.NotFound(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			RespondError(w, r, perr.NotFoundf("%s", msg))
		})
		m.MethodNotAllowed(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			RespondError(w, r, perr.NotFoundf("%s", msg))
		})
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router {
	return AdaptChi(s.mux)
}

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run starts the server and blocks until it stops
// when ctx is done the server drains in flight requests and Run returns nil
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	log.Info().Str("addr", s.addr).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("http shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := s.srv.Shutdown(sctx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
		return nil
	}
}
