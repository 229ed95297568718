// @title         Astro Chat API
// @version       1.0.0
// @description   Vedic astrology chat with a per person daily question quota
// @BasePath      /api/v1

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"astrochat/internal/platform/config"
	"astrochat/internal/platform/logger"
	phttp "astrochat/internal/platform/net/http"
	"astrochat/internal/platform/store"

	"astrochat/internal/services/api"

	"github.com/joho/godotenv"
)

func main() {
	// a .env file is optional; real env always wins
	_ = godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// every backend is optional; the quota tracker falls back to memory
	st, err := store.Open(ctx, store.FromConfig(root, "astrochat"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// a backend that stops answering after open is reported; /meta/ready keeps probing it
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := st.Guard(pingCtx); err != nil {
		l.Warn().Err(err).Msg("store ping failed at startup")
	}
	cancelPing()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg, api.ServerOptions()...)

	mounted, err := api.Mount(ctx, srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})
	if err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	// the usage sink drains after the server stops accepting requests
	sinkCtx, stopSink := context.WithCancel(context.Background())
	sinkDone := make(chan struct{})
	go func() {
		defer close(sinkDone)
		if err := mounted.Run(sinkCtx); err != nil {
			l.Error().Err(err).Msg("usage sink stopped")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
	stopSink()
	<-sinkDone
}
