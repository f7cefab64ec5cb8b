package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/application"
	"github.com/commercelab/ecommerce-catalog/internal/catalog/infrastructure/csvstore"
	cataloghttp "github.com/commercelab/ecommerce-catalog/internal/catalog/infrastructure/http"
	"github.com/commercelab/ecommerce-catalog/internal/config"
	"github.com/commercelab/ecommerce-catalog/pkg/logging"
	"github.com/commercelab/ecommerce-catalog/pkg/shutdown"
)

func main() {
	// Optional .env overlay for local runs.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Error("data dir create failed", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
	}

	store := csvstore.NewStore(log, cfg.DataDir)
	svc, err := application.NewService(ctx, log, store)
	if err != nil {
		log.Error("catalog load failed", "err", err)
		os.Exit(1)
	}
	handler := cataloghttp.NewHandler(log, svc)

	r := chi.NewRouter()
	r.Mount("/api/v1", handler.Routes())
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("catalog-server shutdown complete")
}
