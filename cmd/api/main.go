package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/librarium/lending-api/internal/api"
	"github.com/librarium/lending-api/internal/config"
	"github.com/librarium/lending-api/internal/db"
	"github.com/librarium/lending-api/internal/logger"
	"github.com/librarium/lending-api/internal/metrics"
	"github.com/librarium/lending-api/internal/repository/postgres"
	"github.com/librarium/lending-api/internal/services"
	"github.com/librarium/lending-api/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}
	if cfg.SeedCatalog {
		if err := db.SeedCatalog(ctx, pool); err != nil {
			log.Error("seed catalog", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)

	lendingSvc := services.NewLendingService(repos.Catalog, repos.Audit, wp, log)

	metrics.Init()
	metrics.RegisterQueueDepth(wp.Depth)
	r := api.NewRouter(cfg, lendingSvc, log)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	// flush queued audit writes before the pool goes away
	wp.Stop()
}
