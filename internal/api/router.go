// Package api assembles the HTTP surface. The outer chi mux carries the
// middleware chain and operational endpoints; the lending endpoints live on
// the template router mounted under /books, which sees the full request path.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/librarium/lending-api/internal/api/handlers"
	"github.com/librarium/lending-api/internal/api/httpx"
	"github.com/librarium/lending-api/internal/config"
	"github.com/librarium/lending-api/internal/metrics"
	"github.com/librarium/lending-api/internal/middleware"
	"github.com/librarium/lending-api/internal/router"
	"github.com/librarium/lending-api/internal/services"
)

func NewRouter(cfg config.Config, svc *services.LendingService, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	books := router.New(log)
	handlers.NewBooks(svc, log).Register(books)
	r.Mount("/books", books)

	admin := handlers.NewAdmin(svc, log)
	r.Get("/admin/stats", admin.Stats)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
