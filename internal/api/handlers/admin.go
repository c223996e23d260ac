package handlers

import (
	"log/slog"
	"net/http"

	"github.com/librarium/lending-api/internal/api/httpx"
	"github.com/librarium/lending-api/internal/middleware"
	"github.com/librarium/lending-api/internal/services"
)

// Admin exposes operational views of the catalog.
type Admin struct {
	svc *services.LendingService
	log *slog.Logger
}

func NewAdmin(svc *services.LendingService, log *slog.Logger) *Admin {
	if log == nil {
		log = slog.Default()
	}
	return &Admin{svc: svc, log: log}
}

func (h *Admin) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.log.Error("stats failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"err", err,
		)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteData(w, http.StatusOK, stats)
}
