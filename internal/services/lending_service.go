// Package services holds the lending rules. The catalog store decides every
// state transition atomically; this layer never pre-checks availability, it
// translates store outcomes into domain errors and records side effects.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/librarium/lending-api/internal/metrics"
	"github.com/librarium/lending-api/internal/middleware"
	"github.com/librarium/lending-api/internal/models"
	repo "github.com/librarium/lending-api/internal/repository"
	"github.com/librarium/lending-api/internal/worker"
)

const auditTimeout = 5 * time.Second

type LendingService struct {
	store repo.Catalog
	audit repo.AuditLog
	wp    *worker.Pool
	log   *slog.Logger
}

func NewLendingService(store repo.Catalog, audit repo.AuditLog, wp *worker.Pool, log *slog.Logger) *LendingService {
	if log == nil {
		log = slog.Default()
	}
	return &LendingService{store: store, audit: audit, wp: wp, log: log}
}

func (s *LendingService) GetAll(ctx context.Context) ([]models.BookView, error) {
	views, err := s.store.ListBookViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return views, nil
}

func (s *LendingService) GetByID(ctx context.Context, id int64) (models.BookView, error) {
	view, ok, err := s.store.FindBookView(ctx, id)
	if err != nil {
		return models.BookView{}, fmt.Errorf("find book %d: %w", id, err)
	}
	if !ok {
		return models.BookView{}, NotFoundError{ID: id}
	}
	return view, nil
}

// Borrow opens a loan on the book. A race lost to a concurrent borrower
// surfaces as NotAvailableError, exactly like a book that was already out.
func (s *LendingService) Borrow(ctx context.Context, id int64) (models.BookView, error) {
	out, err := s.store.TryBorrow(ctx, id)
	if err != nil {
		return models.BookView{}, fmt.Errorf("borrow book %d: %w", id, err)
	}
	metrics.LendingTransitions.WithLabelValues("borrow", out.String()).Inc()
	switch out {
	case repo.TransitionMissing:
		return models.BookView{}, NotFoundError{ID: id}
	case repo.TransitionConflict:
		return models.BookView{}, NotAvailableError{ID: id}
	}
	s.enqueueAudit(ctx, models.AuditBookBorrowed, id)
	return s.GetByID(ctx, id)
}

// Return closes the open loan on the book.
func (s *LendingService) Return(ctx context.Context, id int64) (models.BookView, error) {
	out, err := s.store.TryReturn(ctx, id)
	if err != nil {
		return models.BookView{}, fmt.Errorf("return book %d: %w", id, err)
	}
	metrics.LendingTransitions.WithLabelValues("return", out.String()).Inc()
	switch out {
	case repo.TransitionMissing:
		return models.BookView{}, NotFoundError{ID: id}
	case repo.TransitionConflict:
		return models.BookView{}, NotBorrowedError{ID: id}
	}
	s.enqueueAudit(ctx, models.AuditBookReturned, id)
	return s.GetByID(ctx, id)
}

func (s *LendingService) Stats(ctx context.Context) (models.CatalogStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return models.CatalogStats{}, fmt.Errorf("catalog stats: %w", err)
	}
	return stats, nil
}

// enqueueAudit records the transition off the request path. The trail is
// advisory: a failed write is logged, never surfaced to the borrower.
func (s *LendingService) enqueueAudit(ctx context.Context, action models.AuditAction, bookID int64) {
	if s.audit == nil {
		return
	}
	detail := map[string]any{}
	if rid := middleware.RequestIDFromContext(ctx); rid != "" {
		detail["request_id"] = rid
	}
	event := models.AuditEvent{
		BookID: bookID,
		Action: action,
		Detail: detail,
	}
	write := func() {
		wctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if err := s.audit.Create(wctx, event); err != nil {
			s.log.Error("audit write failed", "action", string(action), "book_id", bookID, "err", err)
		}
	}
	if s.wp == nil {
		write()
		return
	}
	s.wp.Submit(write)
}
