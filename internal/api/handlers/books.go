// Package handlers binds the lending operations to HTTP.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/librarium/lending-api/internal/api/httpx"
	"github.com/librarium/lending-api/internal/middleware"
	"github.com/librarium/lending-api/internal/models"
	"github.com/librarium/lending-api/internal/router"
	"github.com/librarium/lending-api/internal/services"
)

var (
	errMalformedID = errors.New("malformed book id")
	errNoSuchID    = errors.New("no such book id")
)

type booksPayload struct {
	Books []models.BookView `json:"books"`
}

type bookPayload struct {
	Book    models.BookView `json:"book"`
	Message string          `json:"message,omitempty"`
}

// Books serves the catalog and lending endpoints.
type Books struct {
	svc *services.LendingService
	log *slog.Logger
}

func NewBooks(svc *services.LendingService, log *slog.Logger) *Books {
	if log == nil {
		log = slog.Default()
	}
	return &Books{svc: svc, log: log}
}

// Register wires the lending routes. Templates are tried in the order given
// here.
func (h *Books) Register(rt *router.Router) {
	rt.Get("/books", h.List)
	rt.Get("/books/{id}", h.Get)
	rt.Post("/books/{id}/borrow", h.Borrow)
	rt.Post("/books/{id}/return", h.Return)
}

func (h *Books) List(w http.ResponseWriter, r *http.Request, _ router.Params) {
	views, err := h.svc.GetAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, booksPayload{Books: views})
}

func (h *Books) Get(w http.ResponseWriter, r *http.Request, ps router.Params) {
	id, ok := h.bookID(w, ps)
	if !ok {
		return
	}
	view, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, bookPayload{Book: view})
}

func (h *Books) Borrow(w http.ResponseWriter, r *http.Request, ps router.Params) {
	id, ok := h.bookID(w, ps)
	if !ok {
		return
	}
	view, err := h.svc.Borrow(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, bookPayload{Book: view, Message: "book borrowed"})
}

func (h *Books) Return(w http.ResponseWriter, r *http.Request, ps router.Params) {
	id, ok := h.bookID(w, ps)
	if !ok {
		return
	}
	view, err := h.svc.Return(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, bookPayload{Book: view, Message: "book returned"})
}

// bookID resolves the id path segment, answering malformed input with 400 and
// well-formed input that cannot name a book with 404.
func (h *Books) bookID(w http.ResponseWriter, ps router.Params) (int64, bool) {
	raw := ps.ByName("id")
	id, err := parseBookID(raw)
	switch {
	case errors.Is(err, errMalformedID):
		httpx.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid book id %q", raw))
		return 0, false
	case errors.Is(err, errNoSuchID):
		httpx.WriteError(w, http.StatusNotFound, fmt.Sprintf("no book with id %q", raw))
		return 0, false
	}
	return id, true
}

// parseBookID accepts only the canonical decimal form of a positive id.
// Anything non-numeric is a malformed request. A digit string no id ever
// serializes to ("0", "007", out of int64 range) is an unknown book, not a
// client syntax error.
func parseBookID(raw string) (int64, error) {
	if raw == "" {
		return 0, errMalformedID
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, errMalformedID
		}
	}
	if raw[0] == '0' {
		return 0, errNoSuchID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errNoSuchID
	}
	return id, nil
}

// fail maps domain errors to status codes. This is the only place the
// translation happens; anything unrecognized is a store fault.
func (h *Books) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound     services.NotFoundError
		notAvailable services.NotAvailableError
		notBorrowed  services.NotBorrowedError
	)
	switch {
	case errors.As(err, &notFound):
		httpx.WriteError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &notAvailable):
		httpx.WriteError(w, http.StatusBadRequest, notAvailable.Error())
	case errors.As(err, &notBorrowed):
		httpx.WriteError(w, http.StatusBadRequest, notBorrowed.Error())
	default:
		h.log.Error("request failed",
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"err", err,
		)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
