package repository

import (
	"context"

	"github.com/librarium/lending-api/internal/models"
)

// Transition is the outcome of an atomic lending state change. It is only
// meaningful when the accompanying error is nil: errors are store faults
// (connectivity, transaction failure), never domain outcomes.
type Transition int8

const (
	// TransitionApplied means the state change was performed.
	TransitionApplied Transition = iota
	// TransitionConflict means the precondition did not hold: an open borrow
	// record already existed (borrow), or none existed (return).
	TransitionConflict
	// TransitionMissing means the book does not exist.
	TransitionMissing
)

func (t Transition) String() string {
	switch t {
	case TransitionApplied:
		return "applied"
	case TransitionConflict:
		return "conflict"
	case TransitionMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Catalog is the persistence contract for the lending catalog. The store owns
// the atomicity of transitions: TryBorrow and TryReturn check their
// precondition and apply the change as one indivisible operation, so callers
// must never re-implement the check-then-write themselves.
type Catalog interface {
	FindBook(ctx context.Context, id int64) (models.Book, bool, error)
	FindBookView(ctx context.Context, id int64) (models.BookView, bool, error)

	// ListBookViews returns every book joined with its at-most-one open
	// borrow record, ordered by id ascending.
	ListBookViews(ctx context.Context) ([]models.BookView, error)

	// TryBorrow creates an open borrow record for the book if and only if
	// none exists. Under concurrent calls for the same book exactly one
	// caller observes TransitionApplied.
	TryBorrow(ctx context.Context, id int64) (Transition, error)

	// TryReturn closes the open borrow record for the book if one exists.
	// Racing returns resolve to exactly one TransitionApplied.
	TryReturn(ctx context.Context, id int64) (Transition, error)

	Stats(ctx context.Context) (models.CatalogStats, error)
}

// AuditLog records lending transitions after the fact.
type AuditLog interface {
	Create(ctx context.Context, e models.AuditEvent) error
}
