package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarium/lending-api/internal/middleware"
	"github.com/librarium/lending-api/internal/models"
	"github.com/librarium/lending-api/internal/repository"
	"github.com/librarium/lending-api/internal/repository/memory"
	"github.com/librarium/lending-api/internal/services"
)

// faultyCatalog fails every call, standing in for a store outage.
type faultyCatalog struct {
	err error
}

func (f faultyCatalog) FindBook(context.Context, int64) (models.Book, bool, error) {
	return models.Book{}, false, f.err
}

func (f faultyCatalog) FindBookView(context.Context, int64) (models.BookView, bool, error) {
	return models.BookView{}, false, f.err
}

func (f faultyCatalog) ListBookViews(context.Context) ([]models.BookView, error) {
	return nil, f.err
}

func (f faultyCatalog) TryBorrow(context.Context, int64) (repository.Transition, error) {
	return repository.TransitionMissing, f.err
}

func (f faultyCatalog) TryReturn(context.Context, int64) (repository.Transition, error) {
	return repository.TransitionMissing, f.err
}

func (f faultyCatalog) Stats(context.Context) (models.CatalogStats, error) {
	return models.CatalogStats{}, f.err
}

// newService wires the lending rules to an in-memory store with a synchronous
// audit trail (nil pool), so every side effect is visible right after a call.
func newService(t *testing.T) (*services.LendingService, *memory.Store, *memory.AuditTrail) {
	t.Helper()
	store := memory.NewStore()
	trail := memory.NewAuditTrail()
	return services.NewLendingService(store, trail, nil, nil), store, trail
}

func Test_Borrow_OpensLoan(t *testing.T) {
	svc, store, trail := newService(t)
	book := store.AddBook("Clean Code", "Robert C. Martin")

	view, err := svc.Borrow(context.Background(), book.ID)
	require.NoError(t, err)
	assert.False(t, view.Available)
	require.NotNil(t, view.BorrowedAt)

	events := trail.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.AuditBookBorrowed, events[0].Action)
	assert.Equal(t, book.ID, events[0].BookID)
}

func Test_Borrow_UnavailableBook(t *testing.T) {
	svc, store, trail := newService(t)
	book := store.AddBook("Clean Code", "Robert C. Martin")

	_, err := svc.Borrow(context.Background(), book.ID)
	require.NoError(t, err)

	_, err = svc.Borrow(context.Background(), book.ID)
	var notAvailable services.NotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	assert.Equal(t, book.ID, notAvailable.ID)
	assert.EqualError(t, err, "book 1 is not available")

	assert.Len(t, trail.Events(), 1, "a refused borrow leaves no audit event")
}

func Test_Borrow_UnknownBook(t *testing.T) {
	svc, _, trail := newService(t)

	_, err := svc.Borrow(context.Background(), 42)
	var notFound services.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(42), notFound.ID)

	assert.Empty(t, trail.Events())
}

func Test_Return_ClosesLoan(t *testing.T) {
	svc, store, trail := newService(t)
	book := store.AddBook("Design Patterns", "Gamma, Helm, Johnson, Vlissides")

	_, err := svc.Borrow(context.Background(), book.ID)
	require.NoError(t, err)

	view, err := svc.Return(context.Background(), book.ID)
	require.NoError(t, err)
	assert.True(t, view.Available)
	assert.Nil(t, view.BorrowedAt)

	events := trail.Events()
	require.Len(t, events, 2)
	assert.Equal(t, models.AuditBookReturned, events[1].Action)
}

func Test_Return_NotBorrowed(t *testing.T) {
	svc, store, _ := newService(t)
	book := store.AddBook("Design Patterns", "Gamma, Helm, Johnson, Vlissides")

	_, err := svc.Return(context.Background(), book.ID)
	var notBorrowed services.NotBorrowedError
	require.ErrorAs(t, err, &notBorrowed)
	assert.EqualError(t, err, "book 1 is not currently borrowed")
}

func Test_Return_UnknownBook(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Return(context.Background(), 7)
	var notFound services.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func Test_GetByID_UnknownBook(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.GetByID(context.Background(), 12)
	var notFound services.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.EqualError(t, err, "book 12 not found")
}

func Test_GetAll_ReturnsViews(t *testing.T) {
	svc, store, _ := newService(t)
	store.AddBook("Clean Code", "Robert C. Martin")
	store.AddBook("Design Patterns", "Gamma, Helm, Johnson, Vlissides")

	views, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Clean Code", views[0].Title)
}

func Test_Stats_Passthrough(t *testing.T) {
	svc, store, _ := newService(t)
	store.AddBook("a", "a")
	store.AddBook("b", "b")
	_, err := svc.Borrow(context.Background(), 1)
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Books)
	assert.Equal(t, int64(1), stats.OpenBorrows)
	assert.Equal(t, int64(1), stats.Available)
}

func Test_StoreFault_WrapsError(t *testing.T) {
	sentinel := errors.New("connection reset")
	svc := services.NewLendingService(faultyCatalog{err: sentinel}, nil, nil, nil)

	_, err := svc.Borrow(context.Background(), 1)
	require.ErrorIs(t, err, sentinel)
	var notFound services.NotFoundError
	assert.False(t, errors.As(err, &notFound), "store faults are not domain outcomes")

	_, err = svc.Return(context.Background(), 1)
	require.ErrorIs(t, err, sentinel)

	_, err = svc.GetAll(context.Background())
	require.ErrorIs(t, err, sentinel)

	_, err = svc.Stats(context.Background())
	require.ErrorIs(t, err, sentinel)
}

func Test_Audit_CarriesRequestID(t *testing.T) {
	svc, store, trail := newService(t)
	book := store.AddBook("Clean Code", "Robert C. Martin")

	ctx := middleware.WithRequestID(context.Background(), "req-123")
	_, err := svc.Borrow(ctx, book.ID)
	require.NoError(t, err)

	events := trail.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "req-123", events[0].Detail["request_id"])
}

func Test_Audit_OmitsMissingRequestID(t *testing.T) {
	svc, store, trail := newService(t)
	book := store.AddBook("Clean Code", "Robert C. Martin")

	_, err := svc.Borrow(context.Background(), book.ID)
	require.NoError(t, err)

	events := trail.Events()
	require.Len(t, events, 1)
	_, present := events[0].Detail["request_id"]
	assert.False(t, present)
}
