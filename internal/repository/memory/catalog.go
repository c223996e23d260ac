// Package memory provides an in-process catalog with the same transition
// semantics as the Postgres store. It backs unit tests and handler tests that
// should not need a database.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/librarium/lending-api/internal/models"
	"github.com/librarium/lending-api/internal/repository"
)

// Store keeps books and loan records behind one mutex, so every transition is
// atomic the way a single SQL statement is against Postgres.
type Store struct {
	mu           sync.Mutex
	books        map[int64]models.Book
	records      []models.BorrowRecord
	open         map[int64]int // book id -> index into records of the open loan
	nextBookID   int64
	nextRecordID int64
}

func NewStore() *Store {
	return &Store{
		books: make(map[int64]models.Book),
		open:  make(map[int64]int),
	}
}

// AddBook registers a book under the next sequential id and returns it.
func (m *Store) AddBook(title, author string) models.Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBookID++
	b := models.Book{ID: m.nextBookID, Title: title, Author: author}
	m.books[b.ID] = b
	return b
}

func (m *Store) FindBook(_ context.Context, id int64) (models.Book, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	return b, ok, nil
}

func (m *Store) FindBookView(_ context.Context, id int64) (models.BookView, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return models.BookView{}, false, nil
	}
	return m.viewLocked(b), true, nil
}

func (m *Store) ListBookViews(_ context.Context) ([]models.BookView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.books))
	for id := range m.books {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	views := make([]models.BookView, 0, len(ids))
	for _, id := range ids {
		views = append(views, m.viewLocked(m.books[id]))
	}
	return views, nil
}

func (m *Store) TryBorrow(_ context.Context, id int64) (repository.Transition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return repository.TransitionMissing, nil
	}
	if _, out := m.open[id]; out {
		return repository.TransitionConflict, nil
	}
	m.nextRecordID++
	m.records = append(m.records, models.BorrowRecord{
		ID:         m.nextRecordID,
		BookID:     id,
		BorrowedAt: time.Now().UTC(),
	})
	m.open[id] = len(m.records) - 1
	return repository.TransitionApplied, nil
}

func (m *Store) TryReturn(_ context.Context, id int64) (repository.Transition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, out := m.open[id]
	if out {
		now := time.Now().UTC()
		m.records[idx].ReturnedAt = &now
		delete(m.open, id)
		return repository.TransitionApplied, nil
	}
	if _, ok := m.books[id]; ok {
		return repository.TransitionConflict, nil
	}
	return repository.TransitionMissing, nil
}

func (m *Store) Stats(_ context.Context) (models.CatalogStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := models.CatalogStats{
		Books:       int64(len(m.books)),
		OpenBorrows: int64(len(m.open)),
	}
	stats.Available = stats.Books - stats.OpenBorrows
	return stats, nil
}

// OpenCount reports how many loans are currently open.
func (m *Store) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}

// History returns every loan record for the book in creation order.
func (m *Store) History(id int64) []models.BorrowRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var recs []models.BorrowRecord
	for _, r := range m.records {
		if r.BookID == id {
			recs = append(recs, r)
		}
	}
	return recs
}

func (m *Store) viewLocked(b models.Book) models.BookView {
	view := models.BookView{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Available: true,
	}
	if idx, out := m.open[b.ID]; out {
		view.Available = false
		at := m.records[idx].BorrowedAt
		view.BorrowedAt = &at
	}
	return view
}

// AuditTrail collects audit events in memory.
type AuditTrail struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func NewAuditTrail() *AuditTrail {
	return &AuditTrail{}
}

func (a *AuditTrail) Create(_ context.Context, e models.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	e.ID = int64(len(a.events) + 1)
	e.CreatedAt = time.Now().UTC()
	a.events = append(a.events, e)
	return nil
}

// Events returns a copy of everything recorded so far.
func (a *AuditTrail) Events() []models.AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.events)
}
