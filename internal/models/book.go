package models

import (
	"errors"
	"strings"
	"time"
)

// Book is a catalog entry. The id is assigned by the store and never changes;
// lending operations only read books, they never mutate them.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (b Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return errors.New("title required")
	}
	if strings.TrimSpace(b.Author) == "" {
		return errors.New("author required")
	}
	return nil
}

// BorrowRecord is one lending episode. ReturnedAt == nil marks the record as
// open: the book is checked out until the record is closed. Records are the
// durable history and are never deleted.
type BorrowRecord struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at"`
}

// Open reports whether this record still holds the book.
func (r BorrowRecord) Open() bool { return r.ReturnedAt == nil }

// BookView is the projection served over HTTP: book identity plus the state
// derived from its open borrow record, if any. Available and BorrowedAt are
// computed by the store in a single read, never persisted.
type BookView struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Available  bool       `json:"available"`
	BorrowedAt *time.Time `json:"borrowed_at"`
}

// CatalogStats are aggregate counts for the admin surface.
type CatalogStats struct {
	Books       int64 `json:"books"`
	OpenBorrows int64 `json:"open_borrows"`
	Available   int64 `json:"available"`
}
