// Package postgres backs the catalog with pgx. Transitions ride on single
// conditional statements, so the one-open-loan rule holds under any number of
// concurrent API instances without explicit locking.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/librarium/lending-api/internal/models"
	repo "github.com/librarium/lending-api/internal/repository"
)

type catalogRepo struct{ pool *pgxpool.Pool }

// tryBorrowSQL inserts an open loan only if the book row exists, and defers
// to the partial unique index on open records when someone already holds it.
// Zero rows back means either cause; classifyNoop tells them apart.
const tryBorrowSQL = `
INSERT INTO borrow_records (book_id)
SELECT b.id FROM books b WHERE b.id = $1
ON CONFLICT (book_id) WHERE returned_at IS NULL DO NOTHING
RETURNING id;
`

const tryReturnSQL = `
UPDATE borrow_records
   SET returned_at = now()
 WHERE book_id = $1 AND returned_at IS NULL
RETURNING id;
`

const findBookSQL = `
SELECT id, title, author FROM books WHERE id = $1;
`

const findBookViewSQL = `
SELECT b.id, b.title, b.author, r.borrowed_at
  FROM books b
  LEFT JOIN borrow_records r ON r.book_id = b.id AND r.returned_at IS NULL
 WHERE b.id = $1;
`

const listBookViewsSQL = `
SELECT b.id, b.title, b.author, r.borrowed_at
  FROM books b
  LEFT JOIN borrow_records r ON r.book_id = b.id AND r.returned_at IS NULL
 ORDER BY b.id;
`

const statsSQL = `
SELECT (SELECT count(*) FROM books),
       (SELECT count(*) FROM borrow_records WHERE returned_at IS NULL);
`

const bookExistsSQL = `
SELECT EXISTS (SELECT 1 FROM books WHERE id = $1);
`

func (r *catalogRepo) TryBorrow(ctx context.Context, id int64) (repo.Transition, error) {
	var recordID int64
	err := r.pool.QueryRow(ctx, tryBorrowSQL, id).Scan(&recordID)
	if err == nil {
		return repo.TransitionApplied, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return repo.TransitionMissing, fmt.Errorf("try borrow: %w", err)
	}
	return r.classifyNoop(ctx, id)
}

func (r *catalogRepo) TryReturn(ctx context.Context, id int64) (repo.Transition, error) {
	var recordID int64
	err := r.pool.QueryRow(ctx, tryReturnSQL, id).Scan(&recordID)
	if err == nil {
		return repo.TransitionApplied, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return repo.TransitionMissing, fmt.Errorf("try return: %w", err)
	}
	return r.classifyNoop(ctx, id)
}

// classifyNoop explains a zero-row transition. Books are never deleted, so
// this follow-up read cannot misreport a book that existed a moment ago.
func (r *catalogRepo) classifyNoop(ctx context.Context, id int64) (repo.Transition, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, bookExistsSQL, id).Scan(&exists); err != nil {
		return repo.TransitionMissing, fmt.Errorf("classify transition: %w", err)
	}
	if exists {
		return repo.TransitionConflict, nil
	}
	return repo.TransitionMissing, nil
}

func (r *catalogRepo) FindBook(ctx context.Context, id int64) (models.Book, bool, error) {
	var b models.Book
	err := r.pool.QueryRow(ctx, findBookSQL, id).Scan(&b.ID, &b.Title, &b.Author)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Book{}, false, nil
	}
	if err != nil {
		return models.Book{}, false, fmt.Errorf("find book: %w", err)
	}
	return b, true, nil
}

func (r *catalogRepo) FindBookView(ctx context.Context, id int64) (models.BookView, bool, error) {
	var (
		v  models.BookView
		at *time.Time
	)
	err := r.pool.QueryRow(ctx, findBookViewSQL, id).Scan(&v.ID, &v.Title, &v.Author, &at)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.BookView{}, false, nil
	}
	if err != nil {
		return models.BookView{}, false, fmt.Errorf("find book view: %w", err)
	}
	v.Available = at == nil
	v.BorrowedAt = at
	return v, true, nil
}

func (r *catalogRepo) ListBookViews(ctx context.Context) ([]models.BookView, error) {
	rows, err := r.pool.Query(ctx, listBookViewsSQL)
	if err != nil {
		return nil, fmt.Errorf("list book views: %w", err)
	}
	defer rows.Close()

	views := make([]models.BookView, 0)
	for rows.Next() {
		var (
			v  models.BookView
			at *time.Time
		)
		if err := rows.Scan(&v.ID, &v.Title, &v.Author, &at); err != nil {
			return nil, fmt.Errorf("scan book view: %w", err)
		}
		v.Available = at == nil
		v.BorrowedAt = at
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *catalogRepo) Stats(ctx context.Context) (models.CatalogStats, error) {
	var s models.CatalogStats
	if err := r.pool.QueryRow(ctx, statsSQL).Scan(&s.Books, &s.OpenBorrows); err != nil {
		return models.CatalogStats{}, fmt.Errorf("catalog stats: %w", err)
	}
	s.Available = s.Books - s.OpenBorrows
	return s, nil
}
