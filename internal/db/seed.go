package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/librarium/lending-api/internal/models"
)

// seedBooks is the starter catalog. Fixed ids so every fresh environment
// agrees on what book 1 is.
var seedBooks = []models.Book{
	{ID: 1, Title: "Clean Code", Author: "Robert C. Martin"},
	{ID: 2, Title: "Design Patterns", Author: "Gamma, Helm, Johnson, Vlissides"},
	{ID: 3, Title: "The PHP Manual", Author: "The PHP Group"},
}

// SeedCatalog installs the starter books. Rerunning is a no-op: rows that
// already exist are left untouched.
func SeedCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO books (id, title, author) OVERRIDING SYSTEM VALUE
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING;
`
	for _, b := range seedBooks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("seed book %d: %w", b.ID, err)
		}
		if _, err := pool.Exec(ctx, q, b.ID, b.Title, b.Author); err != nil {
			return fmt.Errorf("seed book %d: %w", b.ID, err)
		}
	}
	// keep the identity sequence ahead of the fixed ids
	if _, err := pool.Exec(ctx, `SELECT setval(pg_get_serial_sequence('books', 'id'), (SELECT max(id) FROM books))`); err != nil {
		return fmt.Errorf("advance books sequence: %w", err)
	}
	return nil
}
