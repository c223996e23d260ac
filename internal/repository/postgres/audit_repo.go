package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/librarium/lending-api/internal/models"
)

type auditRepo struct{ pool *pgxpool.Pool }

func (r *auditRepo) Create(ctx context.Context, e models.AuditEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_events (book_id, action, detail) VALUES ($1, $2, $3)`,
		e.BookID, string(e.Action), e.Detail,
	)
	if err != nil {
		return fmt.Errorf("create audit event: %w", err)
	}
	return nil
}
