package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/librarium/lending-api/internal/repository"
)

type Repositories struct {
	Catalog repo.Catalog
	Audit   repo.AuditLog
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Catalog: &catalogRepo{pool},
		Audit:   &auditRepo{pool},
	}
}
