package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	db       *pgxpool.Pool
	Model    ModelRepository
	Taxonomy TaxonomyRepository
	User     UserRepository
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		db:       db,
		Model:    NewModelRepository(db),
		Taxonomy: NewTaxonomyRepository(db),
		User:     NewUserRepository(db),
	}, nil
}

func (r *Repository) Close() {
	r.db.Close()
}
