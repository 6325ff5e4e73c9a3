package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thrivekids/therapy_booking/internal/model"
)

type ChildRepository struct {
	pool *pgxpool.Pool
}

func NewChildRepository(pool *pgxpool.Pool) *ChildRepository {
	return &ChildRepository{pool: pool}
}

// GetByID получает ребёнка по ID
func (r *ChildRepository) GetByID(ctx context.Context, id int64) (*model.Child, error) {
	query := `
		SELECT id, parent_id, full_name, created_at
		FROM children
		WHERE id = $1
	`

	var child model.Child
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&child.ID,
		&child.ParentID,
		&child.FullName,
		&child.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get child by id: %w", err)
	}

	return &child, nil
}
