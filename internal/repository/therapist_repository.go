package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thrivekids/therapy_booking/internal/model"
)

type TherapistRepository struct {
	pool *pgxpool.Pool
}

func NewTherapistRepository(pool *pgxpool.Pool) *TherapistRepository {
	return &TherapistRepository{pool: pool}
}

// GetByID получает терапевта по ID
func (r *TherapistRepository) GetByID(ctx context.Context, id int64) (*model.Therapist, error) {
	query := `
		SELECT id, full_name, specialization, selected_slots, available_slot_times, is_active, created_at, updated_at
		FROM therapists
		WHERE id = $1
	`

	var therapist model.Therapist
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&therapist.ID,
		&therapist.FullName,
		&therapist.Specialization,
		&therapist.SelectedSlots,
		&therapist.AvailableSlots,
		&therapist.IsActive,
		&therapist.CreatedAt,
		&therapist.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get therapist by id: %w", err)
	}

	return &therapist, nil
}

// UpdateSelectedSlots заменяет канонический набор времён слотов терапевта
func (r *TherapistRepository) UpdateSelectedSlots(ctx context.Context, id int64, slots []string) error {
	query := `
		UPDATE therapists
		SET selected_slots = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, slots)
	if err != nil {
		return fmt.Errorf("update selected slots: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("therapist not found")
	}

	return nil
}
