package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/repository/base"
)

type RecurringBookingRepository struct {
	pool *pgxpool.Pool
}

func NewRecurringBookingRepository(pool *pgxpool.Pool) *RecurringBookingRepository {
	return &RecurringBookingRepository{pool: pool}
}

// Create создаёт родительскую запись серии. Выполняется в той же транзакции,
// что и материализация бронирований серии.
func (r *RecurringBookingRepository) Create(ctx context.Context, q base.Querier, rb *model.RecurringBooking) error {
	query := `
		INSERT INTO recurring_bookings (series_id, child_id, therapist_id, slot_time, pattern, day_of_week, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(
		ctx, query,
		rb.SeriesID,
		rb.ChildID,
		rb.TherapistID,
		rb.SlotTime,
		rb.Pattern,
		rb.DayOfWeek,
		rb.StartDate,
		rb.EndDate,
		rb.IsActive,
	).Scan(&rb.ID, &rb.CreatedAt, &rb.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create recurring booking: %w", err)
	}

	return nil
}

// GetByID получает серию по ID
func (r *RecurringBookingRepository) GetByID(ctx context.Context, id int64) (*model.RecurringBooking, error) {
	query := `
		SELECT id, series_id, child_id, therapist_id, slot_time, pattern, day_of_week, start_date, end_date, is_active, created_at, updated_at
		FROM recurring_bookings
		WHERE id = $1
	`

	var rb model.RecurringBooking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rb.ID,
		&rb.SeriesID,
		&rb.ChildID,
		&rb.TherapistID,
		&rb.SlotTime,
		&rb.Pattern,
		&rb.DayOfWeek,
		&rb.StartDate,
		&rb.EndDate,
		&rb.IsActive,
		&rb.CreatedAt,
		&rb.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get recurring booking by id: %w", err)
	}

	return &rb, nil
}

// Deactivate помечает серию неактивной. Статусы уже созданных бронирований
// не трогаются: завершённые сессии остаются завершёнными.
func (r *RecurringBookingRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE recurring_bookings SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate recurring booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("recurring booking not found")
	}

	return nil
}
