package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/repository/base"
)

type TimeSlotRepository struct {
	pool *pgxpool.Pool
}

func NewTimeSlotRepository(pool *pgxpool.Pool) *TimeSlotRepository {
	return &TimeSlotRepository{pool: pool}
}

// GetByID получает слот по ID
func (r *TimeSlotRepository) GetByID(ctx context.Context, id int64) (*model.TimeSlot, error) {
	query := `
		SELECT id, therapist_id, slot_date, start_time, end_time, is_active, created_at
		FROM time_slots
		WHERE id = $1
	`

	var slot model.TimeSlot
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.TherapistID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsActive,
		&slot.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get time slot by id: %w", err)
	}

	return &slot, nil
}

// GetByTherapistAndDate получает все слоты терапевта на дату вместе с
// производным флагом занятости
func (r *TimeSlotRepository) GetByTherapistAndDate(ctx context.Context, therapistID int64, date time.Time) ([]*model.TimeSlot, error) {
	query := `
		SELECT ts.id, ts.therapist_id, ts.slot_date, ts.start_time, ts.end_time, ts.is_active, ts.created_at,
		       EXISTS (
		           SELECT 1 FROM bookings b
		           WHERE b.time_slot_id = ts.id AND b.status <> 'CANCELLED'
		       ) AS is_booked
		FROM time_slots ts
		WHERE ts.therapist_id = $1 AND ts.slot_date = $2
		ORDER BY ts.start_time
	`

	rows, err := r.pool.Query(ctx, query, therapistID, date)
	if err != nil {
		return nil, fmt.Errorf("get time slots by therapist and date: %w", err)
	}
	defer rows.Close()

	return scanTimeSlots(rows)
}

func scanTimeSlots(rows pgx.Rows) ([]*model.TimeSlot, error) {
	var slots []*model.TimeSlot
	for rows.Next() {
		var slot model.TimeSlot
		err := rows.Scan(
			&slot.ID,
			&slot.TherapistID,
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsActive,
			&slot.CreatedAt,
			&slot.IsBooked,
		)
		if err != nil {
			return nil, fmt.Errorf("scan time slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time slots: %w", err)
	}

	return slots, nil
}

// GetOrCreate находит слот (therapist, date, start_time) или создаёт его.
// Выполняется внутри транзакции материализации бронирований.
func (r *TimeSlotRepository) GetOrCreate(ctx context.Context, q base.Querier, therapistID int64, date time.Time, startTime, endTime string) (*model.TimeSlot, error) {
	query := `
		INSERT INTO time_slots (therapist_id, slot_date, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (therapist_id, slot_date, start_time)
		DO UPDATE SET end_time = EXCLUDED.end_time
		RETURNING id, therapist_id, slot_date, start_time, end_time, is_active, created_at
	`

	var slot model.TimeSlot
	err := q.QueryRow(ctx, query, therapistID, date, startTime, endTime).Scan(
		&slot.ID,
		&slot.TherapistID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsActive,
		&slot.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("get or create time slot: %w", err)
	}

	return &slot, nil
}
