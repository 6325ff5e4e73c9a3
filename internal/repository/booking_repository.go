package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/repository/base"
	"github.com/thrivekids/therapy_booking/internal/schedule"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Create создаёт новое бронирование. Частичный уникальный индекс
// bookings_active_slot_uniq гарантирует не больше одного неотменённого
// бронирования на слот даже при гонке параллельных запросов.
func (r *BookingRepository) Create(ctx context.Context, q base.Querier, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (child_id, therapist_id, time_slot_id, recurring_booking_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(
		ctx, query,
		booking.ChildID,
		booking.TherapistID,
		booking.TimeSlotID,
		booking.RecurringBookingID,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `
		SELECT id, child_id, therapist_id, time_slot_id, recurring_booking_id, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.ChildID,
		&booking.TherapistID,
		&booking.TimeSlotID,
		&booking.RecurringBookingID,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// GetScheduledSlotTimes получает дату и время начала каждого SCHEDULED
// бронирования терапевта по всем датам. Вход резолвера конфликтов.
func (r *BookingRepository) GetScheduledSlotTimes(ctx context.Context, therapistID int64) ([]schedule.BookedOccurrence, error) {
	query := `
		SELECT ts.slot_date, ts.start_time
		FROM bookings b
		JOIN time_slots ts ON ts.id = b.time_slot_id
		WHERE b.therapist_id = $1 AND b.status = 'SCHEDULED'
		ORDER BY ts.slot_date, ts.start_time
	`

	rows, err := r.pool.Query(ctx, query, therapistID)
	if err != nil {
		return nil, fmt.Errorf("get scheduled slot times: %w", err)
	}
	defer rows.Close()

	return scanBookedOccurrences(rows)
}

// scanBookedOccurrences вычитывает все строки. Обрыв соединения посреди
// выборки должен вернуться ошибкой: усечённый список бронирований дал бы
// ложный вердикт "свободно".
func scanBookedOccurrences(rows pgx.Rows) ([]schedule.BookedOccurrence, error) {
	var occurrences []schedule.BookedOccurrence
	for rows.Next() {
		var occ schedule.BookedOccurrence
		if err := rows.Scan(&occ.Date, &occ.StartTime); err != nil {
			return nil, fmt.Errorf("scan scheduled slot time: %w", err)
		}
		occurrences = append(occurrences, occ)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scheduled slot times: %w", err)
	}

	return occurrences, nil
}

// GetByRecurringBookingID получает все бронирования серии вместе со слотами
func (r *BookingRepository) GetByRecurringBookingID(ctx context.Context, recurringID int64) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.child_id, b.therapist_id, b.time_slot_id, b.recurring_booking_id, b.status, b.created_at, b.updated_at,
		       ts.id, ts.therapist_id, ts.slot_date, ts.start_time, ts.end_time, ts.is_active, ts.created_at
		FROM bookings b
		JOIN time_slots ts ON ts.id = b.time_slot_id
		WHERE b.recurring_booking_id = $1
		ORDER BY ts.slot_date
	`

	rows, err := r.pool.Query(ctx, query, recurringID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by recurring id: %w", err)
	}
	defer rows.Close()

	return scanBookingsWithSlots(rows)
}

func scanBookingsWithSlots(rows pgx.Rows) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		var slot model.TimeSlot
		err := rows.Scan(
			&booking.ID,
			&booking.ChildID,
			&booking.TherapistID,
			&booking.TimeSlotID,
			&booking.RecurringBookingID,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&slot.ID,
			&slot.TherapistID,
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsActive,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking with slot: %w", err)
		}
		booking.Slot = &slot
		bookings = append(bookings, &booking)
	}

	// Частичная серия без ошибки хуже, чем ошибка
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series bookings: %w", err)
	}

	return bookings, nil
}

// ExistsActiveForSlot проверяет, есть ли на слоте неотменённое бронирование.
// Повторная проверка конфликта непосредственно перед записью.
func (r *BookingRepository) ExistsActiveForSlot(ctx context.Context, q base.Querier, timeSlotID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE time_slot_id = $1 AND status <> 'CANCELLED'
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, timeSlotID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active booking for slot: %w", err)
	}

	return exists, nil
}

// UpdateStatus переводит бронирование из fromStatus в toStatus.
// Возвращает false, если бронирование не в ожидаемом статусе.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus model.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.pool.Exec(ctx, query, id, fromStatus, toStatus)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// CancelScheduledByTherapistAndDate отменяет все SCHEDULED бронирования
// терапевта на дату. Ядро каскада отмены при одобрении выходного: серийные и
// одиночные бронирования обрабатываются одинаково. Повторный запуск ничего
// не находит и ничего не меняет.
func (r *BookingRepository) CancelScheduledByTherapistAndDate(ctx context.Context, q base.Querier, therapistID int64, date time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE therapist_id = $1
		  AND status = 'SCHEDULED'
		  AND time_slot_id IN (
		      SELECT id FROM time_slots
		      WHERE therapist_id = $1 AND slot_date = $2
		  )
	`

	result, err := q.Exec(ctx, query, therapistID, date)
	if err != nil {
		return 0, fmt.Errorf("cancel scheduled bookings: %w", err)
	}

	return result.RowsAffected(), nil
}

// CompleteElapsed переводит в COMPLETED все SCHEDULED бронирования,
// дата слота которых уже прошла
func (r *BookingRepository) CompleteElapsed(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'COMPLETED', updated_at = NOW()
		WHERE status = 'SCHEDULED'
		  AND time_slot_id IN (
		      SELECT id FROM time_slots WHERE slot_date < $1
		  )
	`

	result, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("complete elapsed bookings: %w", err)
	}

	return result.RowsAffected(), nil
}
