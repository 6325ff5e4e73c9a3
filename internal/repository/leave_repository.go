package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/repository/base"
)

type LeaveRepository struct {
	pool *pgxpool.Pool
}

func NewLeaveRepository(pool *pgxpool.Pool) *LeaveRepository {
	return &LeaveRepository{pool: pool}
}

// Create создаёт новую заявку на выходной в статусе PENDING
func (r *LeaveRepository) Create(ctx context.Context, lr *model.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (therapist_id, leave_date, leave_type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		lr.TherapistID,
		lr.Date,
		lr.Type,
		lr.Status,
	).Scan(&lr.ID, &lr.CreatedAt, &lr.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}

	return nil
}

// GetByID получает заявку по ID
func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*model.LeaveRequest, error) {
	return r.getByID(ctx, r.pool, id, false)
}

// GetByIDForUpdate получает заявку по ID с блокировкой строки.
// Используется в транзакции обработки, чтобы два администратора не
// обработали одну заявку одновременно.
func (r *LeaveRepository) GetByIDForUpdate(ctx context.Context, q base.Querier, id int64) (*model.LeaveRequest, error) {
	return r.getByID(ctx, q, id, true)
}

func (r *LeaveRepository) getByID(ctx context.Context, q base.Querier, id int64, forUpdate bool) (*model.LeaveRequest, error) {
	query := `
		SELECT id, therapist_id, leave_date, leave_type, status, admin_notes, created_at, updated_at
		FROM leave_requests
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var lr model.LeaveRequest
	err := q.QueryRow(ctx, query, id).Scan(
		&lr.ID,
		&lr.TherapistID,
		&lr.Date,
		&lr.Type,
		&lr.Status,
		&lr.AdminNotes,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get leave request by id: %w", err)
	}

	return &lr, nil
}

// List получает заявки, опционально фильтруя по статусу
func (r *LeaveRepository) List(ctx context.Context, status *model.LeaveStatus) ([]*model.LeaveRequest, error) {
	query := `
		SELECT id, therapist_id, leave_date, leave_type, status, admin_notes, created_at, updated_at
		FROM leave_requests
	`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	defer rows.Close()

	return scanLeaveRequests(rows)
}

func scanLeaveRequests(rows pgx.Rows) ([]*model.LeaveRequest, error) {
	var requests []*model.LeaveRequest
	for rows.Next() {
		var lr model.LeaveRequest
		err := rows.Scan(
			&lr.ID,
			&lr.TherapistID,
			&lr.Date,
			&lr.Type,
			&lr.Status,
			&lr.AdminNotes,
			&lr.CreatedAt,
			&lr.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan leave request: %w", err)
		}
		requests = append(requests, &lr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leave requests: %w", err)
	}

	return requests, nil
}

// UpdateStatus переводит заявку в терминальный статус внутри транзакции каскада
func (r *LeaveRepository) UpdateStatus(ctx context.Context, q base.Querier, id int64, status model.LeaveStatus, adminNotes string) error {
	query := `
		UPDATE leave_requests
		SET status = $2, admin_notes = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query, id, status, adminNotes)
	if err != nil {
		return fmt.Errorf("update leave request status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("leave request not found")
	}

	return nil
}
