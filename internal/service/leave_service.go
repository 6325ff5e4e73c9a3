package service

import (
	"context"
	"fmt"
	"time"

	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/repository/base"
	"github.com/thrivekids/therapy_booking/internal/schedule"
	"go.uber.org/zap"
)

type leaveStore interface {
	Create(ctx context.Context, lr *model.LeaveRequest) error
	GetByIDForUpdate(ctx context.Context, q base.Querier, id int64) (*model.LeaveRequest, error)
	List(ctx context.Context, status *model.LeaveStatus) ([]*model.LeaveRequest, error)
	UpdateStatus(ctx context.Context, q base.Querier, id int64, status model.LeaveStatus, adminNotes string) error
}

type leaveCascadeStore interface {
	CancelScheduledByTherapistAndDate(ctx context.Context, q base.Querier, therapistID int64, date time.Time) (int64, error)
}

type leaveTherapistStore interface {
	GetByID(ctx context.Context, id int64) (*model.Therapist, error)
}

// LeaveAction действие администратора над заявкой
type LeaveAction string

const (
	LeaveActionApprove LeaveAction = "APPROVE"
	LeaveActionReject  LeaveAction = "REJECT"
)

type LeaveService struct {
	tx            TxRunner
	leaveRepo     leaveStore
	bookingRepo   leaveCascadeStore
	therapistRepo leaveTherapistStore
	logger        *zap.Logger
}

func NewLeaveService(
	tx TxRunner,
	leaveRepo leaveStore,
	bookingRepo leaveCascadeStore,
	therapistRepo leaveTherapistStore,
	logger *zap.Logger,
) *LeaveService {
	return &LeaveService{
		tx:            tx,
		leaveRepo:     leaveRepo,
		bookingRepo:   bookingRepo,
		therapistRepo: therapistRepo,
		logger:        logger,
	}
}

// CreateLeaveRequest регистрирует заявку терапевта на выходной в статусе PENDING
func (s *LeaveService) CreateLeaveRequest(ctx context.Context, therapistID int64, date time.Time, leaveType model.LeaveType) (*model.LeaveRequest, error) {
	therapist, err := s.therapistRepo.GetByID(ctx, therapistID)
	if err != nil {
		return nil, fmt.Errorf("get therapist: %w", err)
	}

	if therapist == nil {
		return nil, fmt.Errorf("therapist %d: %w", therapistID, ErrNotFound)
	}

	lr := &model.LeaveRequest{
		TherapistID: therapistID,
		Date:        schedule.DateOnly(date),
		Type:        leaveType,
		Status:      model.LeaveStatusPending,
	}

	if err := s.leaveRepo.Create(ctx, lr); err != nil {
		return nil, fmt.Errorf("create leave request: %w", err)
	}

	s.logger.Info("Leave request created",
		zap.Int64("leave_request_id", lr.ID),
		zap.Int64("therapist_id", therapistID),
		zap.String("date", lr.Date.Format(schedule.DateLayout)),
	)

	return lr, nil
}

// ListLeaveRequests получает заявки, опционально фильтруя по статусу
func (s *LeaveService) ListLeaveRequests(ctx context.Context, status *model.LeaveStatus) ([]*model.LeaveRequest, error) {
	return s.leaveRepo.List(ctx, status)
}

// ProcessLeaveRequest обрабатывает заявку: PENDING -> APPROVED или REJECTED,
// оба статуса терминальные. Одобрение каскадно отменяет все SCHEDULED
// бронирования терапевта на дату выходного — серийные и одиночные одинаково,
// будущие даты тех же серий не трогаются. Каскад и смена статуса заявки идут
// одной транзакцией: частичный каскад откатывает и одобрение.
func (s *LeaveService) ProcessLeaveRequest(ctx context.Context, id int64, action LeaveAction, adminNotes string) (*model.LeaveRequest, error) {
	var processed *model.LeaveRequest

	err := s.tx.InTx(ctx, func(q base.Querier) error {
		lr, err := s.leaveRepo.GetByIDForUpdate(ctx, q, id)
		if err != nil {
			return fmt.Errorf("get leave request: %w", err)
		}

		if lr == nil {
			return fmt.Errorf("leave request %d: %w", id, ErrNotFound)
		}

		if lr.Status != model.LeaveStatusPending {
			return fmt.Errorf("leave request %d is %s: %w", id, lr.Status, ErrAlreadyProcessed)
		}

		switch action {
		case LeaveActionApprove:
			cancelled, err := s.bookingRepo.CancelScheduledByTherapistAndDate(ctx, q, lr.TherapistID, lr.Date)
			if err != nil {
				return fmt.Errorf("cascade cancel bookings: %w", err)
			}

			if err := s.leaveRepo.UpdateStatus(ctx, q, id, model.LeaveStatusApproved, adminNotes); err != nil {
				return err
			}

			lr.Status = model.LeaveStatusApproved
			s.logger.Info("Leave approved, bookings cancelled",
				zap.Int64("leave_request_id", id),
				zap.Int64("therapist_id", lr.TherapistID),
				zap.String("date", lr.Date.Format(schedule.DateLayout)),
				zap.Int64("cancelled", cancelled),
			)

		case LeaveActionReject:
			if err := s.leaveRepo.UpdateStatus(ctx, q, id, model.LeaveStatusRejected, adminNotes); err != nil {
				return err
			}

			lr.Status = model.LeaveStatusRejected
			s.logger.Info("Leave rejected",
				zap.Int64("leave_request_id", id),
				zap.Int64("therapist_id", lr.TherapistID),
			)

		default:
			return fmt.Errorf("unknown leave action %q", action)
		}

		lr.AdminNotes = adminNotes
		processed = lr
		return nil
	})

	if err != nil {
		return nil, err
	}

	return processed, nil
}
