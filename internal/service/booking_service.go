package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/repository/base"
	"github.com/thrivekids/therapy_booking/internal/schedule"
	"go.uber.org/zap"
)

// TxRunner выполняет функцию внутри одной транзакции хранилища.
// Вся координация конкурентных бронирований идёт через транзакционные
// гарантии базы, в процессе нет разделяемого состояния и блокировок.
type TxRunner interface {
	InTx(ctx context.Context, fn func(q base.Querier) error) error
}

type bookingTherapistStore interface {
	GetByID(ctx context.Context, id int64) (*model.Therapist, error)
}

type bookingChildStore interface {
	GetByID(ctx context.Context, id int64) (*model.Child, error)
}

type bookingSlotStore interface {
	GetOrCreate(ctx context.Context, q base.Querier, therapistID int64, date time.Time, startTime, endTime string) (*model.TimeSlot, error)
}

type bookingStore interface {
	Create(ctx context.Context, q base.Querier, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ExistsActiveForSlot(ctx context.Context, q base.Querier, timeSlotID int64) (bool, error)
	GetByRecurringBookingID(ctx context.Context, recurringID int64) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus model.BookingStatus) (bool, error)
	CompleteElapsed(ctx context.Context, before time.Time) (int64, error)
}

type recurringBookingStore interface {
	Create(ctx context.Context, q base.Querier, rb *model.RecurringBooking) error
	GetByID(ctx context.Context, id int64) (*model.RecurringBooking, error)
	Deactivate(ctx context.Context, id int64) error
}

type BookingService struct {
	tx            TxRunner
	therapistRepo bookingTherapistStore
	childRepo     bookingChildStore
	slotRepo      bookingSlotStore
	bookingRepo   bookingStore
	recurringRepo recurringBookingStore
	logger        *zap.Logger
}

func NewBookingService(
	tx TxRunner,
	therapistRepo bookingTherapistStore,
	childRepo bookingChildStore,
	slotRepo bookingSlotStore,
	bookingRepo bookingStore,
	recurringRepo recurringBookingStore,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:            tx,
		therapistRepo: therapistRepo,
		childRepo:     childRepo,
		slotRepo:      slotRepo,
		bookingRepo:   bookingRepo,
		recurringRepo: recurringRepo,
		logger:        logger,
	}
}

// CreateRecurringBookingInput параметры создания месячной серии сессий
type CreateRecurringBookingInput struct {
	ChildID     int64
	TherapistID int64
	SlotTime    string // "HH:MM"
	Pattern     model.RecurrencePattern
	DayOfWeek   *int // обязателен для WEEKLY
	StartDate   time.Time
	EndDate     time.Time // присылается клиентом, сверяется с выведенной
}

// CreateRecurringBooking разворачивает паттерн в даты и материализует серию:
// по одному TimeSlot + Booking на дату, всё в одной транзакции. Либо
// создаётся вся серия, либо ничего. Конфликт на любой дате откатывает
// серию целиком и называет первую конфликтующую дату.
func (s *BookingService) CreateRecurringBooking(ctx context.Context, input CreateRecurringBookingInput) (*model.RecurringBooking, error) {
	// Дешёвые локальные проверки до любого обращения к хранилищу
	startDate := schedule.DateOnly(input.StartDate)
	if !schedule.IsBookableDay(startDate) {
		return nil, fmt.Errorf("start date %s: %w", startDate.Format(schedule.DateLayout), ErrInvalidStartDate)
	}

	var dayOfWeek int
	switch input.Pattern {
	case model.PatternDaily:
		// day_of_week не используется
	case model.PatternWeekly:
		if input.DayOfWeek == nil {
			return nil, fmt.Errorf("weekly pattern requires day of week: %w", ErrInvalidRecurrence)
		}
		if *input.DayOfWeek < 0 || *input.DayOfWeek > 6 {
			return nil, fmt.Errorf("day of week %d out of range: %w", *input.DayOfWeek, ErrInvalidRecurrence)
		}
		dayOfWeek = *input.DayOfWeek
	default:
		return nil, fmt.Errorf("unknown pattern %q: %w", input.Pattern, ErrInvalidRecurrence)
	}

	// Дата окончания всегда выводится сервером; клиентское значение
	// только сверяется
	endDate := schedule.MonthlyEndDate(startDate)
	if !input.EndDate.IsZero() && !schedule.DateOnly(input.EndDate).Equal(endDate) {
		return nil, fmt.Errorf("expected end date %s: %w", endDate.Format(schedule.DateLayout), ErrEndDateMismatch)
	}

	therapist, err := s.therapistRepo.GetByID(ctx, input.TherapistID)
	if err != nil {
		return nil, fmt.Errorf("get therapist: %w", err)
	}
	if therapist == nil {
		return nil, fmt.Errorf("therapist %d: %w", input.TherapistID, ErrNotFound)
	}

	child, err := s.childRepo.GetByID(ctx, input.ChildID)
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}
	if child == nil {
		return nil, fmt.Errorf("child %d: %w", input.ChildID, ErrNotFound)
	}

	if err := s.checkSlotOffered(therapist, input.SlotTime); err != nil {
		return nil, err
	}

	dates := schedule.ExpandDates(startDate, endDate, input.Pattern, dayOfWeek)
	if len(dates) == 0 {
		return nil, fmt.Errorf("pattern produced no dates: %w", ErrInvalidRecurrence)
	}

	startTime, endTime, err := schedule.SlotWindow(input.SlotTime)
	if err != nil {
		return nil, fmt.Errorf("slot time %q: %w", input.SlotTime, ErrMalformedSlotTime)
	}

	rb := &model.RecurringBooking{
		SeriesID:    uuid.New(),
		ChildID:     input.ChildID,
		TherapistID: input.TherapistID,
		SlotTime:    startTime,
		Pattern:     input.Pattern,
		DayOfWeek:   input.DayOfWeek,
		StartDate:   startDate,
		EndDate:     endDate,
		IsActive:    true,
	}

	// Материализация: вся серия в одной транзакции. Каждая дата повторно
	// проверяется на конфликт непосредственно перед записью — окно гонки
	// между консультативной проверкой UI и коммитом закрывает база
	// (частичный уникальный индекс на неотменённые бронирования).
	err = s.tx.InTx(ctx, func(q base.Querier) error {
		if err := s.recurringRepo.Create(ctx, q, rb); err != nil {
			return err
		}

		for _, date := range dates {
			slot, err := s.slotRepo.GetOrCreate(ctx, q, input.TherapistID, date, startTime, endTime)
			if err != nil {
				return err
			}

			// Деактивированный слот не предлагается, даже если время
			// всё ещё числится в настройках терапевта
			if !slot.IsActive {
				return fmt.Errorf("slot %s on %s is deactivated: %w",
					startTime, date.Format(schedule.DateLayout), ErrSlotNotOffered)
			}

			booked, err := s.bookingRepo.ExistsActiveForSlot(ctx, q, slot.ID)
			if err != nil {
				return err
			}
			if booked {
				return &SlotConflictError{Date: date, SlotTime: startTime}
			}

			booking := &model.Booking{
				ChildID:            input.ChildID,
				TherapistID:        input.TherapistID,
				TimeSlotID:         slot.ID,
				RecurringBookingID: &rb.ID,
				Status:             model.BookingStatusScheduled,
			}

			if err := s.bookingRepo.Create(ctx, q, booking); err != nil {
				if base.IsUniqueViolation(err) {
					return &SlotConflictError{Date: date, SlotTime: startTime}
				}
				return err
			}

			booking.Slot = slot
			rb.Bookings = append(rb.Bookings, booking)
		}

		return nil
	})

	if err != nil {
		rb.Bookings = nil
		return nil, err
	}

	s.logger.Info("Recurring booking created",
		zap.Int64("recurring_booking_id", rb.ID),
		zap.String("series_id", rb.SeriesID.String()),
		zap.Int64("child_id", rb.ChildID),
		zap.Int64("therapist_id", rb.TherapistID),
		zap.String("slot_time", rb.SlotTime),
		zap.String("pattern", string(rb.Pattern)),
		zap.Int("sessions", len(rb.Bookings)),
	)

	return rb, nil
}

// GetRecurringBooking получает серию вместе с её бронированиями
func (s *BookingService) GetRecurringBooking(ctx context.Context, id int64) (*model.RecurringBooking, error) {
	rb, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recurring booking: %w", err)
	}

	if rb == nil {
		return nil, fmt.Errorf("recurring booking %d: %w", id, ErrNotFound)
	}

	bookings, err := s.bookingRepo.GetByRecurringBookingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get series bookings: %w", err)
	}

	rb.Bookings = bookings
	return rb, nil
}

// DeactivateRecurringBooking отменяет серию. Статусы уже созданных
// бронирований не меняются: прошедшие сессии остаются завершёнными.
func (s *BookingService) DeactivateRecurringBooking(ctx context.Context, id int64) error {
	rb, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get recurring booking: %w", err)
	}

	if rb == nil {
		return fmt.Errorf("recurring booking %d: %w", id, ErrNotFound)
	}

	if err := s.recurringRepo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("deactivate recurring booking: %w", err)
	}

	s.logger.Info("Recurring booking deactivated",
		zap.Int64("recurring_booking_id", id),
		zap.String("series_id", rb.SeriesID.String()),
	)

	return nil
}

// BookSingleSlot создаёт одиночное бронирование на одну дату.
// Проверка занятости и запись выполняются в одной транзакции.
func (s *BookingService) BookSingleSlot(ctx context.Context, childID, therapistID int64, date time.Time, slotTime string) (*model.Booking, error) {
	day := schedule.DateOnly(date)
	if !schedule.IsBookableDay(day) {
		return nil, fmt.Errorf("date %s: %w", day.Format(schedule.DateLayout), ErrInvalidStartDate)
	}

	therapist, err := s.therapistRepo.GetByID(ctx, therapistID)
	if err != nil {
		return nil, fmt.Errorf("get therapist: %w", err)
	}
	if therapist == nil {
		return nil, fmt.Errorf("therapist %d: %w", therapistID, ErrNotFound)
	}

	child, err := s.childRepo.GetByID(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}
	if child == nil {
		return nil, fmt.Errorf("child %d: %w", childID, ErrNotFound)
	}

	if err := s.checkSlotOffered(therapist, slotTime); err != nil {
		return nil, err
	}

	startTime, endTime, err := schedule.SlotWindow(slotTime)
	if err != nil {
		return nil, fmt.Errorf("slot time %q: %w", slotTime, ErrMalformedSlotTime)
	}

	var booking *model.Booking
	err = s.tx.InTx(ctx, func(q base.Querier) error {
		slot, err := s.slotRepo.GetOrCreate(ctx, q, therapistID, day, startTime, endTime)
		if err != nil {
			return err
		}

		if !slot.IsActive {
			return fmt.Errorf("slot %s on %s is deactivated: %w",
				startTime, day.Format(schedule.DateLayout), ErrSlotNotOffered)
		}

		booked, err := s.bookingRepo.ExistsActiveForSlot(ctx, q, slot.ID)
		if err != nil {
			return err
		}
		if booked {
			return &SlotConflictError{Date: day, SlotTime: startTime}
		}

		booking = &model.Booking{
			ChildID:     childID,
			TherapistID: therapistID,
			TimeSlotID:  slot.ID,
			Status:      model.BookingStatusScheduled,
		}

		if err := s.bookingRepo.Create(ctx, q, booking); err != nil {
			if base.IsUniqueViolation(err) {
				return &SlotConflictError{Date: day, SlotTime: startTime}
			}
			return err
		}

		booking.Slot = slot
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("child_id", childID),
		zap.Int64("therapist_id", therapistID),
		zap.String("date", day.Format(schedule.DateLayout)),
		zap.String("slot_time", startTime),
	)

	return booking, nil
}

// CompleteBooking переводит сессию в COMPLETED
func (s *BookingService) CompleteBooking(ctx context.Context, id int64) error {
	return s.transitionBooking(ctx, id, model.BookingStatusCompleted)
}

// CancelBooking отменяет сессию по явному запросу пользователя
func (s *BookingService) CancelBooking(ctx context.Context, id int64) error {
	return s.transitionBooking(ctx, id, model.BookingStatusCancelled)
}

func (s *BookingService) transitionBooking(ctx context.Context, id int64, toStatus model.BookingStatus) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}

	if booking == nil {
		return fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, id, model.BookingStatusScheduled, toStatus)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	if !updated {
		return fmt.Errorf("booking %d: %w", id, ErrBookingNotActive)
	}

	s.logger.Info("Booking status changed",
		zap.Int64("booking_id", id),
		zap.String("status", string(toStatus)),
	)

	return nil
}

// CompleteElapsedSessions завершает все SCHEDULED сессии с прошедшей датой.
// Вызывается фоновым планировщиком.
func (s *BookingService) CompleteElapsedSessions(ctx context.Context) (int, error) {
	today := schedule.DateOnly(time.Now())

	count, err := s.bookingRepo.CompleteElapsed(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("complete elapsed sessions: %w", err)
	}

	return int(count), nil
}

// checkSlotOffered проверяет, что терапевт предлагает это время
func (s *BookingService) checkSlotOffered(therapist *model.Therapist, slotTime string) error {
	slotTimes := schedule.SlotTimesFor(therapist)
	if len(slotTimes) == 0 {
		return fmt.Errorf("therapist %d: %w", therapist.ID, ErrNoSlotsConfigured)
	}

	if !slices.Contains(slotTimes, slotTime) {
		return fmt.Errorf("slot time %q: %w", slotTime, ErrSlotNotOffered)
	}

	return nil
}
