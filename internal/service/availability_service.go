package service

import (
	"context"
	"fmt"
	"time"

	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/schedule"
	"go.uber.org/zap"
)

// Хранилища, нужные проверке доступности. Сервис не держит никакого
// внутреннего состояния и кэшей: каждый вызов это чистая функция над
// текущим содержимым базы.
type availabilityTherapistStore interface {
	GetByID(ctx context.Context, id int64) (*model.Therapist, error)
}

type availabilityBookingStore interface {
	GetScheduledSlotTimes(ctx context.Context, therapistID int64) ([]schedule.BookedOccurrence, error)
}

type availabilitySlotStore interface {
	GetByTherapistAndDate(ctx context.Context, therapistID int64, date time.Time) ([]*model.TimeSlot, error)
}

type AvailabilityService struct {
	therapistRepo availabilityTherapistStore
	bookingRepo   availabilityBookingStore
	slotRepo      availabilitySlotStore
	logger        *zap.Logger
}

func NewAvailabilityService(
	therapistRepo availabilityTherapistStore,
	bookingRepo availabilityBookingStore,
	slotRepo availabilitySlotStore,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		therapistRepo: therapistRepo,
		bookingRepo:   bookingRepo,
		slotRepo:      slotRepo,
		logger:        logger,
	}
}

// CheckSlotAvailability консультативная проверка: занято ли время slotTime
// терапевта для диапазона дат кандидата. Вердикт подсказывает UI и ничего
// не резервирует — авторитетная проверка происходит в транзакции записи.
func (s *AvailabilityService) CheckSlotAvailability(ctx context.Context, therapistID int64, slotTime string, candidateStart, candidateEnd time.Time) (schedule.Availability, error) {
	therapist, err := s.therapistRepo.GetByID(ctx, therapistID)
	if err != nil {
		return schedule.Availability{}, fmt.Errorf("get therapist: %w", err)
	}

	if therapist == nil {
		return schedule.Availability{}, fmt.Errorf("therapist %d: %w", therapistID, ErrNotFound)
	}

	occurrences, err := s.bookingRepo.GetScheduledSlotTimes(ctx, therapistID)
	if err != nil {
		return schedule.Availability{}, fmt.Errorf("get scheduled slot times: %w", err)
	}

	verdict, skipped := schedule.ResolveAvailability(occurrences, slotTime, candidateStart, candidateEnd)
	for _, bad := range skipped {
		// Повреждённое время не роняет проверку, только пишется в лог
		s.logger.Warn("Malformed slot time skipped during availability check",
			zap.Int64("therapist_id", therapistID),
			zap.String("slot_time", bad),
		)
	}

	s.logger.Debug("Slot availability resolved",
		zap.Int64("therapist_id", therapistID),
		zap.String("slot_time", slotTime),
		zap.Bool("is_booked", verdict.IsBooked),
		zap.Int("booking_count", verdict.BookingCount),
	)

	return verdict, nil
}

// GetAvailableSlots возвращает слоты терапевта на конкретную дату для
// одиночного бронирования. Слоты, ещё не материализованные в базе,
// синтезируются из настроенных времён терапевта. На выходные возвращается
// пустой список.
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, therapistID int64, date time.Time) ([]*model.TimeSlot, error) {
	therapist, err := s.therapistRepo.GetByID(ctx, therapistID)
	if err != nil {
		return nil, fmt.Errorf("get therapist: %w", err)
	}

	if therapist == nil {
		return nil, fmt.Errorf("therapist %d: %w", therapistID, ErrNotFound)
	}

	if !schedule.IsBookableDay(date) {
		return []*model.TimeSlot{}, nil
	}

	slotTimes := schedule.SlotTimesFor(therapist)
	if len(slotTimes) == 0 {
		// Пустой набор это "слотов нет", а не ошибка
		return []*model.TimeSlot{}, nil
	}

	persisted, err := s.slotRepo.GetByTherapistAndDate(ctx, therapistID, date)
	if err != nil {
		return nil, fmt.Errorf("get persisted time slots: %w", err)
	}

	byStartTime := make(map[string]*model.TimeSlot, len(persisted))
	for _, slot := range persisted {
		byStartTime[slot.StartTime] = slot
	}

	slots := make([]*model.TimeSlot, 0, len(slotTimes))
	for _, slotTime := range slotTimes {
		if existing, ok := byStartTime[slotTime]; ok {
			if existing.IsActive {
				slots = append(slots, existing)
			}
			continue
		}

		startTime, endTime, err := schedule.SlotWindow(slotTime)
		if err != nil {
			s.logger.Warn("Malformed configured slot time skipped",
				zap.Int64("therapist_id", therapistID),
				zap.String("slot_time", slotTime),
			)
			continue
		}

		slots = append(slots, &model.TimeSlot{
			TherapistID: therapistID,
			Date:        schedule.DateOnly(date),
			StartTime:   startTime,
			EndTime:     endTime,
			IsActive:    true,
			IsBooked:    false,
		})
	}

	return slots, nil
}
