package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/schedule"
	"go.uber.org/zap"
)

type therapistStore interface {
	GetByID(ctx context.Context, id int64) (*model.Therapist, error)
	UpdateSelectedSlots(ctx context.Context, id int64, slots []string) error
}

type TherapistService struct {
	therapistRepo therapistStore
	logger        *zap.Logger
}

func NewTherapistService(therapistRepo therapistStore, logger *zap.Logger) *TherapistService {
	return &TherapistService{
		therapistRepo: therapistRepo,
		logger:        logger,
	}
}

// GetTherapist получает терапевта по ID
func (s *TherapistService) GetTherapist(ctx context.Context, id int64) (*model.Therapist, error) {
	therapist, err := s.therapistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get therapist: %w", err)
	}

	if therapist == nil {
		return nil, fmt.Errorf("therapist %d: %w", id, ErrNotFound)
	}

	return therapist, nil
}

// UpdateSelectedSlots заменяет настроенный набор времён слотов терапевта.
// Каждое время проверяется на формат "HH:MM", дубликаты отбрасываются.
func (s *TherapistService) UpdateSelectedSlots(ctx context.Context, id int64, slots []string) (*model.Therapist, error) {
	therapist, err := s.therapistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get therapist: %w", err)
	}

	if therapist == nil {
		return nil, fmt.Errorf("therapist %d: %w", id, ErrNotFound)
	}

	seen := make(map[string]struct{}, len(slots))
	normalized := make([]string, 0, len(slots))
	for _, slot := range slots {
		if _, _, err := schedule.ParseSlotTime(slot); err != nil {
			return nil, fmt.Errorf("slot time %q: %w", slot, ErrMalformedSlotTime)
		}
		if _, ok := seen[slot]; ok {
			continue
		}
		seen[slot] = struct{}{}
		normalized = append(normalized, slot)
	}
	sort.Strings(normalized)

	if err := s.therapistRepo.UpdateSelectedSlots(ctx, id, normalized); err != nil {
		return nil, fmt.Errorf("update selected slots: %w", err)
	}

	therapist.SelectedSlots = normalized

	s.logger.Info("Therapist slots updated",
		zap.Int64("therapist_id", id),
		zap.Int("slot_count", len(normalized)),
	)

	return therapist, nil
}
