package app

import (
	"context"
	"time"

	"github.com/thrivekids/therapy_booking/internal/service"
	"go.uber.org/zap"
)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	bookingService *service.BookingService
	logger         *zap.Logger
	stopChan       chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(bookingService *service.BookingService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		bookingService: bookingService,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	// Запускаем задачу завершения прошедших сессий
	go s.runSessionCompletionTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runSessionCompletionTask периодически переводит прошедшие сессии в COMPLETED
func (s *Scheduler) runSessionCompletionTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.completeSessions(ctx)

	// Создаём ticker для периодического запуска (каждые 24 часа)
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.completeSessions(ctx)
		case <-s.stopChan:
			s.logger.Info("Session completion task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Session completion task cancelled")
			return
		}
	}
}

// completeSessions завершает все SCHEDULED бронирования с прошедшей датой
func (s *Scheduler) completeSessions(ctx context.Context) {
	s.logger.Info("Starting automatic session completion")

	count, err := s.bookingService.CompleteElapsedSessions(ctx)
	if err != nil {
		s.logger.Error("Failed to complete elapsed sessions", zap.Error(err))
		return
	}

	s.logger.Info("Automatic session completion finished",
		zap.Int("completed", count))
}
