package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thrivekids/therapy_booking/internal/app"
	"github.com/thrivekids/therapy_booking/internal/cache"
	"github.com/thrivekids/therapy_booking/internal/config"
	"github.com/thrivekids/therapy_booking/internal/controller"
	"github.com/thrivekids/therapy_booking/internal/controller/handlers"
	"github.com/thrivekids/therapy_booking/internal/repository"
	"github.com/thrivekids/therapy_booking/internal/repository/base"
	"github.com/thrivekids/therapy_booking/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting therapy booking server",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}

	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	baseRepo := base.NewRepository(pool)
	therapistRepo := repository.NewTherapistRepository(pool)
	childRepo := repository.NewChildRepository(pool)
	slotRepo := repository.NewTimeSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	recurringRepo := repository.NewRecurringBookingRepository(pool)
	leaveRepo := repository.NewLeaveRepository(pool)

	availabilitySvc := service.NewAvailabilityService(therapistRepo, bookingRepo, slotRepo, logger)
	bookingSvc := service.NewBookingService(baseRepo, therapistRepo, childRepo, slotRepo, bookingRepo, recurringRepo, logger)
	leaveSvc := service.NewLeaveService(baseRepo, leaveRepo, bookingRepo, therapistRepo, logger)
	therapistSvc := service.NewTherapistService(therapistRepo, logger)

	// Redis опционален: nil-клиент превращает кэш в no-op
	var cacheClient *cache.Client
	if cfg.RedisAddr != "" {
		cacheClient, err = cache.New(cfg.RedisAddr)
		if err != nil {
			logger.Warn("Redis unavailable, cache disabled", zap.Error(err))
			cacheClient = nil
		} else {
			logger.Info("Redis cache connected", zap.String("addr", cfg.RedisAddr))
		}
	}
	defer cacheClient.Close()

	scheduler := app.NewScheduler(bookingSvc, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := controller.NewRouter(controller.Handlers{
		Booking:      handlers.NewBookingHandler(bookingSvc, cacheClient, logger),
		Availability: handlers.NewAvailabilityHandler(availabilitySvc, cacheClient, logger),
		Leave:        handlers.NewLeaveHandler(leaveSvc, logger),
		Therapist:    handlers.NewTherapistHandler(therapistSvc, logger),
	}, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
