package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thrivekids/therapy_booking/internal/cache"
	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/schedule"
	"github.com/thrivekids/therapy_booking/internal/service"
	"go.uber.org/zap"
)

type BookingHandler struct {
	svc    *service.BookingService
	cache  *cache.Client
	logger *zap.Logger
}

func NewBookingHandler(svc *service.BookingService, cacheClient *cache.Client, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, cache: cacheClient, logger: logger}
}

type createRecurringBookingRequest struct {
	ChildID           int64  `json:"childId" binding:"required"`
	TherapistID       int64  `json:"therapistId" binding:"required"`
	SlotTime          string `json:"slotTime" binding:"required"`
	RecurrencePattern string `json:"recurrencePattern" binding:"required"`
	DayOfWeek         *int   `json:"dayOfWeek"`
	StartDate         string `json:"startDate" binding:"required"`
	EndDate           string `json:"endDate"`
}

// CreateRecurringBooking создаёт месячную серию сессий
func (h *BookingHandler) CreateRecurringBooking(c *gin.Context) {
	var req createRecurringBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err.Error())
		return
	}

	input := service.CreateRecurringBookingInput{
		ChildID:     req.ChildID,
		TherapistID: req.TherapistID,
		SlotTime:    req.SlotTime,
		Pattern:     model.RecurrencePattern(req.RecurrencePattern),
		DayOfWeek:   req.DayOfWeek,
	}

	startDate, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		// Неразобранная дата начала эквивалентна невалидной
		respondError(c, h.logger, fmt.Errorf("start date %q: %w", req.StartDate, service.ErrInvalidStartDate))
		return
	}
	input.StartDate = startDate

	if req.EndDate != "" {
		endDate, err := schedule.ParseDate(req.EndDate)
		if err != nil {
			respondError(c, h.logger, fmt.Errorf("end date %q: %w", req.EndDate, service.ErrEndDateMismatch))
			return
		}
		input.EndDate = endDate
	}

	rb, err := h.svc.CreateRecurringBooking(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Кэшированные списки слотов на даты серии устарели
	for _, booking := range rb.Bookings {
		if booking.Slot != nil {
			h.cache.Delete(c.Request.Context(), availableSlotsCacheKey(rb.TherapistID, booking.Slot.Date))
		}
	}

	c.JSON(http.StatusCreated, rb)
}

// GetRecurringBooking возвращает серию с вложенными бронированиями
func (h *BookingHandler) GetRecurringBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid recurring booking id", c.Param("id"))
		return
	}

	rb, err := h.svc.GetRecurringBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, rb)
}

// DeleteRecurringBooking деактивирует серию, не трогая статусы бронирований
func (h *BookingHandler) DeleteRecurringBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid recurring booking id", c.Param("id"))
		return
	}

	if err := h.svc.DeactivateRecurringBooking(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_active": false})
}

type bookSlotRequest struct {
	ChildID     int64  `json:"childId" binding:"required"`
	TherapistID int64  `json:"therapistId" binding:"required"`
	Date        string `json:"date" binding:"required"`
	SlotTime    string `json:"slotTime" binding:"required"`
}

// BookSlot создаёт одиночное бронирование на одну дату
func (h *BookingHandler) BookSlot(c *gin.Context) {
	var req bookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err.Error())
		return
	}

	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("date %q: %w", req.Date, service.ErrInvalidStartDate))
		return
	}

	booking, err := h.svc.BookSingleSlot(c.Request.Context(), req.ChildID, req.TherapistID, date, req.SlotTime)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.cache.Delete(c.Request.Context(), availableSlotsCacheKey(req.TherapistID, date))

	c.JSON(http.StatusCreated, booking)
}

// CompleteBooking помечает сессию прошедшей
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.transition(c, h.svc.CompleteBooking)
}

// CancelBooking отменяет сессию по запросу пользователя
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.transition(c, h.svc.CancelBooking)
}

func (h *BookingHandler) transition(c *gin.Context, fn func(ctx context.Context, id int64) error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid booking id", c.Param("id"))
		return
	}

	if err := fn(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}
