package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thrivekids/therapy_booking/internal/schedule"
	"github.com/thrivekids/therapy_booking/internal/service"
	"go.uber.org/zap"
)

// ErrorResponse единый формат ошибок API. Никакого угадывания конвертов
// на клиенте: один стабильный контракт для всех ручек.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// respondError переводит ошибку движка в статус и понятное пользователю
// сообщение. Сырые ошибки наружу не выходят.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var conflict *service.SlotConflictError

	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "This time slot is already booked for the selected month, please choose another",
			Details: "conflicting date: " + conflict.Date.Format(schedule.DateLayout),
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	case errors.Is(err, service.ErrInvalidStartDate):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Sessions must start on a weekday (Monday to Friday)",
		})
	case errors.Is(err, service.ErrInvalidRecurrence):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid recurrence: use DAILY, or WEEKLY with a day of week",
		})
	case errors.Is(err, service.ErrEndDateMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "End date must be exactly one month minus one day after the start date",
		})
	case errors.Is(err, service.ErrNoSlotsConfigured):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "This therapist has not configured any time slots yet",
		})
	case errors.Is(err, service.ErrSlotNotOffered):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "This therapist does not offer sessions at the selected time",
		})
	case errors.Is(err, service.ErrMalformedSlotTime):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Slot time must be in HH:MM format",
		})
	case errors.Is(err, service.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "This leave request has already been processed",
		})
	case errors.Is(err, service.ErrBookingNotActive):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "This session is no longer scheduled",
		})
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal Server Error",
			Details: "An unexpected error occurred. Please try again later.",
		})
	}
}

// badRequest отвечает 400 с сообщением валидации
func badRequest(c *gin.Context, message, details string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: message, Details: details})
}
