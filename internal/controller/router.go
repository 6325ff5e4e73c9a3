package controller

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/thrivekids/therapy_booking/internal/controller/handlers"
	"go.uber.org/zap"
)

// Handlers все обработчики внешней границы
type Handlers struct {
	Booking      *handlers.BookingHandler
	Availability *handlers.AvailabilityHandler
	Leave        *handlers.LeaveHandler
	Therapist    *handlers.TherapistHandler
}

// NewRouter собирает gin-роутер с middleware и всеми маршрутами
func NewRouter(h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(handlers.Recovery(logger))
	router.Use(handlers.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/recurring-bookings", h.Booking.CreateRecurringBooking)
		// Регистрируем до :id, иначе gin сматчит availability как id
		api.GET("/recurring-bookings/availability", h.Availability.CheckRecurringAvailability)
		api.GET("/recurring-bookings/:id", h.Booking.GetRecurringBooking)
		api.DELETE("/recurring-bookings/:id", h.Booking.DeleteRecurringBooking)

		api.GET("/available-slots", h.Availability.GetAvailableSlots)

		api.POST("/bookings", h.Booking.BookSlot)
		api.PUT("/bookings/:id/complete", h.Booking.CompleteBooking)
		api.PUT("/bookings/:id/cancel", h.Booking.CancelBooking)

		api.GET("/therapists/:id", h.Therapist.GetTherapist)
		api.PUT("/therapists/:id/slots", h.Therapist.UpdateSlots)
		api.POST("/therapists/:id/leaves", h.Leave.CreateLeave)

		api.GET("/admin/leaves", h.Leave.ListLeaves)
		api.PUT("/admin/leaves/:id", h.Leave.ProcessLeave)
	}

	return router
}
