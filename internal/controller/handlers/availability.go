package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thrivekids/therapy_booking/internal/cache"
	"github.com/thrivekids/therapy_booking/internal/schedule"
	"github.com/thrivekids/therapy_booking/internal/service"
	"go.uber.org/zap"
)

// availableSlotsCacheTTL короткий TTL: вердикт консультативный, устаревание
// на полминуты допустимо
const availableSlotsCacheTTL = 30 * time.Second

type AvailabilityHandler struct {
	svc    *service.AvailabilityService
	cache  *cache.Client
	logger *zap.Logger
}

func NewAvailabilityHandler(svc *service.AvailabilityService, cacheClient *cache.Client, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, cache: cacheClient, logger: logger}
}

// timeSlotView форма слота на внешней границе
type timeSlotView struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsBooked  bool   `json:"isBooked"`
}

// CheckRecurringAvailability консультативная проверка занятости слота
// для диапазона дат
func (h *AvailabilityHandler) CheckRecurringAvailability(c *gin.Context) {
	therapistID, err := strconv.ParseInt(c.Query("therapistId"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid therapistId", c.Query("therapistId"))
		return
	}

	slotTime := c.Query("slotTime")
	if slotTime == "" {
		badRequest(c, "slotTime is required", "")
		return
	}

	startDate, err := schedule.ParseDate(c.Query("startDate"))
	if err != nil {
		badRequest(c, "Invalid startDate, expected YYYY-MM-DD", c.Query("startDate"))
		return
	}

	endDate, err := schedule.ParseDate(c.Query("endDate"))
	if err != nil {
		badRequest(c, "Invalid endDate, expected YYYY-MM-DD", c.Query("endDate"))
		return
	}

	verdict, err := h.svc.CheckSlotAvailability(c.Request.Context(), therapistID, slotTime, startDate, endDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// GetAvailableSlots возвращает слоты терапевта на конкретную дату для
// одиночного бронирования
func (h *AvailabilityHandler) GetAvailableSlots(c *gin.Context) {
	therapistID, err := strconv.ParseInt(c.Query("therapistId"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid therapistId", c.Query("therapistId"))
		return
	}

	date, err := schedule.ParseDate(c.Query("date"))
	if err != nil {
		badRequest(c, "Invalid date, expected YYYY-MM-DD", c.Query("date"))
		return
	}

	ctx := c.Request.Context()
	key := availableSlotsCacheKey(therapistID, date)

	if data, ok := h.cache.Get(ctx, key); ok {
		var views []timeSlotView
		if err := json.Unmarshal(data, &views); err == nil {
			c.JSON(http.StatusOK, views)
			return
		}
	}

	slots, err := h.svc.GetAvailableSlots(ctx, therapistID, date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	views := make([]timeSlotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, timeSlotView{
			ID:        slot.ID,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			IsBooked:  slot.IsBooked,
		})
	}

	if data, err := json.Marshal(views); err == nil {
		h.cache.Set(ctx, key, data, availableSlotsCacheTTL)
	}

	c.JSON(http.StatusOK, views)
}

func availableSlotsCacheKey(therapistID int64, date time.Time) string {
	return fmt.Sprintf("available-slots:%d:%s", therapistID, date.Format(schedule.DateLayout))
}
