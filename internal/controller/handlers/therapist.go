package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thrivekids/therapy_booking/internal/service"
	"go.uber.org/zap"
)

type TherapistHandler struct {
	svc    *service.TherapistService
	logger *zap.Logger
}

func NewTherapistHandler(svc *service.TherapistService, logger *zap.Logger) *TherapistHandler {
	return &TherapistHandler{svc: svc, logger: logger}
}

// GetTherapist возвращает терапевта с настроенными временами слотов
func (h *TherapistHandler) GetTherapist(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid therapist id", c.Param("id"))
		return
	}

	therapist, err := h.svc.GetTherapist(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, therapist)
}

type updateSlotsRequest struct {
	SelectedSlots []string `json:"selectedSlots" binding:"required"`
}

// UpdateSlots заменяет настроенный набор времён слотов терапевта
func (h *TherapistHandler) UpdateSlots(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid therapist id", c.Param("id"))
		return
	}

	var req updateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err.Error())
		return
	}

	therapist, err := h.svc.UpdateSelectedSlots(c.Request.Context(), id, req.SelectedSlots)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, therapist)
}
