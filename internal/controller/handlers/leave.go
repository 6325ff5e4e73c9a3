package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/schedule"
	"github.com/thrivekids/therapy_booking/internal/service"
	"go.uber.org/zap"
)

type LeaveHandler struct {
	svc    *service.LeaveService
	logger *zap.Logger
}

func NewLeaveHandler(svc *service.LeaveService, logger *zap.Logger) *LeaveHandler {
	return &LeaveHandler{svc: svc, logger: logger}
}

type createLeaveRequest struct {
	Date string `json:"date" binding:"required"`
	Type string `json:"type"`
}

// CreateLeave регистрирует заявку терапевта на выходной
func (h *LeaveHandler) CreateLeave(c *gin.Context) {
	therapistID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid therapist id", c.Param("id"))
		return
	}

	var req createLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err.Error())
		return
	}

	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		badRequest(c, "Invalid date, expected YYYY-MM-DD", req.Date)
		return
	}

	leaveType := model.LeaveType(req.Type)
	if leaveType == "" {
		leaveType = model.LeaveTypePersonal
	}

	lr, err := h.svc.CreateLeaveRequest(c.Request.Context(), therapistID, date, leaveType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, lr)
}

// ListLeaves возвращает заявки, опционально фильтруя по статусу
func (h *LeaveHandler) ListLeaves(c *gin.Context) {
	var status *model.LeaveStatus
	if s := c.Query("status"); s != "" {
		ls := model.LeaveStatus(s)
		status = &ls
	}

	requests, err := h.svc.ListLeaveRequests(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

type processLeaveRequest struct {
	Action     string `json:"action" binding:"required"`
	AdminNotes string `json:"adminNotes"`
}

// ProcessLeave одобряет или отклоняет заявку. Одобрение каскадно отменяет
// все запланированные сессии терапевта на дату выходного.
func (h *LeaveHandler) ProcessLeave(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid leave request id", c.Param("id"))
		return
	}

	var req processLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err.Error())
		return
	}

	action := service.LeaveAction(req.Action)
	if action != service.LeaveActionApprove && action != service.LeaveActionReject {
		badRequest(c, "Action must be APPROVE or REJECT", req.Action)
		return
	}

	lr, err := h.svc.ProcessLeaveRequest(c.Request.Context(), id, action, req.AdminNotes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, lr)
}
