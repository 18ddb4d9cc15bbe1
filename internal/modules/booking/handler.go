package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studioops/internal/domain"
	"studioops/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Submit)
	rg.GET("/bookings/:id", h.GetByID)
	rg.POST("/bookings/:id/confirm", h.Confirm)
	rg.POST("/bookings/:id/reschedule", h.Reschedule)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.POST("/bookings/:id/start", h.Start)
	rg.POST("/bookings/:id/complete", h.Complete)
	rg.GET("/studios/:id/bookings", h.ListByStudio)
	rg.POST("/assignments/:id/respond", h.RespondToAssignment)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Submit(c.Request.Context(), req.toService())
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, submitResponse{
		Booking:     result.Booking,
		Assignments: result.Assignments,
		Occurrences: result.Occurrences,
		Skipped:     result.Skipped,
	})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ConfirmRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.service.Confirm(c.Request.Context(), id, req.AdminOverride)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Reschedule(c.Request.Context(), id, domain.Interval{Start: req.StartTime, End: req.EndTime})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Start(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.Start(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CompleteRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.service.Complete(c.Request.Context(), id, req.AdminOverride)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListByStudio(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	bookings, err := h.service.GetByStudio(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) RespondToAssignment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.RespondToAssignment(c.Request.Context(), id, req.Accept)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, "BOOKING_CONFLICT",
			"One or more requested resources are unavailable", conflict.Occurrences)
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or assignment not found")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "STATE_ERROR", "Transition not allowed from the current status")
	case errors.Is(err, ErrStaffNotAccepted):
		response.Error(c, http.StatusConflict, "STATE_ERROR", "All staff assignments must be accepted before confirming")
	case errors.Is(err, ErrNotDue):
		response.Error(c, http.StatusConflict, "STATE_ERROR", "Booking end time has not passed")
	case errors.Is(err, ErrConcurrency):
		response.Error(c, http.StatusConflict, "CONCURRENCY_ERROR", "A concurrent commit touched the same resources; retry once")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Booking operation failed")
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}
