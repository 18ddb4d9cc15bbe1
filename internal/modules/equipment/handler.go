package equipment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studioops/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/equipment/:id/checkout", h.CheckOut)
	rg.POST("/custody/records/:assignmentId/checkin", h.CheckIn)
	rg.GET("/custody/records/:assignmentId", h.GetAssignment)
	rg.GET("/custody/overdue", h.ListOverdue)
}

func (h *Handler) CheckOut(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid equipment id")
		return
	}

	var body CheckOutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.CheckOut(c.Request.Context(), CheckOutRequest{
		EquipmentID:      id,
		CustodianID:      body.CustodianID,
		BookingID:        body.BookingID,
		ExpectedReturnAt: body.ExpectedReturnAt,
		Condition:        body.Condition,
		Notes:            body.Notes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) CheckIn(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("assignmentId"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid assignment id")
		return
	}

	var body CheckInBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.CheckIn(c.Request.Context(), CheckInRequest{
		AssignmentID:      id,
		Condition:         body.Condition,
		Notes:             body.Notes,
		DamageReported:    body.DamageReported,
		DamageDescription: body.DamageDescription,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) GetAssignment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("assignmentId"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid assignment id")
		return
	}

	a, err := h.service.GetAssignment(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) ListOverdue(c *gin.Context) {
	overdue, err := h.service.ListOverdue(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, overdue)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var state *StateError
	switch {
	case errors.As(err, &state):
		response.Error(c, http.StatusConflict, "STATE_ERROR", state.Error())
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid custody request")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Equipment or assignment not found")
	case errors.Is(err, ErrAlreadyCheckedIn):
		response.Error(c, http.StatusConflict, "STATE_ERROR", "Assignment is already checked in")
	case errors.Is(err, ErrConcurrency):
		response.Error(c, http.StatusConflict, "CONCURRENCY_ERROR", "A concurrent custody operation won; retry once")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Custody operation failed")
	}
}
