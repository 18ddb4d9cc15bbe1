package availability

import (
	"errors"
	"net/http"

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
	rg.POST("/availability/check", h.CheckAvailability)
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	report, err := h.service.Check(c.Request.Context(), req.toQuery())
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid candidate window or resource set")
		case errors.Is(err, ErrResourceNotFound):
			response.Error(c, http.StatusNotFound, "RESOURCE_NOT_FOUND", "One of the requested resources does not exist")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Availability check failed")
		}
		return
	}

	response.Success(c, http.StatusOK, toResponse(report))
}
