package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carslab/funnel-api/internal/models"
	"github.com/carslab/funnel-api/internal/services"
)

// QualificationHandler handles the post-capture question dialog endpoints
type QualificationHandler struct {
	service services.QualificationServiceInterface
}

// NewQualificationHandler creates a new qualification handler
func NewQualificationHandler(service services.QualificationServiceInterface) *QualificationHandler {
	return &QualificationHandler{service: service}
}

// OpenDialog handles POST /api/v1/qualification/open
func (h *QualificationHandler) OpenDialog(c *gin.Context) {
	resp := h.service.Open(c.Request.Context(), c.GetString("visitor_id"))
	c.JSON(http.StatusOK, resp)
}

// OptOut handles POST /api/v1/qualification/optout
func (h *QualificationHandler) OptOut(c *gin.Context) {
	resp := h.service.OptOut(c.Request.Context(), c.GetString("visitor_id"))
	c.JSON(http.StatusOK, resp)
}

// SubmitAnswer handles POST /api/v1/qualification/submit
func (h *QualificationHandler) SubmitAnswer(c *gin.Context) {
	var req models.QualificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrors := ParseValidationErrors(err)
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", validationErrors, err)
		return
	}

	resp := h.service.Submit(c.Request.Context(), c.GetString("visitor_id"), &req)
	c.JSON(http.StatusOK, resp)
}
