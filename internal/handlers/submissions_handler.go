package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carslab/funnel-api/internal/services"
)

// SubmissionsHandler exposes the submissions journal for operational review.
// The route sits behind the internal API token.
type SubmissionsHandler struct {
	journal services.SubmissionJournalInterface
}

// NewSubmissionsHandler creates a new submissions handler
func NewSubmissionsHandler(journal services.SubmissionJournalInterface) *SubmissionsHandler {
	return &SubmissionsHandler{journal: journal}
}

// ListSubmissions handles GET /api/internal/submissions
func (h *SubmissionsHandler) ListSubmissions(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid limit parameter", err)
			return
		}
		limit = parsed
	}

	submissions, err := h.journal.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list submissions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"count":       len(submissions),
	})
}
