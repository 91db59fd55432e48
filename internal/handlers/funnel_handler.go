package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carslab/funnel-api/internal/models"
	"github.com/carslab/funnel-api/internal/services"
)

// FunnelHandler handles the lead-capture dialog endpoints
type FunnelHandler struct {
	service services.CaptureServiceInterface
}

// NewFunnelHandler creates a new funnel handler
func NewFunnelHandler(service services.CaptureServiceInterface) *FunnelHandler {
	return &FunnelHandler{service: service}
}

// OpenDialog handles POST /api/v1/funnel/open
func (h *FunnelHandler) OpenDialog(c *gin.Context) {
	resp := h.service.Open(c.Request.Context(), c.GetString("visitor_id"))
	c.JSON(http.StatusOK, resp)
}

// CloseDialog handles POST /api/v1/funnel/close
func (h *FunnelHandler) CloseDialog(c *gin.Context) {
	resp := h.service.Close(c.Request.Context(), c.GetString("visitor_id"))
	c.JSON(http.StatusOK, resp)
}

// SaveDraft handles POST /api/v1/funnel/draft
func (h *FunnelHandler) SaveDraft(c *gin.Context) {
	var req models.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.service.SaveDraft(c.Request.Context(), c.GetString("visitor_id"), req.Email, req.Phone)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SubmitLead handles POST /api/v1/funnel/submit
func (h *FunnelHandler) SubmitLead(c *gin.Context) {
	var req models.CaptureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp := h.service.Submit(c.Request.Context(), c.GetString("visitor_id"), &req)
	if !resp.Success {
		// A submit already in flight is the only conflicting outcome;
		// validation and upstream failures come back 200 with the dialog
		// state for the page to render.
		if resp.State == models.DialogStateSubmitting {
			c.JSON(http.StatusConflict, resp)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
