package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carslab/funnel-api/internal/services"
)

// FragmentHandler serves landing-page fragments
type FragmentHandler struct {
	service services.FragmentServiceInterface
}

// NewFragmentHandler creates a new fragment handler
func NewFragmentHandler(service services.FragmentServiceInterface) *FragmentHandler {
	return &FragmentHandler{service: service}
}

// GetPage handles GET /api/v1/page
func (h *FragmentHandler) GetPage(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, h.service.LoadPage(c.Request.Context()))
}

// GetFragment handles GET /api/v1/fragments/:name
func (h *FragmentHandler) GetFragment(c *gin.Context) {
	name := c.Param("name")

	fragment, err := h.service.Load(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, services.ErrUnknownFragment) {
			respondError(c, http.StatusNotFound, "Fragment not found", err)
			return
		}
		respondError(c, http.StatusBadGateway, "Fragment unavailable", err)
		return
	}

	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, fragment)
}
