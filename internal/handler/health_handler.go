package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"intakedocs/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	schema port.ConfigProvider
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(schemaProvider port.ConfigProvider) *HealthHandler {
	return &HealthHandler{schema: schemaProvider}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.schema.Load(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "extraction config not loadable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
