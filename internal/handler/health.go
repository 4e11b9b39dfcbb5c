package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusplan/timetable-engine/internal/telemetry"
)

// HealthHandler exposes the liveness and metrics scrape endpoints.
type HealthHandler struct {
	metrics *telemetry.Metrics
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(metrics *telemetry.Metrics) *HealthHandler {
	return &HealthHandler{metrics: metrics}
}

// Health responds with a generic OK payload for liveness checks.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Prometheus serves the Prometheus metrics scrape endpoint.
func (h *HealthHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
