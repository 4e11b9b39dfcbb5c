package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusplan/timetable-engine/internal/telemetry"
)

// Metrics returns middleware that records request latency/counts via m.
func Metrics(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), duration)
	}
}
