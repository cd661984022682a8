package middleware

import (
	"time"

	"github.com/courseplatform/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics records request count and latency per route template.
// A nil recorder yields a pass-through middleware.
func HTTPMetrics(recorder *telemetry.HTTPMetrics) gin.HandlerFunc {
	if recorder == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.RecordRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
