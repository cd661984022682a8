package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger checks a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// HealthHandler reports liveness together with database reachability
type HealthHandler struct {
	BaseHandler
	db      Pinger
	version string
	timeout time.Duration
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, version string, logger *zap.Logger) *HealthHandler {
	if version == "" {
		version = "1.0.0"
	}
	return &HealthHandler{
		BaseHandler: newBaseHandler(logger),
		db:          db,
		version:     version,
		timeout:     2 * time.Second,
	}
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		Message:  "Course Platform API is running",
		Version:  h.version,
		Database: "ok",
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("Database health check failed", zap.Error(err))
			resp.Status = "unhealthy"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}
	h.OK(c, resp)
}
