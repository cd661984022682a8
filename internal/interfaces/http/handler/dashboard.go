package handler

import (
	"github.com/courseplatform/backend/internal/application/admin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardResponse wraps the admin dashboard counters
type DashboardResponse struct {
	Stats *admin.DashboardStats `json:"stats"`
}

// DashboardHandler serves GET /admin/dashboard
type DashboardHandler struct {
	BaseHandler
	dashboardService *admin.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *admin.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{BaseHandler: newBaseHandler(logger), dashboardService: dashboardService}
}

// Stats returns platform-wide counts and revenue
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, DashboardResponse{Stats: stats})
}
