package analytics

import (
	"errors"
	"net/http"
	"strconv"

	"dexotix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetDashboard handles GET /api/v1/admin/analytics/dashboard
func (c *Controller) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.service.GetDashboard(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get dashboard analytics", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Dashboard analytics retrieved successfully", dashboard)
}

// GetEventAnalytics handles GET /api/v1/admin/analytics/events/:id
func (c *Controller) GetEventAnalytics(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid event ID", err)
		return
	}

	result, err := c.service.GetEventAnalytics(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get event analytics", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Event analytics retrieved successfully", result)
}

// GetDailyStats handles GET /api/v1/admin/analytics/daily?days=30
func (c *Controller) GetDailyStats(ctx *gin.Context) {
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))

	stats, err := c.service.GetDailyStats(ctx.Request.Context(), days)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get daily stats", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Daily stats retrieved successfully", stats)
}
