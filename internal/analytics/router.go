package analytics

import (
	"dexotix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(router *gin.RouterGroup, controller *Controller) {
	admin := router.Group("/admin/analytics")
	admin.Use(middleware.JWTAuth())
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/dashboard", controller.GetDashboard)
		admin.GET("/events/:id", controller.GetEventAnalytics)
		admin.GET("/daily", controller.GetDailyStats)
	}
}
