package events

import (
	"dexotix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller *Controller) {
	// Public routes - anyone can browse events
	publicEvents := router.Group("/events")
	publicEvents.Use(middleware.OptionalAuth())
	{
		publicEvents.GET("", controller.GetAllEvents)
		publicEvents.GET("/upcoming", controller.GetUpcomingEvents)
		publicEvents.GET("/:id", controller.GetEvent)
		publicEvents.GET("/:id/occurrences", controller.GetOccurrences)
	}

	// Admin routes - event management
	adminEvents := router.Group("/admin/events")
	adminEvents.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminEvents.POST("", controller.CreateEvent)
		adminEvents.GET("", controller.GetAllEvents)
		adminEvents.GET("/:id", controller.GetEvent)
		adminEvents.PUT("/:id", controller.UpdateEvent)
		adminEvents.DELETE("/:id", controller.DeleteEvent)
		adminEvents.POST("/:id/occurrences/generate", controller.GenerateOccurrences)
	}

	adminOccurrences := router.Group("/admin/occurrences")
	adminOccurrences.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminOccurrences.POST("/:id/cancel", controller.CancelOccurrence)
	}
}
