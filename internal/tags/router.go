package tags

import (
	"dexotix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTagRoutes(router *gin.RouterGroup, controller *Controller) {
	// Public routes
	publicTags := router.Group("/tags")
	{
		publicTags.GET("/active", controller.GetActiveTags)
		publicTags.GET("/slug/:slug", controller.GetTagBySlug)
	}

	// Admin routes
	adminTags := router.Group("/admin/tags")
	adminTags.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminTags.POST("", controller.CreateTag)
		adminTags.GET("/:id", controller.GetTag)
		adminTags.PUT("/:id", controller.UpdateTag)
		adminTags.DELETE("/:id", controller.DeleteTag)
		adminTags.GET("/active", controller.GetActiveTags)
	}
}
