package venues

import (
	"dexotix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public venue discovery
	public := rg.Group("/venues")
	{
		public.GET("", controller.ListVenues)
		public.GET("/:id", controller.GetVenue)
		public.GET("/:id/seat-categories", controller.GetSeatCategories)
	}

	// Venue management - Admin only
	admin := rg.Group("/admin/venues")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateVenue)
		admin.PUT("/:id", controller.UpdateVenue)
		admin.DELETE("/:id", controller.DeleteVenue)
		admin.POST("/:id/seat-categories", controller.CreateSeatCategory)
	}

	// Individual seat category management - Admin only
	categories := rg.Group("/admin/seat-categories")
	categories.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		categories.PUT("/:id", controller.UpdateSeatCategory)
		categories.DELETE("/:id", controller.DeleteSeatCategory)
	}
}
