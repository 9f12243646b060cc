package seats

import (
	"dexotix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public seat map for an occurrence
	venueSeats := rg.Group("/venues")
	{
		venueSeats.GET("/:id/seat-map", controller.GetSeatMap)
	}

	// Seat holding - the reserved-seating checkout flow
	seats := rg.Group("/seats")
	seats.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		seats.GET("/holds", controller.GetMyHolds)
		seats.GET("/:id", controller.GetSeat)

		seats.POST("/hold", controller.HoldSeats)
		seats.DELETE("/hold/:holdId", controller.ReleaseHold)
		seats.GET("/hold/:holdId/validate", controller.ValidateHold)
		seats.POST("/hold/:holdId/extend", controller.ExtendHold)
	}

	// Seat management - Admin only
	adminVenueSeats := rg.Group("/admin/venues")
	adminVenueSeats.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminVenueSeats.POST("/:id/seats", controller.CreateSeats)
	}

	adminSeats := rg.Group("/admin/seats")
	adminSeats.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminSeats.PUT("/:id", controller.UpdateSeat)
		adminSeats.DELETE("/:id", controller.DeleteSeat)
	}
}
