package bookings

import (
	"dexotix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller *Controller) {
	bookings := router.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	bookings.Use(middleware.RequireRoles("USER", "ADMIN"))
	{
		bookings.POST("", controller.Checkout)
		bookings.GET("", controller.GetMyBookings)
		bookings.GET("/:id", controller.GetBooking)
		bookings.POST("/:id/cancel", controller.CancelBooking)
	}

	admin := router.Group("/admin/bookings")
	admin.Use(middleware.JWTAuth())
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", controller.GetAllBookings)
	}
}
