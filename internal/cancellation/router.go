package cancellation

import (
	"dexotix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCancellationRoutes(router *gin.RouterGroup, controller *Controller) {
	cancellations := router.Group("/cancellations")
	cancellations.Use(middleware.JWTAuth())
	cancellations.Use(middleware.RequireRoles("USER", "ADMIN"))
	{
		cancellations.POST("", controller.RequestCancellation)
		cancellations.GET("", controller.GetMyCancellations)
	}

	admin := router.Group("/admin/cancellations")
	admin.Use(middleware.JWTAuth())
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", controller.GetPendingCancellations)
		admin.POST("/:id/approve", controller.ApproveCancellation)
		admin.POST("/:id/reject", controller.RejectCancellation)
	}
}
