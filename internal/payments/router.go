package payments

import (
	"dexotix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(router *gin.RouterGroup, controller *Controller) {
	// Webhook carries its own signature auth.
	router.POST("/payments/webhook", controller.Webhook)

	payments := router.Group("/payments")
	payments.Use(middleware.JWTAuth())
	payments.Use(middleware.RequireRoles("USER", "ADMIN"))
	{
		payments.POST("/orders", controller.CreateOrder)
		payments.POST("/verify", controller.VerifyPayment)
		payments.GET("/:id", controller.GetPayment)
	}
}
