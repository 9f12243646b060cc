package auth

import (
	"dexotix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.RouterGroup, controller *Controller) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", controller.Register)
		authGroup.POST("/login", controller.Login)
		authGroup.POST("/refresh", controller.RefreshToken)

		protected := authGroup.Group("")
		protected.Use(middleware.JWTAuth())
		{
			protected.POST("/logout", controller.Logout)
			protected.PUT("/change-password", controller.ChangePassword)
			protected.GET("/me", controller.GetMe)
			protected.PUT("/me", controller.UpdateMe)
		}
	}
}
