package auth

import (
	"crewtrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/refresh", handler.RefreshToken)
		auth.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/logout", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Logout)
		// Accounts are provisioned by admins, not self-service.
		auth.POST("/register",
			middleware.AuthMiddleware(),
			middleware.RBACAuthorize(rbacService, "employee", "create"),
			middleware.RateLimitByUser(0.1, 2),
			handler.Register,
		)
	}
}
