package timeentry

import (
	"crewtrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	entries := r.Group("/time-entries")
	entries.Use(middleware.AuthMiddleware())
	{
		entries.GET("", middleware.RBACAuthorize(rbacService, "timeentry", "read"), h.GetAll)
		entries.POST("", middleware.RBACAuthorize(rbacService, "timeentry", "create"), h.CreateManual)
		entries.POST("/clock-in", middleware.RBACAuthorize(rbacService, "timeentry", "punch"), h.ClockIn)
		entries.POST("/clock-out", middleware.RBACAuthorize(rbacService, "timeentry", "punch"), h.ClockOut)
	}
}
