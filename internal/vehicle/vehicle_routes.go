package vehicle

import (
	"crewtrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	vehicles := r.Group("/vehicles")
	vehicles.Use(middleware.AuthMiddleware())
	{
		vehicles.GET("", middleware.RBACAuthorize(rbacService, "vehicle", "read"), h.GetAll)
		vehicles.GET("/:id", middleware.RBACAuthorize(rbacService, "vehicle", "read"), h.GetById)
		vehicles.GET("/:id/bookings", middleware.RBACAuthorize(rbacService, "vehicle", "read"), h.GetBookingsByVehicle)
		vehicles.POST("", middleware.RBACAuthorize(rbacService, "vehicle", "manage"), h.Create)
		vehicles.PUT("/:id", middleware.RBACAuthorize(rbacService, "vehicle", "manage"), h.Update)
		vehicles.DELETE("/:id", middleware.RBACAuthorize(rbacService, "vehicle", "manage"), h.Delete)
	}

	bookings := r.Group("/vehicle-bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.GET("/my", middleware.RBACAuthorize(rbacService, "vehicle", "read"), h.GetMyBookings)
		bookings.POST("", middleware.RBACAuthorize(rbacService, "vehicle", "book"), h.Book)
		bookings.POST("/:bookingId/close", middleware.RBACAuthorize(rbacService, "vehicle", "book"), h.CloseBooking)
	}
}
