package report

import (
	"crewtrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	reports.Use(middleware.RateLimitByUser(1, 3))
	{
		reports.GET("/timesheet", middleware.RBACAuthorize(rbacService, "report", "read"), h.TimesheetCSV)
		reports.GET("/leave-overview", middleware.RBACAuthorize(rbacService, "report", "read"), h.LeaveOverviewXLSX)
		reports.GET("/employees/:employeeId/monthly", middleware.RBACAuthorize(rbacService, "report", "read"), h.MonthlyEmployeePDF)
	}
}
