package app

import (
	"database/sql"
	"path/filepath"

	"crewtrack/internal/auth"
	"crewtrack/internal/config"
	"crewtrack/internal/employee"
	"crewtrack/internal/holiday"
	"crewtrack/internal/leave"
	"crewtrack/internal/messaging/kafka"
	"crewtrack/internal/middleware"
	"crewtrack/internal/notification"
	"crewtrack/internal/project"
	"crewtrack/internal/rbac"
	"crewtrack/internal/report"
	"crewtrack/internal/shared/clock"
	"crewtrack/internal/shared/counter"
	"crewtrack/internal/timeentry"
	"crewtrack/internal/vehicle"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	projectRepo := project.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	timeEntryRepo := timeentry.NewRepository(gormDB)
	vehicleRepo := vehicle.NewRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService(
		filepath.Join("internal", "rbac", "model.conf"),
		filepath.Join("internal", "rbac", "policy.csv"),
	)
	if err != nil {
		return err
	}

	clk := clock.System()

	authCfg := auth.Config{
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}

	// --- Services ---
	holidayService := holiday.NewService(holidayRepo)
	authService := auth.NewServiceWithConfig(authRepo, employeeRepo, clk, authCfg)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb, clk)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, holidayService, outboxRepo, clk, leave.Config{
		DefaultAnnualDays: cfg.Leave.DefaultAnnualDays,
		EnforceBalance:    cfg.Leave.EnforceBalance,
	})
	notificationService := notification.NewService(notificationRepo, clk)
	projectService := project.NewService(projectRepo, counterRepo)
	reportService := report.NewService(reportRepo, rdb, cfg.Report.CacheTTL)
	timeEntryService := timeentry.NewService(db, timeEntryRepo, clk)
	vehicleService := vehicle.NewService(db, vehicleRepo, clk)

	// --- Handlers ---
	authHandler := auth.NewHandlerWithConfig(authService, authCfg)
	employeeHandler := employee.NewHandler(employeeService)
	holidayHandler := holiday.NewHandler(holidayService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	notificationHandler := notification.NewHandler(notificationService)
	projectHandler := project.NewHandler(projectService)
	reportHandler := report.NewHandler(reportService)
	timeEntryHandler := timeentry.NewHandler(timeEntryService)
	vehicleHandler := vehicle.NewHandler(vehicleService)

	router.Use(middleware.RequestID())

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		notification.RegisterRoutes(api, notificationHandler)
		project.RegisterRoutes(api, projectHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
		timeentry.RegisterRoutes(api, timeEntryHandler, rbacService)
		vehicle.RegisterRoutes(api, vehicleHandler, rbacService)
	}

	return nil
}
