package app

import (
	"os"

	"crewtrack/internal/config"
	"crewtrack/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module on
// the router.
func BuildApp(router *gin.Engine, cfg *config.Config) error {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB.DSN(), 5)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	// Token signing and the auth middleware read JWT_SECRET from the
	// environment. Let the config file win when both are set.
	if cfg.Auth.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", cfg.Auth.JWTSecret)
	}

	return registerModules(router, sqlDB, gormDB, rdb, cfg)
}
