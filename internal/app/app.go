package app

import (
	"go-leave/internal/balance"
	"go-leave/internal/config"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/observability"
	"go-leave/internal/shared/connection"
	"go-leave/internal/shared/counter"
	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine, cfg *config.Config) error {
	logger := zap.L().Named("app")

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres(), 5)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	metrics := observability.NewMetrics()

	// 2. Global middleware
	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(zap.L()),
		middleware.SecureHeaders(!cfg.IsProduction()),
		metrics.Middleware(),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	)

	// 3. Register Modules & Routes
	return registerModules(router, cfg, sqlDB, gormDB, redisClient, metrics)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&user.UserRole{},
		&balance.LeaveBalance{},
		&balance.Reservation{},
		&leave.LeaveRequest{},
		&counter.SequenceCounter{},
		&kafka.OutboxEventRecord{},
	)
}
