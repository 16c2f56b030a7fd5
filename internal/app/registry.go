package app

import (
	"database/sql"
	"net/http"

	"go-leave/internal/approval"
	"go-leave/internal/audit"
	"go-leave/internal/balance"
	"go-leave/internal/config"
	"go-leave/internal/jobs"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/notification"
	"go-leave/internal/observability"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/counter"
	"go-leave/internal/shared/response"
	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	metrics *observability.Metrics,
) error {
	logger := zap.L()

	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(rbac.DefaultPolicies)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)
	gate := approval.NewGate(rbacService, logger)
	auditLogger := audit.NewZapLogger(logger)

	// --- Services ---
	directory := user.NewDirectory(userRepo, logger)
	balanceService := balance.NewService(db, balanceRepo,
		balance.WithSeedDefaultGrant(cfg.SeedDefaultGrant),
		balance.WithUserLister(directory),
		balance.WithMetrics(metrics),
		balance.WithAuditLogger(auditLogger),
		balance.WithLogger(logger),
	)
	leaveService := leave.NewService(db, leaveRepo, balanceService, gate,
		leave.WithOutbox(outboxRepo),
		leave.WithCounter(counterRepo),
		leave.WithMetrics(metrics),
		leave.WithLogger(logger),
	)
	notificationService := notification.NewService(
		notification.NewRedisStore(rdb, cfg.NotificationMaxItems),
		notification.WithMetrics(metrics),
		notification.WithLogger(logger),
	)
	scheduler := jobs.NewScheduler(asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr}), directory, logger)

	// --- Handlers ---
	leaveHandler := leave.NewHandler(leaveService, logger)
	balanceHandler := balance.NewHandler(balanceService, scheduler, logger)
	userHandler := user.NewHandler(directory, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)

	// --- Routes Registration ---
	router.GET("/healthz", healthz(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.LoadPrincipal(directory))
	{
		leave.RegisterRoutes(api, leaveHandler, rdb)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		user.RegisterRoutes(api, userHandler)
		rbac.RegisterRoutes(api, rbacHandler)
		notification.RegisterRoutes(api, notificationHandler)
	}

	return nil
}

func healthz(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			zap.L().Named("app.health").Warn("database ping failed", zap.Error(err))
			response.Error(c, http.StatusServiceUnavailable, apperror.CodeServiceUnavailable, "database unavailable", nil)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	}
}
