package leave

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RegisterRoutes expects r to already carry the auth and principal
// middleware. Write endpoints are throttled per user; POSTs honour an
// Idempotency-Key when rdb is set.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
) {
	writes := []gin.HandlerFunc{middleware.RateLimitByUser(rate.Limit(5), 10)}
	if rdb != nil {
		writes = append(writes, middleware.Idempotency(rdb))
	}
	post := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writes...), h)
	}

	leaves := r.Group("/leave-requests")
	{
		leaves.GET("", handler.GetAll)
		leaves.POST("", post(handler.Create)...)
		leaves.GET("/pending", handler.Pending)
		leaves.GET("/summary", handler.Summary)
		leaves.GET("/stats", handler.Stats)
		leaves.GET("/calendar/:year", handler.Calendar)
		leaves.GET("/:id", handler.GetByID)
		leaves.PUT("/:id", writes[0], handler.Update)
		leaves.DELETE("/:id", writes[0], handler.Cancel)
		leaves.POST("/:id/approve", post(handler.Approve)...)
		leaves.POST("/:id/reject", post(handler.Reject)...)
		leaves.GET("/:id/workflow", handler.Workflow)
		leaves.GET("/:id/timeline", handler.Timeline)
	}
}
