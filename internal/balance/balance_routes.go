package balance

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already carry the auth and principal middleware.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	r.GET("/leave-requests/balance", handler.MyBalances)

	admin := r.Group("/admin/leave-balances")
	admin.Use(middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionManage))
	{
		admin.GET("", handler.AllBalances)
		admin.GET("/stats", handler.UtilizationStats)
		admin.POST("/reset", handler.ResetAll)
		admin.GET("/user/:id", handler.UserBalances)
		admin.PUT("/user/:id", handler.SetAllocation)
		admin.PUT("/user/:id/bulk", handler.BulkSetAllocation)
		admin.POST("/user/:id/reset", handler.ResetUser)
	}
}
