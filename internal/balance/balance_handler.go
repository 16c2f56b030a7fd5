package balance

import (
	"context"
	"net/http"
	"strconv"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// YearResetScheduler queues a year reset for every active user and returns
// how many were queued.
type YearResetScheduler interface {
	ScheduleYearReset(ctx context.Context, actorID string, year int) (int, error)
}

type Handler struct {
	service   Service
	scheduler YearResetScheduler
	logger    *zap.Logger
}

func NewHandler(service Service, scheduler YearResetScheduler, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{service: service, scheduler: scheduler, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("balance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func queryYear(c *gin.Context) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().UTC().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, balanceerrors.ErrInvalidYear
	}
	return year, nil
}

func queryOptionalInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// MyBalances lists the caller's balances for every leave type.
func (h *Handler) MyBalances(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}
	year, err := queryYear(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ListBalances(c.Request.Context(), principal.UserID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// AllBalances lists every active user's balances, optionally paged with
// page and page_size.
func (h *Handler) AllBalances(c *gin.Context) {
	year, err := queryYear(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	page, errPage := queryOptionalInt(c, "page")
	pageSize, errSize := queryOptionalInt(c, "page_size")
	if errPage != nil || errSize != nil {
		h.writeServiceError(c, apperror.InvalidField("page"))
		return
	}

	resp, err := h.service.ListAllBalances(c.Request.Context(), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if page == 0 && pageSize == 0 {
		response.Success(c, http.StatusOK, resp, nil)
		return
	}
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) UtilizationStats(c *gin.Context) {
	year, err := queryYear(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.UtilizationStats(c.Request.Context(), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UserBalances(c *gin.Context) {
	year, err := queryYear(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ListBalances(c.Request.Context(), c.Param("id"), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SetAllocation(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	userID := c.Param("id")
	h.logger.Debug("http set allocation", zap.String("actor_id", principal.UserID), zap.String("user_id", userID))

	var req SetAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http set allocation validation failed", zap.Error(err))
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, appErr.Code, appErr.Message, err.Error())
		return
	}

	resp, err := h.service.AdminSetAllocation(c.Request.Context(), principal.UserID, userID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BulkSetAllocation(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	userID := c.Param("id")
	h.logger.Debug("http bulk set allocation", zap.String("actor_id", principal.UserID), zap.String("user_id", userID))

	var req BulkSetAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http bulk set allocation validation failed", zap.Error(err))
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, appErr.Code, appErr.Message, err.Error())
		return
	}

	resp, err := h.service.BulkSetAllocation(c.Request.Context(), principal.UserID, userID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ResetUser(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	year, err := queryYear(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ResetForNewYear(c.Request.Context(), principal.UserID, c.Param("id"), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// ResetAll queues a year reset for every active user.
func (h *Handler) ResetAll(c *gin.Context) {
	if h.scheduler == nil {
		h.writeServiceError(c, balanceerrors.ErrYearResetUnavailable)
		return
	}
	principal, _ := middleware.PrincipalFrom(c)
	year, err := queryYear(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	n, err := h.scheduler.ScheduleYearReset(c.Request.Context(), principal.UserID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, BulkResetResponse{Year: year, Scheduled: n}, nil)
}
