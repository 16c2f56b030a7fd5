package notification

import (
	"net/http"
	"strconv"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := contextutil.GetUserID(ctx)
	if userID == "" {
		userID = c.GetString("user_id")
	}
	if userID == "" {
		httpErr := apperror.ToHTTP(apperror.ErrUnauthorized)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			httpErr := apperror.ToHTTP(apperror.InvalidField("limit"))
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
			return
		}
		limit = v
	}

	items, err := h.service.List(ctx, userID, limit)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Error("list notifications failed", zap.String("user_id", userID), zap.Error(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, items, nil)
}
