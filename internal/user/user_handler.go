package user

import (
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	directory Directory
	logger    *zap.Logger
}

func NewHandler(directory Directory, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("user.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.handler")
	}
	return &Handler{directory: directory, logger: l}
}

func (h *Handler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	userID := contextutil.GetUserID(ctx)
	h.logger.Debug("http get me", zap.String("user_id", userID))

	resp, err := h.directory.GetMe(ctx, userID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
