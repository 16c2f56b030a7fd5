package leave

import (
	"net/http"
	"strconv"

	"go-leave/internal/domain"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, op string, err error) {
	h.logger.Warn("http "+op+" validation failed", zap.Error(err))
	appErr := apperror.MapValidationError(err)
	response.Error(c, http.StatusBadRequest, appErr.Code, appErr.Message, err.Error())
}

// principal aborts with 401 when the auth chain did not run.
func (h *Handler) principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
	}
	return p, ok
}

func queryInt(c *gin.Context, key string, fallback int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	h.logger.Debug("http create leave", zap.String("actor_id", actor.UserID))

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "create leave", err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// GetAll lists the caller's requests for a year, or everyone's with
// scope=all. page and page_size are optional.
func (h *Handler) GetAll(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	year, ok := queryInt(c, "year", 0)
	if !ok {
		h.writeServiceError(c, leaveerrors.ErrInvalidYear)
		return
	}
	page, okPage := queryInt(c, "page", 0)
	pageSize, okSize := queryInt(c, "page_size", 0)
	if !okPage || !okSize {
		h.writeServiceError(c, apperror.InvalidField("page"))
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), actor, ListFilter{Year: year, Scope: c.Query("scope")})
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

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.logger.Debug("http update leave", zap.String("leave_id", id), zap.String("actor_id", actor.UserID))

	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "update leave", err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.logger.Debug("http cancel leave", zap.String("leave_id", id), zap.String("actor_id", actor.UserID))

	if err := h.service.Cancel(c.Request.Context(), actor, id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.NoContent(c)
}

// bindDecision accepts an empty body.
func (h *Handler) bindDecision(c *gin.Context) (DecisionRequest, bool) {
	var req DecisionRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "leave decision", err)
		return req, false
	}
	return req, true
}

func (h *Handler) Approve(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.logger.Debug("http approve leave", zap.String("leave_id", id), zap.String("actor_id", actor.UserID))

	req, ok := h.bindDecision(c)
	if !ok {
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), actor, id, req.Comments)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.logger.Debug("http reject leave", zap.String("leave_id", id), zap.String("actor_id", actor.UserID))

	req, ok := h.bindDecision(c)
	if !ok {
		return
	}

	if _, err := h.service.Reject(c.Request.Context(), actor, id, req.Comments); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) Pending(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.service.GetPendingApprovals(c.Request.Context(), actor, c.Query("type"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Workflow(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.service.GetWorkflowStatus(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Timeline(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.service.GetTimeline(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Summary(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	year, ok := queryInt(c, "year", 0)
	if !ok {
		h.writeServiceError(c, leaveerrors.ErrInvalidYear)
		return
	}

	resp, err := h.service.GetSummary(c.Request.Context(), actor, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Stats(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.service.GetStats(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Calendar(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidYear)
		return
	}

	resp, err := h.service.GetCalendar(c.Request.Context(), actor, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
