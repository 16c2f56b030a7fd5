package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/domain"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	mock_leave "go-leave/internal/leave/mock"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func init() {
	gin.SetMode(gin.TestMode)
}

func setupLeaveRouter(t *testing.T, actor *domain.Principal) (*gin.Engine, *mock_leave.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mock_leave.NewMockService(ctrl)

	r := gin.New()
	api := r.Group("/api/v1")
	if actor != nil {
		api.Use(func(c *gin.Context) {
			middleware.SetPrincipal(c, *actor)
			c.Next()
		})
	}
	leave.RegisterRoutes(api, leave.NewHandler(svc), nil)
	return r, svc
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLeaveHandler_Create(t *testing.T) {
	actor := domain.Principal{UserID: uuid.NewString(), Roles: []string{domain.RoleEmployee}}

	t.Run("success", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().
			Create(gomock.Any(), actor, leave.CreateLeaveRequest{
				LeaveType: "ANNUAL", StartDate: "2026-03-10", EndDate: "2026-03-12", Reason: "trip",
			}).
			Return(leave.LeaveResponse{ID: uuid.NewString(), Status: leave.StatusPending, DaysRequested: 3}, nil)

		w := doRequest(r, http.MethodPost, "/api/v1/leave-requests",
			`{"leave_type":"ANNUAL","start_date":"2026-03-10","end_date":"2026-03-12","reason":"trip"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, 3, got.DaysRequested)
	})

	t.Run("missing fields is a validation error", func(t *testing.T) {
		r, _ := setupLeaveRouter(t, &actor)

		w := doRequest(r, http.MethodPost, "/api/v1/leave-requests", `{"leave_type":"ANNUAL"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("insufficient balance carries details", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(leave.LeaveResponse{}, balanceerrors.InsufficientBalance(2, 2, 3))

		w := doRequest(r, http.MethodPost, "/api/v1/leave-requests",
			`{"leave_type":"ANNUAL","start_date":"2026-03-10","end_date":"2026-03-12"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)
		assert.Contains(t, string(env.Error.Details), `"requested_days":3`)
	})

	t.Run("no principal is unauthorized", func(t *testing.T) {
		r, _ := setupLeaveRouter(t, nil)

		w := doRequest(r, http.MethodPost, "/api/v1/leave-requests",
			`{"leave_type":"ANNUAL","start_date":"2026-03-10","end_date":"2026-03-12"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	actor := domain.Principal{UserID: uuid.NewString(), Roles: []string{domain.RoleHR}}

	t.Run("paginates when asked", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().
			GetAll(gomock.Any(), actor, leave.ListFilter{Year: 2026, Scope: leave.ScopeAll}).
			Return(make([]leave.LeaveResponse, 5), nil)

		w := doRequest(r, http.MethodGet, "/api/v1/leave-requests?year=2026&scope=all&page=2&page_size=2", "")

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var items []leave.LeaveResponse
		require.NoError(t, json.Unmarshal(env.Data, &items))
		assert.Len(t, items, 2)
		assert.Contains(t, string(env.Meta), `"totalPages":3`)
	})

	t.Run("bad year", func(t *testing.T) {
		r, _ := setupLeaveRouter(t, &actor)

		w := doRequest(r, http.MethodGet, "/api/v1/leave-requests?year=next", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Decisions(t *testing.T) {
	actor := domain.Principal{UserID: uuid.NewString(), Roles: []string{domain.RoleHR}}
	id := uuid.NewString()

	t.Run("approve with comments", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().Approve(gomock.Any(), actor, id, "ok by me").
			Return(leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil)

		w := doRequest(r, http.MethodPost, "/api/v1/leave-requests/"+id+"/approve", `{"comments":"ok by me"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("approve without body", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().Approve(gomock.Any(), actor, id, "").
			Return(leave.LeaveResponse{ID: id, Status: leave.StatusHRApproved}, nil)

		w := doRequest(r, http.MethodPost, "/api/v1/leave-requests/"+id+"/approve", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reject answers no content", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().Reject(gomock.Any(), actor, id, "no").
			Return(leave.LeaveResponse{ID: id, Status: leave.StatusRejected}, nil)

		w := doRequest(r, http.MethodPost, "/api/v1/leave-requests/"+id+"/reject", `{"comments":"no"}`)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("invalid transition is a conflict status", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().Approve(gomock.Any(), gomock.Any(), id, "").
			Return(leave.LeaveResponse{}, leaveerrors.ErrInvalidTransition)

		w := doRequest(r, http.MethodPost, "/api/v1/leave-requests/"+id+"/approve", "")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INVALID_STATE", decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().Reject(gomock.Any(), gomock.Any(), id, "").
			Return(leave.LeaveResponse{}, leaveerrors.ErrForbidden)

		w := doRequest(r, http.MethodPost, "/api/v1/leave-requests/"+id+"/reject", "")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLeaveHandler_CancelAndUpdate(t *testing.T) {
	actor := domain.Principal{UserID: uuid.NewString(), Roles: []string{domain.RoleEmployee}}
	id := uuid.NewString()

	t.Run("cancel", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().Cancel(gomock.Any(), actor, id).Return(nil)

		w := doRequest(r, http.MethodDelete, "/api/v1/leave-requests/"+id, "")

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("update merges pointer fields", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().
			Update(gomock.Any(), actor, id, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.Principal, _ string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Nil(t, req.StartDate)
				require.NotNil(t, req.EndDate)
				assert.Equal(t, "2026-03-14", *req.EndDate)
				return leave.LeaveResponse{ID: id, DaysRequested: 5}, nil
			})

		w := doRequest(r, http.MethodPut, "/api/v1/leave-requests/"+id, `{"end_date":"2026-03-14"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_Reads(t *testing.T) {
	actor := domain.Principal{UserID: uuid.NewString(), Roles: []string{domain.RoleTeamLead}}
	id := uuid.NewString()

	t.Run("pending routes before id", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().GetPendingApprovals(gomock.Any(), actor, leave.ApprovalTypeTeamLead).
			Return([]leave.LeaveResponse{{ID: id}}, nil)

		w := doRequest(r, http.MethodGet, "/api/v1/leave-requests/pending?type=team-lead", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("workflow", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		next := "HR"
		svc.EXPECT().GetWorkflowStatus(gomock.Any(), actor, id).
			Return(leave.WorkflowStatusResponse{CurrentStatus: leave.StatusTeamLeadApproved, NextApprover: &next}, nil)

		w := doRequest(r, http.MethodGet, "/api/v1/leave-requests/"+id+"/workflow", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"next_approver":"HR"`)
	})

	t.Run("timeline", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().GetTimeline(gomock.Any(), actor, id).
			Return([]leave.TimelineEntry{{Event: "submitted"}}, nil)

		w := doRequest(r, http.MethodGet, "/api/v1/leave-requests/"+id+"/timeline", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("summary", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().GetSummary(gomock.Any(), actor, 2025).
			Return(leave.SummaryResponse{}, leaveerrors.ErrForbidden)

		w := doRequest(r, http.MethodGet, "/api/v1/leave-requests/summary?year=2025", "")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().GetByID(gomock.Any(), actor, id).
			Return(leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound)

		w := doRequest(r, http.MethodGet, "/api/v1/leave-requests/"+id, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})
	t.Run("stats", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().GetStats(gomock.Any(), actor).
			Return(leave.StatsResponse{Total: 1, ByStatus: map[string]int{leave.StatusPending: 1}}, nil)

		w := doRequest(r, http.MethodGet, "/api/v1/leave-requests/stats", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":1`)
	})

	t.Run("calendar", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, &actor)
		svc.EXPECT().GetCalendar(gomock.Any(), actor, 2026).
			Return([]leave.CalendarEntry{{Date: "2026-03-10", LeaveType: "ANNUAL"}}, nil)

		w := doRequest(r, http.MethodGet, "/api/v1/leave-requests/calendar/2026", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"date":"2026-03-10"`)
	})

	t.Run("calendar with a bad year", func(t *testing.T) {
		r, _ := setupLeaveRouter(t, &actor)

		w := doRequest(r, http.MethodGet, "/api/v1/leave-requests/calendar/next", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
