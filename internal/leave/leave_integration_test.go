package leave_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/domain"
	"go-leave/internal/events"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/counter"
	"go-leave/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type workflowEnv struct {
	service leave.Service
	ledger  balance.Service
	db      *gorm.DB
	adminID string
}

// setupWorkflow wires the real ledger, repository and gate over a sqlite
// file. A single connection serializes transactions the way row locks do
// on postgres.
func setupWorkflow(t *testing.T) *workflowEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "leave.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(
		&leave.LeaveRequest{},
		&balance.LeaveBalance{},
		&balance.Reservation{},
		&counter.SequenceCounter{},
		&user.User{},
		&kafka.OutboxEventRecord{},
	))

	ledger := balance.NewService(sqlDB, balance.NewRepository(gdb))
	svc := leave.NewService(sqlDB, leave.NewRepository(gdb), ledger, newGate(t),
		leave.WithCounter(counter.NewRepository(gdb)),
		leave.WithOutbox(kafka.NewOutboxRepository(gdb)),
		leave.WithClock(func() time.Time { return fixedNow }),
	)
	return &workflowEnv{service: svc, ledger: ledger, db: gdb, adminID: uuid.NewString()}
}

func (e *workflowEnv) allocate(t *testing.T, userID string, days int) {
	t.Helper()
	_, err := e.ledger.AdminSetAllocation(context.Background(), e.adminID, userID, balance.SetAllocationRequest{
		LeaveType:      domain.LeaveTypeAnnual,
		Year:           2026,
		TotalAllocated: days,
	})
	require.NoError(t, err)
}

func (e *workflowEnv) outboxEvents(t *testing.T) []kafka.OutboxEventRecord {
	t.Helper()
	var recs []kafka.OutboxEventRecord
	require.NoError(t, e.db.Order("created_at").Find(&recs).Error)
	return recs
}

func (e *workflowEnv) balanceOf(t *testing.T, userID string) balance.BalanceResponse {
	t.Helper()
	b, err := e.ledger.GetBalance(context.Background(), userID, domain.LeaveTypeAnnual, 2026)
	require.NoError(t, err)
	return b
}

func annual(start, end string) leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{LeaveType: domain.LeaveTypeAnnual, StartDate: start, EndDate: end}
}

func TestWorkflow_ApprovedThroughTeamLeadAndHR(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID, leadID, hrID := uuid.New(), uuid.New(), uuid.New()
	env.allocate(t, requesterID.String(), 10)

	created, err := env.service.Create(ctx, employee(requesterID, &leadID), annual("2026-03-10", "2026-03-12"))
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, created.Status)
	assert.Equal(t, "LV-2026-000001", created.ReferenceNo)

	b := env.balanceOf(t, requesterID.String())
	assert.Equal(t, 3, b.ReservedDays)
	assert.Equal(t, 10, b.RemainingDays)
	assert.Equal(t, 7, b.AvailableDays)

	resp, err := env.service.Approve(ctx, employee(leadID, nil), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusTeamLeadApproved, resp.Status)

	resp, err = env.service.Approve(ctx, withRoles(hrID, domain.RoleHR), created.ID, "enjoy")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
	assert.Equal(t, 3, resp.Version)

	b = env.balanceOf(t, requesterID.String())
	assert.Equal(t, 3, b.UsedDays)
	assert.Equal(t, 7, b.RemainingDays)
	assert.Equal(t, 0, b.ReservedDays)

	timeline, err := env.service.GetTimeline(ctx, employee(requesterID, &leadID), created.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 3)
	assert.Equal(t, "HR", timeline[2].Step)
}

func TestWorkflow_InsufficientBalancePersistsNothing(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID := uuid.New()
	env.allocate(t, requesterID.String(), 2)

	_, err := env.service.Create(ctx, employee(requesterID, nil), annual("2026-03-10", "2026-03-12"))
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientBalance))

	list, err := env.service.GetAll(ctx, employee(requesterID, nil), leave.ListFilter{Year: 2026})
	require.NoError(t, err)
	assert.Empty(t, list)

	b := env.balanceOf(t, requesterID.String())
	assert.Equal(t, 2, b.RemainingDays)
	assert.Equal(t, 0, b.ReservedDays)
}

func TestWorkflow_RejectBeforeManagementReleasesHold(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID, leadID, hrID := uuid.New(), uuid.New(), uuid.New()
	env.allocate(t, requesterID.String(), 10)

	created, err := env.service.Create(ctx, employee(requesterID, &leadID), annual("2026-03-10", "2026-03-15"))
	require.NoError(t, err)
	assert.Equal(t, 6, created.DaysRequested)

	status, err := env.service.GetWorkflowStatus(ctx, employee(requesterID, &leadID), created.ID)
	require.NoError(t, err)
	assert.True(t, status.RequiresManagement)
	assert.Len(t, status.Steps, 3)

	_, err = env.service.Approve(ctx, employee(leadID, nil), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 4, env.balanceOf(t, requesterID.String()).AvailableDays)

	resp, err := env.service.Reject(ctx, withRoles(hrID, domain.RoleHR), created.ID, "peak season")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, resp.Status)

	b := env.balanceOf(t, requesterID.String())
	assert.Equal(t, 10, b.RemainingDays)
	assert.Equal(t, 0, b.ReservedDays)
	assert.Equal(t, 0, b.UsedDays)

	status, err = env.service.GetWorkflowStatus(ctx, employee(requesterID, &leadID), created.ID)
	require.NoError(t, err)
	assert.True(t, status.IsFinal)
	assert.Nil(t, status.NextApprover)
	assert.Equal(t, "REJECTED", status.Steps[1].Status)
	assert.Equal(t, "SKIPPED", status.Steps[2].Status)
}

func TestWorkflow_CancelMidway(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID, leadID := uuid.New(), uuid.New()
	env.allocate(t, requesterID.String(), 10)

	created, err := env.service.Create(ctx, employee(requesterID, &leadID), annual("2026-03-10", "2026-03-11"))
	require.NoError(t, err)
	_, err = env.service.Approve(ctx, employee(leadID, nil), created.ID, "")
	require.NoError(t, err)

	require.NoError(t, env.service.Cancel(ctx, employee(requesterID, &leadID), created.ID))

	got, err := env.service.GetByID(ctx, employee(requesterID, &leadID), created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)
	assert.Equal(t, 0, env.balanceOf(t, requesterID.String()).ReservedDays)

	err = env.service.Cancel(ctx, employee(requesterID, &leadID), created.ID)
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)

	// the freed period can be requested again
	_, err = env.service.Create(ctx, employee(requesterID, &leadID), annual("2026-03-10", "2026-03-11"))
	assert.NoError(t, err)
}

func TestWorkflow_HRStepNeedsHRRole(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID, leadID := uuid.New(), uuid.New()
	env.allocate(t, requesterID.String(), 10)

	created, err := env.service.Create(ctx, withRoles(requesterID, domain.RoleManagement), annual("2026-03-10", "2026-03-10"))
	require.NoError(t, err)

	for _, actor := range []domain.Principal{
		withRoles(requesterID, domain.RoleManagement),
		employee(leadID, nil),
		withRoles(uuid.New(), domain.RoleTeamLead, domain.RoleManagement),
	} {
		_, err := env.service.Approve(ctx, actor, created.ID, "")
		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
	}

	resp, err := env.service.Approve(ctx, withRoles(uuid.New(), domain.RoleAdmin), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
}

func TestWorkflow_TerminalStatesRejectEveryAction(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID, hrID := uuid.New(), uuid.New()
	env.allocate(t, requesterID.String(), 10)
	hr := withRoles(hrID, domain.RoleHR)
	owner := employee(requesterID, nil)

	created, err := env.service.Create(ctx, owner, annual("2026-03-10", "2026-03-11"))
	require.NoError(t, err)
	_, err = env.service.Approve(ctx, hr, created.ID, "")
	require.NoError(t, err)
	before := env.balanceOf(t, requesterID.String())

	_, err = env.service.Approve(ctx, hr, created.ID, "")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
	_, err = env.service.Reject(ctx, hr, created.ID, "")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
	err = env.service.Cancel(ctx, owner, created.ID)
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
	reason := "changed my mind"
	_, err = env.service.Update(ctx, owner, created.ID, leave.UpdateLeaveRequest{Reason: &reason})
	assert.ErrorIs(t, err, leaveerrors.ErrNotEditable)

	assert.Equal(t, before, env.balanceOf(t, requesterID.String()))
}

func TestWorkflow_UpdateMovesHold(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID := uuid.New()
	env.allocate(t, requesterID.String(), 10)
	owner := employee(requesterID, nil)

	created, err := env.service.Create(ctx, owner, annual("2026-03-10", "2026-03-11"))
	require.NoError(t, err)

	end := "2026-03-14"
	updated, err := env.service.Update(ctx, owner, created.ID, leave.UpdateLeaveRequest{EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.DaysRequested)
	assert.Equal(t, 5, env.balanceOf(t, requesterID.String()).ReservedDays)

	end = "2026-03-20"
	_, err = env.service.Update(ctx, owner, created.ID, leave.UpdateLeaveRequest{EndDate: &end})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientBalance))
	assert.Equal(t, 5, env.balanceOf(t, requesterID.String()).ReservedDays)
}

func TestWorkflow_ConcurrentCreatesNeverOverdraw(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID := uuid.New()
	env.allocate(t, requesterID.String(), 20)
	owner := employee(requesterID, nil)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i*7)
			_, err := env.service.Create(ctx, owner, annual(
				start.Format("2006-01-02"),
				start.AddDate(0, 0, 4).Format("2006-01-02"),
			))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperror.HasCode(err, apperror.CodeInsufficientBalance):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, succeeded)
	assert.Equal(t, workers-4, rejected)

	b := env.balanceOf(t, requesterID.String())
	assert.Equal(t, 20, b.ReservedDays)
	assert.Equal(t, 0, b.AvailableDays)
	assert.Equal(t, b.TotalAllocated+b.CarryOverDays-b.UsedDays, b.RemainingDays)
}

func TestWorkflow_ConcurrentFinalApprovalsCommitOnce(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID := uuid.New()
	env.allocate(t, requesterID.String(), 10)

	created, err := env.service.Create(ctx, employee(requesterID, nil), annual("2026-03-10", "2026-03-12"))
	require.NoError(t, err)

	const approvers = 5
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < approvers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.service.Approve(ctx, withRoles(uuid.New(), domain.RoleHR), created.ID, "")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
				return
			}
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState) || apperror.HasCode(err, apperror.CodeConflict), err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	b := env.balanceOf(t, requesterID.String())
	assert.Equal(t, 3, b.UsedDays)
	assert.Equal(t, 0, b.ReservedDays)
}

func TestWorkflow_PendingQueues(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	alice, bob, leadID, hrID, mgmtID := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	env.allocate(t, alice.String(), 10)
	env.allocate(t, bob.String(), 10)

	led, err := env.service.Create(ctx, employee(alice, &leadID), annual("2026-03-10", "2026-03-11"))
	require.NoError(t, err)
	unled, err := env.service.Create(ctx, employee(bob, nil), annual("2026-03-10", "2026-03-15"))
	require.NoError(t, err)

	queue, err := env.service.GetPendingApprovals(ctx, employee(leadID, nil), leave.ApprovalTypeTeamLead)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, led.ID, queue[0].ID)

	hr := withRoles(hrID, domain.RoleHR)
	queue, err = env.service.GetPendingApprovals(ctx, hr, leave.ApprovalTypeHR)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, unled.ID, queue[0].ID)

	_, err = env.service.Approve(ctx, hr, unled.ID, "")
	require.NoError(t, err)

	queue, err = env.service.GetPendingApprovals(ctx, withRoles(mgmtID, domain.RoleManagement), leave.ApprovalTypeManagement)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, unled.ID, queue[0].ID)
	assert.Equal(t, leave.StatusHRApproved, queue[0].Status)
}

func TestWorkflow_PolicyLimitsHoldNothing(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID := uuid.New()
	env.allocate(t, requesterID.String(), 30)
	owner := employee(requesterID, nil)

	_, err := env.service.Create(ctx, owner, annual("2026-03-02", "2026-03-19"))
	assert.ErrorIs(t, err, leaveerrors.ErrInsufficientNotice)

	_, err = env.service.Create(ctx, owner, annual("2026-03-10", "2026-03-27"))
	assert.ErrorIs(t, err, leaveerrors.ErrExceedsMaxConsecutiveDays)

	_, err = env.service.Create(ctx, owner, leave.CreateLeaveRequest{
		LeaveType: domain.LeaveTypeSick, StartDate: "2026-03-05", EndDate: "2026-03-12",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrExceedsMaxConsecutiveDays)

	assert.Zero(t, env.balanceOf(t, requesterID.String()).ReservedDays)

	created, err := env.service.Create(ctx, owner, annual("2026-03-10", "2026-03-11"))
	require.NoError(t, err)

	end := "2026-03-31"
	_, err = env.service.Update(ctx, owner, created.ID, leave.UpdateLeaveRequest{EndDate: &end})
	assert.ErrorIs(t, err, leaveerrors.ErrExceedsMaxConsecutiveDays)
	assert.Equal(t, 2, env.balanceOf(t, requesterID.String()).ReservedDays)
}

func TestWorkflow_StatsAndCalendar(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID := uuid.New()
	env.allocate(t, requesterID.String(), 20)
	owner := employee(requesterID, nil)

	kept, err := env.service.Create(ctx, owner, annual("2026-03-10", "2026-03-12"))
	require.NoError(t, err)
	dropped, err := env.service.Create(ctx, owner, annual("2026-04-06", "2026-04-07"))
	require.NoError(t, err)
	require.NoError(t, env.service.Cancel(ctx, owner, dropped.ID))

	stats, err := env.service.GetStats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[leave.StatusPending])
	assert.Equal(t, 1, stats.ByStatus[leave.StatusCancelled])

	days, err := env.service.GetCalendar(ctx, owner, 2026)
	require.NoError(t, err)
	require.Len(t, days, 3)
	for _, d := range days {
		assert.Equal(t, kept.ID, d.LeaveRequestID)
	}
}

func TestWorkflow_OutboxCommitsWithTheRequest(t *testing.T) {
	env := setupWorkflow(t)
	ctx := context.Background()
	requesterID := uuid.New()
	env.allocate(t, requesterID.String(), 3)
	actor := employee(requesterID, nil)

	created, err := env.service.Create(ctx, actor, annual("2026-03-10", "2026-03-12"))
	require.NoError(t, err)

	_, err = env.service.Create(ctx, actor, annual("2026-03-16", "2026-03-17"))
	require.True(t, apperror.HasCode(err, apperror.CodeInsufficientBalance))

	require.NoError(t, env.service.Cancel(ctx, actor, created.ID))

	recs := env.outboxEvents(t)
	require.Len(t, recs, 2, "the rejected create leaves no event behind")
	assert.Equal(t, events.LeaveSubmitted, recs[0].EventType)
	assert.Equal(t, events.LeaveCancelled, recs[1].EventType)
	for _, rec := range recs {
		assert.Equal(t, created.ID, rec.AggregateID.String())
		assert.Equal(t, kafka.OutboxStatusPending, rec.Status)
	}
}
