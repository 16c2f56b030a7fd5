package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/balance"
	"go-leave/internal/domain"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/observability"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Principal, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor domain.Principal, filter ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Principal, id string) (LeaveResponse, error)
	Update(ctx context.Context, actor domain.Principal, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actor domain.Principal, id, comments string) (LeaveResponse, error)
	Reject(ctx context.Context, actor domain.Principal, id, comments string) (LeaveResponse, error)
	Cancel(ctx context.Context, actor domain.Principal, id string) error
	GetPendingApprovals(ctx context.Context, actor domain.Principal, approvalType string) ([]LeaveResponse, error)
	GetWorkflowStatus(ctx context.Context, actor domain.Principal, id string) (WorkflowStatusResponse, error)
	GetTimeline(ctx context.Context, actor domain.Principal, id string) ([]TimelineEntry, error)
	GetSummary(ctx context.Context, actor domain.Principal, year int) (SummaryResponse, error)
	GetStats(ctx context.Context, actor domain.Principal) (StatsResponse, error)
	GetCalendar(ctx context.Context, actor domain.Principal, year int) ([]CalendarEntry, error)
}

// Gate is satisfied by *approval.Gate.
type Gate interface {
	CanAct(actor domain.Principal, subject approval.Subject, step approval.Step) bool
	CanCancel(actor domain.Principal, subject approval.Subject) bool
	CanReadAll(actor domain.Principal) bool
	CanSummarize(actor domain.Principal) bool
}

type service struct {
	db       *sql.DB
	repo     Repository
	ledger   balance.Service
	gate     Gate
	resolver approval.StepResolver
	policies balance.Policies
	outbox   kafka.OutboxRepository
	counter  counter.Repository
	metrics  *observability.Metrics
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*service)

// WithOutbox records a lifecycle event in the same transaction as every
// state change.
func WithOutbox(outbox kafka.OutboxRepository) Option {
	return func(s *service) { s.outbox = outbox }
}

// WithCounter numbers requests per year (LV-2026-000042).
func WithCounter(c counter.Repository) Option {
	return func(s *service) { s.counter = c }
}

func WithResolver(r approval.StepResolver) Option {
	return func(s *service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithPolicies sets the per-type notice and length limits checked on
// create and update.
func WithPolicies(p balance.Policies) Option {
	return func(s *service) {
		if p != nil {
			s.policies = p
		}
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("leave.service")
		}
	}
}

func NewService(db *sql.DB, repo Repository, ledger balance.Service, gate Gate, opts ...Option) Service {
	s := &service{
		db:       db,
		repo:     repo,
		ledger:   ledger,
		gate:     gate,
		resolver: approval.DefaultResolver,
		policies: balance.DefaultPolicies,
		now:      time.Now,
		logger:   zap.L().Named("leave.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, actor domain.Principal, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("actor_id", actor.UserID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	requesterID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	var teamLeadID *uuid.UUID
	if actor.TeamLeadID != nil {
		lead, err := uuid.Parse(*actor.TeamLeadID)
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidActorID
		}
		teamLeadID = &lead
	}

	startDate, endDate, err := s.validatePeriod(req.LeaveType, req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.String("actor_id", actor.UserID), zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		RequesterID:   requesterID,
		TeamLeadID:    teamLeadID,
		LeaveType:     req.LeaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		DaysRequested: countDays(startDate, endDate),
		Year:          startDate.Year(),
		Reason:        strings.TrimSpace(req.Reason),
		Status:        StatusPending,
		Version:       1,
	}
	steps := s.resolver.ResolveSteps(l.snapshot())

	err = s.inTx(ctx, "create leave", func(tx *sql.Tx, repo Repository) error {
		if err := repo.LockRequester(ctx, actor.UserID); err != nil {
			return mapRepositoryError(err)
		}
		overlap, err := repo.HasOverlappingPeriod(ctx, actor.UserID, startDate, endDate, nil)
		if err != nil {
			return mapRepositoryError(err)
		}
		if overlap {
			return leaveerrors.ErrLeaveOverlap
		}

		ref, err := s.nextReference(ctx, tx, l)
		if err != nil {
			return err
		}
		l.ReferenceNo = ref

		ledger := s.ledger.WithTx(tx)
		reservationID, err := ledger.Reserve(ctx, balance.ReserveRequest{
			UserID:    actor.UserID,
			LeaveType: l.LeaveType,
			Year:      l.Year,
			Days:      l.DaysRequested,
			RequestID: l.ID.String(),
		})
		if err != nil {
			return err
		}
		rid := uuid.MustParse(reservationID)
		l.ReservationID = &rid

		eventType := events.LeaveSubmitted
		if len(steps) == 0 {
			if err := ledger.Commit(ctx, reservationID); err != nil {
				return err
			}
			l.Status = StatusApproved
			eventType = events.LeaveApproved
		}

		if err := repo.Create(ctx, l); err != nil {
			return mapRepositoryError(err)
		}
		return s.publish(ctx, tx, l, eventType, actor.UserID, "", "")
	})
	if err != nil {
		s.logFailure("create leave failed", err, zap.String("actor_id", actor.UserID))
		return LeaveResponse{}, err
	}

	s.metrics.LeaveTransition("NONE", l.Status)
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("reference_no", l.ReferenceNo),
		zap.String("status", l.Status),
		zap.Int("days_requested", l.DaysRequested),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, actor domain.Principal, filter ListFilter) ([]LeaveResponse, error) {
	year := filter.Year
	if year == 0 {
		year = s.now().UTC().Year()
	}
	if year < 1970 || year > 9999 {
		return nil, leaveerrors.ErrInvalidYear
	}

	requesterID := actor.UserID
	switch filter.Scope {
	case "", ScopeMine:
	case ScopeAll:
		if !s.gate.CanReadAll(actor) {
			return nil, leaveerrors.ErrForbidden
		}
		requesterID = ""
	default:
		return nil, leaveerrors.ErrInvalidScope
	}

	leaves, err := s.repo.List(ctx, requesterID, year)
	if err != nil {
		s.logger.Error("list leaves failed", zap.String("actor_id", actor.UserID), zap.Int("year", year), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Principal, id string) (LeaveResponse, error) {
	l, err := s.load(ctx, actor, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Update(ctx context.Context, actor domain.Principal, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("update leave requested", zap.String("leave_id", id), zap.String("actor_id", actor.UserID))

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	var updated LeaveRequest
	err := s.inTx(ctx, "update leave", func(tx *sql.Tx, repo Repository) error {
		l, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if l.Status != StatusPending {
			return leaveerrors.ErrNotEditable
		}
		if l.RequesterID.String() != actor.UserID {
			return leaveerrors.ErrForbidden
		}

		leaveType := l.LeaveType
		if req.LeaveType != nil {
			leaveType = *req.LeaveType
		}
		startRaw := l.StartDate.Format(dateLayout)
		if req.StartDate != nil {
			startRaw = *req.StartDate
		}
		endRaw := l.EndDate.Format(dateLayout)
		if req.EndDate != nil {
			endRaw = *req.EndDate
		}
		startDate, endDate, err := s.validatePeriod(leaveType, startRaw, endRaw)
		if err != nil {
			return err
		}

		if err := repo.LockRequester(ctx, actor.UserID); err != nil {
			return mapRepositoryError(err)
		}
		overlap, err := repo.HasOverlappingPeriod(ctx, actor.UserID, startDate, endDate, &id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if overlap {
			return leaveerrors.ErrLeaveOverlap
		}

		days := countDays(startDate, endDate)
		year := startDate.Year()
		holdChanged := days != l.DaysRequested || leaveType != l.LeaveType || year != l.Year

		l.LeaveType = leaveType
		l.StartDate = startDate
		l.EndDate = endDate
		l.DaysRequested = days
		l.Year = year
		if req.Reason != nil {
			l.Reason = strings.TrimSpace(*req.Reason)
		}

		if holdChanged {
			// a failed Reserve rolls the Release back with the transaction
			ledger := s.ledger.WithTx(tx)
			if l.ReservationID != nil {
				if err := ledger.Release(ctx, l.ReservationID.String()); err != nil {
					return err
				}
			}
			reservationID, err := ledger.Reserve(ctx, balance.ReserveRequest{
				UserID:    actor.UserID,
				LeaveType: l.LeaveType,
				Year:      l.Year,
				Days:      l.DaysRequested,
				RequestID: l.ID.String(),
			})
			if err != nil {
				return err
			}
			rid := uuid.MustParse(reservationID)
			l.ReservationID = &rid
		}

		if err := s.save(ctx, repo, l); err != nil {
			return err
		}
		updated = *l
		return s.publish(ctx, tx, l, events.LeaveUpdated, actor.UserID, "", "")
	})
	if err != nil {
		s.logFailure("update leave failed", err, zap.String("leave_id", id), zap.String("actor_id", actor.UserID))
		return LeaveResponse{}, err
	}

	s.logger.Info("update leave success",
		zap.String("leave_id", id),
		zap.Int("days_requested", updated.DaysRequested),
	)
	return mapToResponse(updated), nil
}

func (s *service) Approve(ctx context.Context, actor domain.Principal, id, comments string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, comments, true)
}

func (s *service) Reject(ctx context.Context, actor domain.Principal, id, comments string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, comments, false)
}

// decide records actor's decision on the request's next undecided step.
// Approving the last required step finalizes the request and debits the
// balance; rejecting at any step releases the hold.
func (s *service) decide(ctx context.Context, actor domain.Principal, id, comments string, approve bool) (LeaveResponse, error) {
	op := "approve leave"
	if !approve {
		op = "reject leave"
	}
	s.logger.Debug(op+" requested", zap.String("leave_id", id), zap.String("actor_id", actor.UserID))

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	actorID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	var (
		decided LeaveRequest
		from    string
		step    approval.Step
	)
	err = s.inTx(ctx, op, func(tx *sql.Tx, repo Repository) error {
		l, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		from = l.Status
		if IsTerminal(l.Status) {
			return leaveerrors.ErrInvalidTransition
		}

		steps := s.resolver.ResolveSteps(l.snapshot())
		next, ok := nextStep(l, steps)
		if !ok {
			return leaveerrors.ErrNoPendingStep
		}
		step = next

		if !s.gate.CanAct(actor, l.subject(), step) {
			if decidedBy(l, actorID) {
				return leaveerrors.ErrAlreadyDecided
			}
			return leaveerrors.ErrForbidden
		}

		l.recordDecision(step, actorID, s.now().UTC(), strings.TrimSpace(comments))

		ledger := s.ledger.WithTx(tx)
		eventType := events.LeaveStepApproved
		switch {
		case !approve:
			rejected := string(step)
			l.RejectedStep = &rejected
			l.Status = StatusRejected
			eventType = events.LeaveRejected
			if l.ReservationID != nil {
				if err := ledger.Release(ctx, l.ReservationID.String()); err != nil {
					return err
				}
			}
		case step == steps[len(steps)-1]:
			l.Status = StatusApproved
			eventType = events.LeaveApproved
			if l.ReservationID != nil {
				if err := ledger.Commit(ctx, l.ReservationID.String()); err != nil {
					return err
				}
			}
		default:
			l.Status = stepStatus(step)
		}

		if err := s.save(ctx, repo, l); err != nil {
			return err
		}
		decided = *l
		return s.publish(ctx, tx, l, eventType, actor.UserID, step, comments)
	})
	if err != nil {
		s.logFailure(op+" failed", err, zap.String("leave_id", id), zap.String("actor_id", actor.UserID))
		return LeaveResponse{}, err
	}

	s.metrics.LeaveTransition(from, decided.Status)
	s.logger.Info(op+" success",
		zap.String("leave_id", id),
		zap.String("step", string(step)),
		zap.String("from_status", from),
		zap.String("to_status", decided.Status),
	)
	return mapToResponse(decided), nil
}

func (s *service) Cancel(ctx context.Context, actor domain.Principal, id string) error {
	s.logger.Debug("cancel leave requested", zap.String("leave_id", id), zap.String("actor_id", actor.UserID))

	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}
	actorID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return leaveerrors.ErrInvalidActorID
	}

	var from string
	err = s.inTx(ctx, "cancel leave", func(tx *sql.Tx, repo Repository) error {
		l, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		from = l.Status
		if IsTerminal(l.Status) {
			return leaveerrors.ErrInvalidTransition
		}
		if !s.gate.CanCancel(actor, l.subject()) {
			return leaveerrors.ErrForbidden
		}

		now := s.now().UTC()
		l.Status = StatusCancelled
		l.CancelledAt = &now
		l.CancelledBy = &actorID
		if l.ReservationID != nil {
			if err := s.ledger.WithTx(tx).Release(ctx, l.ReservationID.String()); err != nil {
				return err
			}
		}

		if err := s.save(ctx, repo, l); err != nil {
			return err
		}
		return s.publish(ctx, tx, l, events.LeaveCancelled, actor.UserID, "", "")
	})
	if err != nil {
		s.logFailure("cancel leave failed", err, zap.String("leave_id", id), zap.String("actor_id", actor.UserID))
		return err
	}

	s.metrics.LeaveTransition(from, StatusCancelled)
	s.logger.Info("cancel leave success", zap.String("leave_id", id), zap.String("from_status", from))
	return nil
}

func (s *service) GetPendingApprovals(ctx context.Context, actor domain.Principal, approvalType string) ([]LeaveResponse, error) {
	var step approval.Step
	switch approvalType {
	case ApprovalTypeTeamLead:
		step = approval.StepTeamLead
	case ApprovalTypeHR:
		step = approval.StepHR
	case ApprovalTypeManagement:
		step = approval.StepManagement
	default:
		return nil, leaveerrors.ErrInvalidApprovalType
	}

	// team-lead queues are scoped to the actor; the others need the role
	if step != approval.StepTeamLead && !s.gate.CanAct(actor, approval.Subject{}, step) {
		return nil, leaveerrors.ErrForbidden
	}

	leaves, err := s.repo.FindAwaitingStep(ctx, step, actor.UserID)
	if err != nil {
		s.logger.Error("list pending approvals failed",
			zap.String("actor_id", actor.UserID),
			zap.String("type", approvalType),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetWorkflowStatus(ctx context.Context, actor domain.Principal, id string) (WorkflowStatusResponse, error) {
	l, err := s.load(ctx, actor, id)
	if err != nil {
		return WorkflowStatusResponse{}, err
	}

	steps := s.resolver.ResolveSteps(l.snapshot())
	resp := WorkflowStatusResponse{
		CurrentStatus:      l.Status,
		IsFinal:            IsTerminal(l.Status),
		RequiresManagement: approval.RequiresManagement(steps),
		Steps:              make([]WorkflowStep, 0, len(steps)),
	}
	if !resp.IsFinal {
		if next, ok := nextStep(l, steps); ok {
			v := string(next)
			resp.NextApprover = &v
		}
	}

	pendingSeen := false
	for _, st := range steps {
		ws := WorkflowStep{Step: string(st)}
		d := l.Decision(st)
		switch {
		case d.Decided():
			ws.Status = "APPROVED"
			if l.RejectedStep != nil && *l.RejectedStep == string(st) {
				ws.Status = "REJECTED"
			}
			approver := d.ApproverID.String()
			ws.ApproverID = &approver
			if d.DecidedAt != nil {
				at := d.DecidedAt.UTC().Format(time.RFC3339)
				ws.DecidedAt = &at
			}
			ws.Comments = d.Comments
		case resp.IsFinal:
			ws.Status = "SKIPPED"
		case !pendingSeen:
			ws.Status = "PENDING"
			pendingSeen = true
		default:
			ws.Status = "WAITING"
		}
		resp.Steps = append(resp.Steps, ws)
	}
	return resp, nil
}

func (s *service) GetTimeline(ctx context.Context, actor domain.Principal, id string) ([]TimelineEntry, error) {
	l, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	entries := []TimelineEntry{{
		Event:   "submitted",
		ActorID: l.RequesterID.String(),
		At:      l.CreatedAt.UTC().Format(time.RFC3339),
	}}
	for _, st := range []approval.Step{approval.StepTeamLead, approval.StepHR, approval.StepManagement} {
		d := l.Decision(st)
		if !d.Decided() || d.DecidedAt == nil {
			continue
		}
		event := "approved"
		if l.RejectedStep != nil && *l.RejectedStep == string(st) {
			event = "rejected"
		}
		entries = append(entries, TimelineEntry{
			Event:    event,
			Step:     string(st),
			ActorID:  d.ApproverID.String(),
			At:       d.DecidedAt.UTC().Format(time.RFC3339),
			Comments: d.Comments,
		})
	}
	if l.CancelledAt != nil {
		e := TimelineEntry{Event: "cancelled", At: l.CancelledAt.UTC().Format(time.RFC3339)}
		if l.CancelledBy != nil {
			e.ActorID = l.CancelledBy.String()
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *service) GetSummary(ctx context.Context, actor domain.Principal, year int) (SummaryResponse, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	if year < 1970 || year > 9999 {
		return SummaryResponse{}, leaveerrors.ErrInvalidYear
	}
	if !s.gate.CanSummarize(actor) {
		return SummaryResponse{}, leaveerrors.ErrForbidden
	}

	leaves, err := s.repo.List(ctx, "", year)
	if err != nil {
		s.logger.Error("leave summary failed", zap.Int("year", year), zap.Error(err))
		return SummaryResponse{}, mapRepositoryError(err)
	}

	resp := SummaryResponse{
		Year:     year,
		Total:    len(leaves),
		ByStatus: map[string]int{},
		ByType:   map[string]int{},
		ByMonth:  map[string]int{},
	}
	for _, l := range leaves {
		resp.ByStatus[l.Status]++
		resp.ByType[l.LeaveType]++
		resp.ByMonth[fmt.Sprintf("%02d", int(l.StartDate.Month()))]++
		if l.Status == StatusApproved {
			resp.DaysApproved += l.DaysRequested
		}
	}
	return resp, nil
}

// GetStats counts the actor's own requests by status across all years.
func (s *service) GetStats(ctx context.Context, actor domain.Principal) (StatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("leave stats failed", zap.String("actor_id", actor.UserID), zap.Error(err))
		return StatsResponse{}, mapRepositoryError(err)
	}

	resp := StatsResponse{ByStatus: make(map[string]int, len(Statuses))}
	for _, st := range Statuses {
		resp.ByStatus[st] = counts[st]
		resp.Total += counts[st]
	}
	return resp, nil
}

// GetCalendar lists every day of the actor's live or approved requests
// starting in year, in date order.
func (s *service) GetCalendar(ctx context.Context, actor domain.Principal, year int) ([]CalendarEntry, error) {
	if year < 1970 || year > 9999 {
		return nil, leaveerrors.ErrInvalidYear
	}

	leaves, err := s.repo.List(ctx, actor.UserID, year)
	if err != nil {
		s.logger.Error("leave calendar failed", zap.String("actor_id", actor.UserID), zap.Int("year", year), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	entries := make([]CalendarEntry, 0)
	for _, l := range leaves {
		if l.Status == StatusRejected || l.Status == StatusCancelled {
			continue
		}
		for d := l.StartDate; !d.After(l.EndDate); d = d.AddDate(0, 0, 1) {
			entries = append(entries, CalendarEntry{
				Date:           d.Format(dateLayout),
				LeaveRequestID: l.ID.String(),
				ReferenceNo:    l.ReferenceNo,
				LeaveType:      l.LeaveType,
				Status:         l.Status,
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries, nil
}

// load reads a request the actor is allowed to see: their own, one they
// lead, or any with leave:read_all.
func (s *service) load(ctx context.Context, actor domain.Principal, id string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(mapRepositoryError(err), leaveerrors.ErrLeaveNotFound) {
			s.logger.Error("find leave failed", zap.String("leave_id", id), zap.Error(err))
		}
		return nil, mapRepositoryError(err)
	}

	if l.RequesterID.String() == actor.UserID {
		return l, nil
	}
	if l.TeamLeadID != nil && l.TeamLeadID.String() == actor.UserID {
		return l, nil
	}
	if s.gate.CanReadAll(actor) {
		return l, nil
	}
	return nil, leaveerrors.ErrForbidden
}

func (s *service) inTx(ctx context.Context, op string, fn func(tx *sql.Tx, repo Repository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error(op+" begin tx failed", zap.Error(err))
		return apperror.Storage(err)
	}
	defer tx.Rollback()

	if err := fn(tx, s.repo.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error(op+" commit failed", zap.Error(err))
		return apperror.Storage(err)
	}
	return nil
}

// save bumps the version and writes l only if nobody else did in between.
func (s *service) save(ctx context.Context, repo Repository, l *LeaveRequest) error {
	expected := l.Version
	l.Version++
	ok, err := repo.UpdateVersioned(ctx, l, expected)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !ok {
		return leaveerrors.ErrConcurrentModification
	}
	return nil
}

func (s *service) publish(ctx context.Context, tx *sql.Tx, l *LeaveRequest, eventType, actorID string, step approval.Step, comments string) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.LeaveLifecycleEvent{
		EventType:      eventType,
		RequestID:      rid,
		LeaveRequestID: l.ID.String(),
		ReferenceNo:    l.ReferenceNo,
		RequesterID:    l.RequesterID.String(),
		ActorID:        actorID,
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate.Format(dateLayout),
		EndDate:        l.EndDate.Format(dateLayout),
		DaysRequested:  l.DaysRequested,
		Status:         l.Status,
		Step:           string(step),
		Comments:       strings.TrimSpace(comments),
		OccurredAt:     s.now().UTC(),
	}
	if l.TeamLeadID != nil {
		lead := l.TeamLeadID.String()
		event.TeamLeadID = &lead
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave event failed", zap.String("request_id", rid), zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, apperror.ErrInternal.Message, apperror.ErrInternal.HTTPStatus)
	}

	if err := s.outbox.WithTx(tx).Enqueue(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
	}); err != nil {
		s.logger.Error("leave outbox persist failed",
			zap.String("leave_id", l.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return apperror.Storage(err)
	}
	return nil
}

func (s *service) nextReference(ctx context.Context, tx *sql.Tx, l *LeaveRequest) (string, error) {
	if s.counter == nil {
		return fmt.Sprintf("LV-%d-%s", l.Year, strings.ToUpper(l.ID.String()[:8])), nil
	}
	seq, err := s.counter.WithTx(tx).GetNextValue(ctx, fmt.Sprintf("%d", l.Year), "leave_request")
	if err != nil {
		s.logger.Error("allocate leave reference failed", zap.Int("year", l.Year), zap.Error(err))
		return "", apperror.Storage(err)
	}
	return fmt.Sprintf("LV-%d-%06d", l.Year, seq), nil
}

func (s *service) validatePeriod(leaveType, start, end string) (time.Time, time.Time, error) {
	if !domain.IsValidLeaveType(leaveType) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if startDate.Before(today) {
		return time.Time{}, time.Time{}, leaveerrors.ErrStartDateInPast
	}

	policy := s.policies.For(leaveType)
	if notice := int(startDate.Sub(today).Hours() / 24); notice < policy.MinNoticeDays {
		return time.Time{}, time.Time{}, leaveerrors.ErrInsufficientNotice
	}
	if policy.MaxConsecutiveDays > 0 && countDays(startDate, endDate) > policy.MaxConsecutiveDays {
		return time.Time{}, time.Time{}, leaveerrors.ErrExceedsMaxConsecutiveDays
	}
	return startDate, endDate, nil
}

func (s *service) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
		s.logger.Warn(msg, fields...)
		return
	}
	s.logger.Error(msg, fields...)
}

// nextStep is the first required step without a decision.
func nextStep(l *LeaveRequest, steps []approval.Step) (approval.Step, bool) {
	for _, st := range steps {
		if !l.Decision(st).Decided() {
			return st, true
		}
	}
	return "", false
}

func decidedBy(l *LeaveRequest, actorID uuid.UUID) bool {
	for _, st := range []approval.Step{approval.StepTeamLead, approval.StepHR, approval.StepManagement} {
		if d := l.Decision(st); d.Decided() && *d.ApproverID == actorID {
			return true
		}
	}
	return false
}

// countDays counts calendar days, both ends included.
func countDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func decisionResponse(d Decision) *StepDecisionResponse {
	if !d.Decided() {
		return nil
	}
	resp := &StepDecisionResponse{ApproverID: d.ApproverID.String(), Comments: d.Comments}
	if d.DecidedAt != nil {
		resp.DecidedAt = d.DecidedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		ReferenceNo:   l.ReferenceNo,
		RequesterID:   l.RequesterID.String(),
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format(dateLayout),
		EndDate:       l.EndDate.Format(dateLayout),
		DaysRequested: l.DaysRequested,
		Reason:        l.Reason,
		Status:        l.Status,
		TeamLead:      decisionResponse(l.Decision(approval.StepTeamLead)),
		HR:            decisionResponse(l.Decision(approval.StepHR)),
		Management:    decisionResponse(l.Decision(approval.StepManagement)),
		RejectedStep:  l.RejectedStep,
		Version:       l.Version,
		CreatedAt:     l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if l.TeamLeadID != nil {
		v := l.TeamLeadID.String()
		resp.TeamLeadID = &v
	}
	if l.CancelledAt != nil {
		v := l.CancelledAt.UTC().Format(time.RFC3339)
		resp.CancelledAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
