package leave

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	UpdateVersioned(ctx context.Context, l *LeaveRequest, expectedVersion int) (bool, error)
	List(ctx context.Context, requesterID string, year int) ([]LeaveRequest, error)
	FindAwaitingStep(ctx context.Context, step approval.Step, actorID string) ([]LeaveRequest, error)
	HasOverlappingPeriod(ctx context.Context, requesterID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	LockRequester(ctx context.Context, requesterID string) error
	CountByStatus(ctx context.Context, requesterID string) (map[string]int, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).Take(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&l, "id = ?", id).Error
	return &l, err
}

// UpdateVersioned writes every mutable column of l when the stored version
// still equals expectedVersion. It reports whether a row was written.
func (r *repository) UpdateVersioned(ctx context.Context, l *LeaveRequest, expectedVersion int) (bool, error) {
	l.UpdatedAt = time.Now().UTC()
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND version = ?", l.ID, expectedVersion).
		Updates(map[string]any{
			"leave_type":             l.LeaveType,
			"start_date":             l.StartDate,
			"end_date":               l.EndDate,
			"days_requested":         l.DaysRequested,
			"year":                   l.Year,
			"reason":                 l.Reason,
			"status":                 l.Status,
			"reservation_id":         l.ReservationID,
			"team_lead_approver_id":  l.TeamLeadApproverID,
			"team_lead_decided_at":   l.TeamLeadDecidedAt,
			"team_lead_comments":     l.TeamLeadComments,
			"hr_approver_id":         l.HRApproverID,
			"hr_decided_at":          l.HRDecidedAt,
			"hr_comments":            l.HRComments,
			"management_approver_id": l.ManagementApproverID,
			"management_decided_at":  l.ManagementDecidedAt,
			"management_comments":    l.ManagementComments,
			"rejected_step":          l.RejectedStep,
			"cancelled_at":           l.CancelledAt,
			"cancelled_by":           l.CancelledBy,
			"version":                l.Version,
			"updated_at":             l.UpdatedAt,
		})
	return res.RowsAffected == 1, res.Error
}

// List returns requests starting in year, newest first. An empty
// requesterID lists every requester.
func (r *repository) List(ctx context.Context, requesterID string, year int) ([]LeaveRequest, error) {
	db := r.conn(ctx).Where("year = ?", year)
	if requesterID != "" {
		db = db.Where("requester_id = ?", requesterID)
	}

	var leaves []LeaveRequest
	err := db.Order("start_date DESC, created_at DESC").Find(&leaves).Error
	return leaves, err
}

// FindAwaitingStep returns requests whose next undecided step is step.
func (r *repository) FindAwaitingStep(ctx context.Context, step approval.Step, actorID string) ([]LeaveRequest, error) {
	db := r.conn(ctx)
	switch step {
	case approval.StepTeamLead:
		db = db.Where("status = ? AND team_lead_id = ?", StatusPending, actorID)
	case approval.StepHR:
		db = db.Where("status = ? OR (status = ? AND team_lead_id IS NULL)", StatusTeamLeadApproved, StatusPending)
	case approval.StepManagement:
		db = db.Where("status = ?", StatusHRApproved)
	}

	var leaves []LeaveRequest
	err := db.Order("start_date ASC, created_at ASC").Find(&leaves).Error
	return leaves, err
}

// HasOverlappingPeriod ignores rejected and cancelled requests.
func (r *repository) HasOverlappingPeriod(ctx context.Context, requesterID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("requester_id = ?", requesterID).
		Where("status NOT IN ?", []string{StatusRejected, StatusCancelled}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// LockRequester takes the requester's users row FOR UPDATE so overlap
// checks for one requester run one at a time. A missing row locks nothing.
func (r *repository) LockRequester(ctx context.Context, requesterID string) error {
	var ids []string
	return r.conn(ctx).
		Table("users").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", requesterID).
		Pluck("id", &ids).Error
}

func (r *repository) CountByStatus(ctx context.Context, requesterID string) (map[string]int, error) {
	var rows []struct {
		Status string
		Count  int
	}
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Select("status, COUNT(*) AS count").
		Where("requester_id = ?", requesterID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
