package leave

import (
	"time"

	"go-leave/internal/approval"

	"github.com/google/uuid"
)

const (
	StatusPending            = "PENDING"
	StatusTeamLeadApproved   = "TEAM_LEAD_APPROVED"
	StatusHRApproved         = "HR_APPROVED"
	StatusManagementApproved = "MANAGEMENT_APPROVED"
	StatusApproved           = "APPROVED"
	StatusRejected           = "REJECTED"
	StatusCancelled          = "CANCELLED"
)

var Statuses = []string{
	StatusPending,
	StatusTeamLeadApproved,
	StatusHRApproved,
	StatusManagementApproved,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
}

// LeaveRequest is never hard deleted. The per-step audit columns are set
// exactly when that step has been decided.
type LeaveRequest struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ReferenceNo   string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	RequesterID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_requests_requester_dates,priority:1"`
	TeamLeadID    *uuid.UUID `gorm:"type:uuid;index"`
	LeaveType     string     `gorm:"type:varchar(20);not null"`
	StartDate     time.Time  `gorm:"type:date;not null;index:idx_leave_requests_requester_dates,priority:2"`
	EndDate       time.Time  `gorm:"type:date;not null;index:idx_leave_requests_requester_dates,priority:3"`
	DaysRequested int        `gorm:"not null"`
	Year          int        `gorm:"not null;index"`
	Reason        string     `gorm:"type:text"`
	Status        string     `gorm:"type:varchar(24);not null;default:'PENDING';index"`
	ReservationID *uuid.UUID `gorm:"type:uuid"`

	TeamLeadApproverID *uuid.UUID `gorm:"type:uuid"`
	TeamLeadDecidedAt  *time.Time
	TeamLeadComments   *string `gorm:"type:text"`

	HRApproverID *uuid.UUID `gorm:"column:hr_approver_id;type:uuid"`
	HRDecidedAt  *time.Time `gorm:"column:hr_decided_at"`
	HRComments   *string    `gorm:"column:hr_comments;type:text"`

	ManagementApproverID *uuid.UUID `gorm:"type:uuid"`
	ManagementDecidedAt  *time.Time
	ManagementComments   *string `gorm:"type:text"`

	RejectedStep *string `gorm:"type:varchar(20)"`
	CancelledAt  *time.Time
	CancelledBy  *uuid.UUID `gorm:"type:uuid"`
	Version      int        `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// Decision is one step's audit record.
type Decision struct {
	ApproverID *uuid.UUID
	DecidedAt  *time.Time
	Comments   *string
}

func (d Decision) Decided() bool {
	return d.ApproverID != nil
}

func (l *LeaveRequest) Decision(step approval.Step) Decision {
	switch step {
	case approval.StepTeamLead:
		return Decision{l.TeamLeadApproverID, l.TeamLeadDecidedAt, l.TeamLeadComments}
	case approval.StepHR:
		return Decision{l.HRApproverID, l.HRDecidedAt, l.HRComments}
	case approval.StepManagement:
		return Decision{l.ManagementApproverID, l.ManagementDecidedAt, l.ManagementComments}
	}
	return Decision{}
}

func (l *LeaveRequest) recordDecision(step approval.Step, approverID uuid.UUID, at time.Time, comments string) {
	var c *string
	if comments != "" {
		c = &comments
	}
	switch step {
	case approval.StepTeamLead:
		l.TeamLeadApproverID, l.TeamLeadDecidedAt, l.TeamLeadComments = &approverID, &at, c
	case approval.StepHR:
		l.HRApproverID, l.HRDecidedAt, l.HRComments = &approverID, &at, c
	case approval.StepManagement:
		l.ManagementApproverID, l.ManagementDecidedAt, l.ManagementComments = &approverID, &at, c
	}
}

func (l *LeaveRequest) snapshot() approval.Snapshot {
	return approval.Snapshot{HasTeamLead: l.TeamLeadID != nil, DaysRequested: l.DaysRequested}
}

func (l *LeaveRequest) subject() approval.Subject {
	s := approval.Subject{RequesterID: l.RequesterID.String()}
	if l.TeamLeadID != nil {
		lead := l.TeamLeadID.String()
		s.TeamLeadID = &lead
	}
	return s
}

func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// stepStatus is the resting status after step is approved and more steps
// remain.
func stepStatus(step approval.Step) string {
	switch step {
	case approval.StepTeamLead:
		return StatusTeamLeadApproved
	case approval.StepHR:
		return StatusHRApproved
	default:
		return StatusManagementApproved
	}
}
