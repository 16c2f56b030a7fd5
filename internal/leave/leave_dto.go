package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=1000"`
}

// UpdateLeaveRequest merges non-empty fields into a pending request.
type UpdateLeaveRequest struct {
	LeaveType *string `json:"leave_type"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Reason    *string `json:"reason" binding:"omitempty,max=1000"`
}

type DecisionRequest struct {
	Comments string `json:"comments" binding:"max=1000"`
}

const (
	ScopeMine = "mine"
	ScopeAll  = "all"
)

type ListFilter struct {
	Year  int
	Scope string
}

const (
	ApprovalTypeTeamLead   = "team-lead"
	ApprovalTypeHR         = "hr"
	ApprovalTypeManagement = "management"
)

type StepDecisionResponse struct {
	ApproverID string  `json:"approver_id"`
	DecidedAt  string  `json:"decided_at"`
	Comments   *string `json:"comments,omitempty"`
}

type LeaveResponse struct {
	ID            string                `json:"id"`
	ReferenceNo   string                `json:"reference_no"`
	RequesterID   string                `json:"requester_id"`
	TeamLeadID    *string               `json:"team_lead_id,omitempty"`
	LeaveType     string                `json:"leave_type"`
	StartDate     string                `json:"start_date"`
	EndDate       string                `json:"end_date"`
	DaysRequested int                   `json:"days_requested"`
	Reason        string                `json:"reason"`
	Status        string                `json:"status"`
	TeamLead      *StepDecisionResponse `json:"team_lead_decision,omitempty"`
	HR            *StepDecisionResponse `json:"hr_decision,omitempty"`
	Management    *StepDecisionResponse `json:"management_decision,omitempty"`
	RejectedStep  *string               `json:"rejected_step,omitempty"`
	CancelledAt   *string               `json:"cancelled_at,omitempty"`
	Version       int                   `json:"version"`
	CreatedAt     string                `json:"created_at"`
	UpdatedAt     string                `json:"updated_at"`
}

type WorkflowStep struct {
	Step       string  `json:"step"`
	Status     string  `json:"status"` // WAITING, PENDING, APPROVED, REJECTED, SKIPPED
	ApproverID *string `json:"approver_id,omitempty"`
	DecidedAt  *string `json:"decided_at,omitempty"`
	Comments   *string `json:"comments,omitempty"`
}

type WorkflowStatusResponse struct {
	CurrentStatus      string         `json:"current_status"`
	NextApprover       *string        `json:"next_approver"`
	IsFinal            bool           `json:"is_final"`
	RequiresManagement bool           `json:"requires_management"`
	Steps              []WorkflowStep `json:"steps"`
}

type TimelineEntry struct {
	Event    string  `json:"event"`
	Step     string  `json:"step,omitempty"`
	ActorID  string  `json:"actor_id"`
	At       string  `json:"at"`
	Comments *string `json:"comments,omitempty"`
}

type SummaryResponse struct {
	Year         int            `json:"year"`
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	ByType       map[string]int `json:"by_type"`
	ByMonth      map[string]int `json:"by_month"`
	DaysApproved int            `json:"days_approved"`
}

type StatsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// CalendarEntry is one day of one request.
type CalendarEntry struct {
	Date           string `json:"date"`
	LeaveRequestID string `json:"leave_request_id"`
	ReferenceNo    string `json:"reference_no"`
	LeaveType      string `json:"leave_type"`
	Status         string `json:"status"`
}
