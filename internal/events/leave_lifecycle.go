package events

import "time"

const LeaveLifecycleTopic = "leave.request.lifecycle.v1"

const (
	LeaveSubmitted    = "leave_submitted"
	LeaveUpdated      = "leave_updated"
	LeaveStepApproved = "leave_step_approved"
	LeaveApproved     = "leave_approved"
	LeaveRejected     = "leave_rejected"
	LeaveCancelled    = "leave_cancelled"
)

// LeaveLifecycleEvent is published for every state change of a leave
// request. Step and Comments are set only for approval decisions.
type LeaveLifecycleEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	ReferenceNo    string    `json:"reference_no"`
	RequesterID    string    `json:"requester_id"`
	TeamLeadID     *string   `json:"team_lead_id,omitempty"`
	ActorID        string    `json:"actor_id"`
	LeaveType      string    `json:"leave_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	DaysRequested  int       `json:"days_requested"`
	Status         string    `json:"status"`
	Step           string    `json:"step,omitempty"`
	Comments       string    `json:"comments,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
