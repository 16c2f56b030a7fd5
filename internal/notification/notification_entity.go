package notification

import "time"

type Notification struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	ReferenceNo    string    `json:"reference_no"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}
