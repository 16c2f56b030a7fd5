package user

type MeResponse struct {
	ID         string   `json:"id"`
	FullName   string   `json:"full_name,omitempty"`
	Email      string   `json:"email"`
	TeamLeadID *string  `json:"team_lead_id,omitempty"`
	Roles      []string `json:"roles"`
}
