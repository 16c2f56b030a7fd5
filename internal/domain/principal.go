package domain

const (
	RoleEmployee   = "EMPLOYEE"
	RoleTeamLead   = "TEAM_LEAD"
	RoleHR         = "HR"
	RoleManagement = "MANAGEMENT"
	RoleAdmin      = "ADMIN"
)

// Principal is the authenticated caller. Roles is a set; TeamLeadID is the
// caller's own assigned team lead, if any.
type Principal struct {
	UserID     string
	Roles      []string
	TeamLeadID *string
}
