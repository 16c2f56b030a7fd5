package rbac

import "go-leave/internal/domain"

const (
	ResourceLeave        = "leave"
	ResourceLeaveStep    = "leave_step"
	ResourceLeaveBalance = "leave_balance"

	ActionReadAll   = "read_all"
	ActionCancelAny = "cancel_any"
	ActionSummary   = "summary"
	ActionManage    = "manage"
)

// DefaultPolicies maps organisational roles to what they may do. Team-lead
// approval is relationship based and therefore has no role policy here.
var DefaultPolicies = [][]string{
	{domain.RoleAdmin, ResourceLeaveStep, "*"},
	{domain.RoleAdmin, ResourceLeave, "*"},
	{domain.RoleAdmin, ResourceLeaveBalance, "*"},

	{domain.RoleHR, ResourceLeaveStep, "HR"},
	{domain.RoleHR, ResourceLeave, ActionReadAll},
	{domain.RoleHR, ResourceLeave, ActionSummary},

	{domain.RoleManagement, ResourceLeaveStep, "MANAGEMENT"},
	{domain.RoleManagement, ResourceLeave, ActionReadAll},
}

// catalog is every (resource, action) pair the service checks.
var catalog = []PermissionResponse{
	{Resource: ResourceLeaveStep, Action: "TEAM_LEAD"},
	{Resource: ResourceLeaveStep, Action: "HR"},
	{Resource: ResourceLeaveStep, Action: "MANAGEMENT"},
	{Resource: ResourceLeave, Action: ActionReadAll},
	{Resource: ResourceLeave, Action: ActionCancelAny},
	{Resource: ResourceLeave, Action: ActionSummary},
	{Resource: ResourceLeaveBalance, Action: ActionManage},
}
