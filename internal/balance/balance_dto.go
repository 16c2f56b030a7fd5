package balance

type BalanceResponse struct {
	UserID         string `json:"user_id"`
	LeaveType      string `json:"leave_type"`
	Year           int    `json:"year"`
	TotalAllocated int    `json:"total_allocated"`
	UsedDays       int    `json:"used_days"`
	CarryOverDays  int    `json:"carry_over_days"`
	RemainingDays  int    `json:"remaining_days"`
	ReservedDays   int    `json:"reserved_days"`
	AvailableDays  int    `json:"available_days"`
}

type SetAllocationRequest struct {
	LeaveType      string `json:"leave_type" binding:"required,oneof=ANNUAL SICK PERSONAL EMERGENCY MATERNITY PATERNITY UNPAID"`
	Year           int    `json:"year" binding:"omitempty,min=1970,max=9999"`
	TotalAllocated int    `json:"total_allocated" binding:"min=0"`
	CarryOverDays  int    `json:"carry_over_days" binding:"min=0"`
}

type AllocationItem struct {
	LeaveType      string `json:"leave_type" binding:"required,oneof=ANNUAL SICK PERSONAL EMERGENCY MATERNITY PATERNITY UNPAID"`
	TotalAllocated int    `json:"total_allocated" binding:"min=0"`
	CarryOverDays  int    `json:"carry_over_days" binding:"min=0"`
}

// BulkSetAllocationRequest overwrites several leave types of one user at
// once; either every item applies or none does.
type BulkSetAllocationRequest struct {
	Year     int              `json:"year" binding:"omitempty,min=1970,max=9999"`
	Balances []AllocationItem `json:"leave_balances" binding:"required,min=1,dive"`
}

type ReserveRequest struct {
	UserID    string
	LeaveType string
	Year      int
	Days      int
	RequestID string
}

type BulkResetResponse struct {
	Year      int `json:"year"`
	Scheduled int `json:"scheduled"`
}

type UserBalancesResponse struct {
	UserID   string            `json:"user_id"`
	Year     int               `json:"year"`
	Balances []BalanceResponse `json:"balances"`
}

type UtilizationResponse struct {
	LeaveType       string  `json:"leave_type"`
	Users           int     `json:"users"`
	TotalAllocated  int     `json:"total_allocated"`
	TotalUsed       int     `json:"total_used"`
	TotalCarryOver  int     `json:"total_carry_over"`
	TotalRemaining  int     `json:"total_remaining"`
	TotalReserved   int     `json:"total_reserved"`
	UtilizationRate float64 `json:"utilization_rate"`
}
