package domain

const (
	LeaveTypeAnnual    = "ANNUAL"
	LeaveTypeSick      = "SICK"
	LeaveTypePersonal  = "PERSONAL"
	LeaveTypeEmergency = "EMERGENCY"
	LeaveTypeMaternity = "MATERNITY"
	LeaveTypePaternity = "PATERNITY"
	LeaveTypeUnpaid    = "UNPAID"
)

// LeaveTypes lists every leave type in display order.
var LeaveTypes = []string{
	LeaveTypeAnnual,
	LeaveTypeSick,
	LeaveTypePersonal,
	LeaveTypeEmergency,
	LeaveTypeMaternity,
	LeaveTypePaternity,
	LeaveTypeUnpaid,
}

func IsValidLeaveType(t string) bool {
	for _, lt := range LeaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}
