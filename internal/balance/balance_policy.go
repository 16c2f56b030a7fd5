package balance

import "go-leave/internal/domain"

// Policy is the yearly rule for one leave type. MinNoticeDays counts whole
// days between today and the first day of leave; a zero
// MaxConsecutiveDays means no cap.
type Policy struct {
	DefaultGrant       int
	CarryOverCap       int
	MinNoticeDays      int
	MaxConsecutiveDays int
}

type Policies map[string]Policy

var DefaultPolicies = Policies{
	domain.LeaveTypeAnnual:    {DefaultGrant: 20, CarryOverCap: 5, MinNoticeDays: 7, MaxConsecutiveDays: 15},
	domain.LeaveTypeSick:      {DefaultGrant: 10, MaxConsecutiveDays: 5},
	domain.LeaveTypePersonal:  {DefaultGrant: 5, MinNoticeDays: 3, MaxConsecutiveDays: 3},
	domain.LeaveTypeEmergency: {DefaultGrant: 3, MaxConsecutiveDays: 3},
	domain.LeaveTypeMaternity: {DefaultGrant: 90, MinNoticeDays: 30, MaxConsecutiveDays: 90},
	domain.LeaveTypePaternity: {DefaultGrant: 15, MinNoticeDays: 14, MaxConsecutiveDays: 15},
	domain.LeaveTypeUnpaid:    {DefaultGrant: 30, MinNoticeDays: 14, MaxConsecutiveDays: 30},
}

func (p Policies) For(leaveType string) Policy {
	return p[leaveType]
}
