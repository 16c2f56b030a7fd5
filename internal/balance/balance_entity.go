package balance

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReservationHeld      = "HELD"
	ReservationCommitted = "COMMITTED"
	ReservationReleased  = "RELEASED"
)

// LeaveBalance is one user's allowance for one leave type in one year.
// RemainingDays is stored for querying but always derived by recompute.
type LeaveBalance struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_key,priority:1"`
	LeaveType      string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_leave_balance_key,priority:2"`
	Year           int       `gorm:"not null;uniqueIndex:uq_leave_balance_key,priority:3"`
	TotalAllocated int       `gorm:"not null;default:0"`
	UsedDays       int       `gorm:"not null;default:0"`
	CarryOverDays  int       `gorm:"not null;default:0"`
	RemainingDays  int       `gorm:"not null;default:0"`
	ReservedDays   int       `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b *LeaveBalance) recompute() {
	b.RemainingDays = b.TotalAllocated + b.CarryOverDays - b.UsedDays
}

// AvailableDays is what a new reservation may still take.
func (b *LeaveBalance) AvailableDays() int {
	return b.RemainingDays - b.ReservedDays
}

func (b *LeaveBalance) valid() bool {
	return b.TotalAllocated >= 0 &&
		b.UsedDays >= 0 &&
		b.CarryOverDays >= 0 &&
		b.ReservedDays >= 0 &&
		b.RemainingDays >= 0 &&
		b.ReservedDays <= b.RemainingDays
}

// Reservation is a hold on a balance, made at submission and settled by
// Commit or Release.
type Reservation struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_reservations_key"`
	LeaveType string     `gorm:"type:varchar(20);not null;index:idx_leave_reservations_key"`
	Year      int        `gorm:"not null;index:idx_leave_reservations_key"`
	Days      int        `gorm:"not null"`
	Status    string     `gorm:"type:varchar(20);not null;default:'HELD'"`
	RequestID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Reservation) TableName() string {
	return "leave_reservations"
}
