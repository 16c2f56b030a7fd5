package balance

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindBalance(ctx context.Context, userID, leaveType string, year int) (*LeaveBalance, error)
	ListBalances(ctx context.Context, userID string, year int) ([]LeaveBalance, error)
	ListBalancesByYear(ctx context.Context, year int) ([]LeaveBalance, error)
	SumByLeaveType(ctx context.Context, year int) ([]LeaveTypeTotals, error)
	EnsureBalance(ctx context.Context, b *LeaveBalance) error
	LockBalance(ctx context.Context, userID, leaveType string, year int) (*LeaveBalance, error)
	SaveBalance(ctx context.Context, b *LeaveBalance) error
	CreateReservation(ctx context.Context, r *Reservation) error
	LockReservation(ctx context.Context, id string) (*Reservation, error)
	UpdateReservationStatus(ctx context.Context, id, status string) error
}

// LeaveTypeTotals aggregates one leave type's stored rows for a year.
type LeaveTypeTotals struct {
	LeaveType      string
	Users          int
	TotalAllocated int
	UsedDays       int
	CarryOverDays  int
	RemainingDays  int
	ReservedDays   int
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Conn(ctx, r.db, r.tx)
}

func (r *repository) FindBalance(ctx context.Context, userID, leaveType string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Where("user_id = ? AND leave_type = ? AND year = ?", userID, leaveType, year).
		Take(&b).Error
	return &b, err
}

func (r *repository) ListBalances(ctx context.Context, userID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.conn(ctx).
		Where("user_id = ? AND year = ?", userID, year).
		Find(&balances).Error
	return balances, err
}

func (r *repository) ListBalancesByYear(ctx context.Context, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.conn(ctx).
		Where("year = ?", year).
		Order("user_id, leave_type").
		Find(&balances).Error
	return balances, err
}

func (r *repository) SumByLeaveType(ctx context.Context, year int) ([]LeaveTypeTotals, error) {
	var totals []LeaveTypeTotals
	err := r.conn(ctx).
		Model(&LeaveBalance{}).
		Select(`leave_type,
			COUNT(*) AS users,
			SUM(total_allocated) AS total_allocated,
			SUM(used_days) AS used_days,
			SUM(carry_over_days) AS carry_over_days,
			SUM(remaining_days) AS remaining_days,
			SUM(reserved_days) AS reserved_days`).
		Where("year = ?", year).
		Group("leave_type").
		Scan(&totals).Error
	return totals, err
}

// EnsureBalance inserts b unless a row for its key already exists.
func (r *repository) EnsureBalance(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(b).Error
}

func (r *repository) LockBalance(ctx context.Context, userID, leaveType string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND leave_type = ? AND year = ?", userID, leaveType, year).
		Take(&b).Error
	return &b, err
}

func (r *repository) SaveBalance(ctx context.Context, b *LeaveBalance) error {
	b.UpdatedAt = time.Now().UTC()
	return r.conn(ctx).
		Model(&LeaveBalance{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"total_allocated": b.TotalAllocated,
			"used_days":       b.UsedDays,
			"carry_over_days": b.CarryOverDays,
			"remaining_days":  b.RemainingDays,
			"reserved_days":   b.ReservedDays,
			"updated_at":      b.UpdatedAt,
		}).Error
}

func (r *repository) CreateReservation(ctx context.Context, res *Reservation) error {
	return r.conn(ctx).Create(res).Error
}

func (r *repository) LockReservation(ctx context.Context, id string) (*Reservation, error) {
	var res Reservation
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&res).Error
	return &res, err
}

func (r *repository) UpdateReservationStatus(ctx context.Context, id, status string) error {
	return r.conn(ctx).
		Model(&Reservation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}
