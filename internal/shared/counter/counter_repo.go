package counter

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/shared/connection"

	"gorm.io/gorm"
)

// SequenceCounter backs per-scope running numbers such as leave reference
// numbers. One row per (scope, counter_type).
type SequenceCounter struct {
	Scope       string    `gorm:"type:varchar(64);primaryKey"`
	CounterType string    `gorm:"type:varchar(64);primaryKey"`
	LastValue   int64     `gorm:"not null;default:0"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (SequenceCounter) TableName() string {
	return "sequence_counters"
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, scope string, counterType string) (int64, error)
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

func (r *repository) GetNextValue(ctx context.Context, scope string, counterType string) (int64, error) {
	var nextValue int64

	// atomic upsert-and-increment per scope/type
	err := connection.Conn(ctx, r.db, r.tx).Raw(`
		INSERT INTO sequence_counters (scope, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (scope, counter_type) DO UPDATE
		SET last_value = sequence_counters.last_value + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING last_value
	`, scope, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
