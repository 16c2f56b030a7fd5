package kafka

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-leave/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

const (
	maxErrorLength = 500
	retryStep      = 15 * time.Second
	maxRetrySteps  = 10
)

// OutboxEventRecord is a leave lifecycle event waiting to be relayed.
type OutboxEventRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID     string    `gorm:"type:varchar(64)"`
	AggregateType string    `gorm:"type:varchar(64);not null"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EventType     string    `gorm:"type:varchar(64);not null"`
	Topic         string    `gorm:"type:varchar(128);not null"`
	Payload       []byte    `gorm:"not null"`
	Status        string    `gorm:"type:varchar(16);not null;default:'pending';index:idx_outbox_events_status_created,priority:1"`
	Attempts      int       `gorm:"not null;default:0"`
	LastError     *string   `gorm:"type:varchar(500)"`
	NextAttemptAt *time.Time
	SentAt        *time.Time
	CreatedAt     time.Time `gorm:"not null;index:idx_outbox_events_status_created,priority:2"`
	UpdatedAt     time.Time
}

func (OutboxEventRecord) TableName() string {
	return "outbox_events"
}

// OutboxEvent is what the relay publishes. Attempts counts earlier failed
// publishes.
type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Attempts      int
}

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Enqueue(ctx context.Context, event OutboxEvent) error
	ListDue(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, event OutboxEvent, reason string) error
}

type outboxRepository struct {
	db  *gorm.DB
	tx  *sql.Tx
	now func() time.Time
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db, now: time.Now}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx, now: r.now}
}

func (r *outboxRepository) conn(ctx context.Context) *gorm.DB {
	return connection.Conn(ctx, r.db, r.tx)
}

// Enqueue stores event as pending. Inside WithTx it commits or rolls back
// with the state change it describes.
func (r *outboxRepository) Enqueue(ctx context.Context, event OutboxEvent) error {
	rec, err := toRecord(event)
	if err != nil {
		return err
	}
	return r.conn(ctx).Create(&rec).Error
}

// ListDue returns pending events and failed ones whose backoff has passed,
// oldest first.
func (r *outboxRepository) ListDue(ctx context.Context, limit int) ([]OutboxEvent, error) {
	var recs []OutboxEventRecord
	err := r.conn(ctx).
		Where("status IN ?", []string{OutboxStatusPending, OutboxStatusFailed}).
		Where("next_attempt_at IS NULL OR next_attempt_at <= ?", r.now().UTC()).
		Order("created_at ASC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	events := make([]OutboxEvent, 0, len(recs))
	for _, rec := range recs {
		events = append(events, OutboxEvent{
			ID:            rec.ID.String(),
			RequestID:     rec.RequestID,
			AggregateType: rec.AggregateType,
			AggregateID:   rec.AggregateID.String(),
			EventType:     rec.EventType,
			Topic:         rec.Topic,
			Payload:       rec.Payload,
			Attempts:      rec.Attempts,
		})
	}
	return events, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	now := r.now().UTC()
	return r.conn(ctx).
		Model(&OutboxEventRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     OutboxStatusSent,
			"sent_at":    now,
			"last_error": nil,
			"updated_at": now,
		}).Error
}

// MarkFailed records a failed publish and pushes the next attempt back
// linearly, capped at maxRetrySteps steps.
func (r *outboxRepository) MarkFailed(ctx context.Context, event OutboxEvent, reason string) error {
	attempts := event.Attempts + 1
	if len(reason) > maxErrorLength {
		reason = reason[:maxErrorLength]
	}
	now := r.now().UTC()
	next := now.Add(time.Duration(min(attempts, maxRetrySteps)) * retryStep)

	return r.conn(ctx).
		Model(&OutboxEventRecord{}).
		Where("id = ?", event.ID).
		Updates(map[string]any{
			"status":          OutboxStatusFailed,
			"attempts":        attempts,
			"last_error":      reason,
			"next_attempt_at": next,
			"updated_at":      now,
		}).Error
}

func toRecord(event OutboxEvent) (OutboxEventRecord, error) {
	if event.Topic == "" {
		return OutboxEventRecord{}, errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return OutboxEventRecord{}, errors.New("outbox payload is required")
	}
	id, err := uuid.Parse(event.ID)
	if err != nil {
		return OutboxEventRecord{}, errors.New("outbox id must be a uuid")
	}
	aggregateID, err := uuid.Parse(event.AggregateID)
	if err != nil {
		return OutboxEventRecord{}, errors.New("outbox aggregate id must be a uuid")
	}
	return OutboxEventRecord{
		ID:            id,
		RequestID:     event.RequestID,
		AggregateType: event.AggregateType,
		AggregateID:   aggregateID,
		EventType:     event.EventType,
		Topic:         event.Topic,
		Payload:       event.Payload,
		Status:        OutboxStatusPending,
	}, nil
}
