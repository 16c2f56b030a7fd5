package producer

import (
	"context"
	"time"

	"go-leave/internal/messaging/kafka"
	"go-leave/internal/observability"

	"go.uber.org/zap"
)

const batchSize = 50

type Relay struct {
	repo         kafka.OutboxRepository
	writer       MessageWriter
	metrics      *observability.Metrics
	pollInterval time.Duration
	logger       *zap.Logger
}

func NewRelay(
	repo kafka.OutboxRepository,
	writer MessageWriter,
	metrics *observability.Metrics,
	pollInterval time.Duration,
	logger ...*zap.Logger,
) *Relay {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	l := zap.L().Named("kafka.producer.relay")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.producer.relay")
	}
	return &Relay{repo: repo, writer: writer, metrics: metrics, pollInterval: pollInterval, logger: l}
}

// Run polls the outbox until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started", zap.Duration("poll_interval", r.pollInterval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.ProcessPending(ctx); err != nil {
				r.logger.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

// ProcessPending publishes one batch and returns how many were sent. A
// failed publish is marked for retry and does not stop the batch.
func (r *Relay) ProcessPending(ctx context.Context) (int, error) {
	events, err := r.repo.ListDue(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	r.logger.Debug("processing pending outbox events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		err := publishEvent(ctx, r.writer, event)
		r.metrics.OutboxPublished(err)
		if err != nil {
			r.logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("request_id", event.RequestID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Int("attempts", event.Attempts),
				zap.Error(err),
			)
			if markErr := r.repo.MarkFailed(ctx, event, err.Error()); markErr != nil {
				r.logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		if err := r.repo.MarkSent(ctx, event.ID); err != nil {
			r.logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		sent++

		r.logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("aggregate_id", event.AggregateID),
		)
	}
	return sent, nil
}
