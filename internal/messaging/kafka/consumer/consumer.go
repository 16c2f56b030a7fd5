package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type LifecycleHandler interface {
	HandleLifecycleEvent(ctx context.Context, eventID string, event events.LeaveLifecycleEvent) (int, error)
}

// ConsumeLeaveLifecycle blocks until ctx is cancelled. Undecodable
// messages are committed and skipped. Handler failures are not committed.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	handler LifecycleHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave lifecycle event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		eventID := messageID(msg)
		stored, err := handler.HandleLifecycleEvent(ctx, eventID, event)
		if err != nil {
			log.Error("handle leave lifecycle event failed",
				zap.String("event_id", eventID),
				zap.String("event_type", event.EventType),
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave lifecycle event consumed",
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType),
			zap.Int("notifications", stored),
		)
	}
}

// messageID prefers the outbox id header so redeliveries dedupe.
func messageID(msg kafkago.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "outbox_id" && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return fmt.Sprintf("%s-%d-%d", msg.Topic, msg.Partition, msg.Offset)
}
