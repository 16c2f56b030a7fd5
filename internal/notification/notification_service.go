package notification

import (
	"context"
	"fmt"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/observability"
	"go-leave/internal/shared/apperror"

	"go.uber.org/zap"
)

type Service interface {
	// HandleLifecycleEvent fans one lifecycle event out to the users it
	// concerns and returns how many new notifications were stored.
	HandleLifecycleEvent(ctx context.Context, eventID string, event events.LeaveLifecycleEvent) (int, error)
	List(ctx context.Context, userID string, limit int) ([]Notification, error)
}

type service struct {
	store   Store
	metrics *observability.Metrics
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*service)

func WithMetrics(m *observability.Metrics) Option {
	return func(s *service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("notification.service")
		}
	}
}

func NewService(store Store, opts ...Option) Service {
	s := &service{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: zap.L().Named("notification.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) HandleLifecycleEvent(ctx context.Context, eventID string, event events.LeaveLifecycleEvent) (int, error) {
	recipients := recipientsFor(event)
	if len(recipients) == 0 {
		s.logger.Debug("lifecycle event has no recipients",
			zap.String("event_type", event.EventType),
			zap.String("leave_request_id", event.LeaveRequestID),
		)
		return 0, nil
	}

	message := messageFor(event)
	stored := 0
	for _, userID := range recipients {
		n := Notification{
			ID:             eventID + ":" + userID,
			UserID:         userID,
			EventType:      event.EventType,
			LeaveRequestID: event.LeaveRequestID,
			ReferenceNo:    event.ReferenceNo,
			Message:        message,
			CreatedAt:      s.now(),
		}
		fresh, err := s.store.Push(ctx, n)
		if err != nil {
			s.logger.Error("push notification failed",
				zap.String("notification_id", n.ID),
				zap.Error(err),
			)
			return stored, apperror.Storage(err)
		}
		if !fresh {
			s.logger.Debug("notification already delivered", zap.String("notification_id", n.ID))
			continue
		}
		stored++
		s.metrics.NotificationSent()
	}

	s.logger.Info("lifecycle event notified",
		zap.String("event_type", event.EventType),
		zap.String("leave_request_id", event.LeaveRequestID),
		zap.Int("stored", stored),
	)
	return stored, nil
}

func (s *service) List(ctx context.Context, userID string, limit int) ([]Notification, error) {
	items, err := s.store.List(ctx, userID, limit)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperror.Storage(err)
	}
	return items, nil
}

// recipientsFor never notifies the actor about their own action.
func recipientsFor(event events.LeaveLifecycleEvent) []string {
	var candidates []string
	switch event.EventType {
	case events.LeaveSubmitted, events.LeaveUpdated:
		if event.TeamLeadID != nil {
			candidates = append(candidates, *event.TeamLeadID)
		}
	case events.LeaveStepApproved, events.LeaveApproved, events.LeaveRejected:
		candidates = append(candidates, event.RequesterID)
	case events.LeaveCancelled:
		candidates = append(candidates, event.RequesterID)
		if event.TeamLeadID != nil {
			candidates = append(candidates, *event.TeamLeadID)
		}
	}

	out := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if id == "" || id == event.ActorID {
			continue
		}
		out = append(out, id)
	}
	return out
}

func messageFor(event events.LeaveLifecycleEvent) string {
	period := fmt.Sprintf("%s to %s", event.StartDate, event.EndDate)
	switch event.EventType {
	case events.LeaveSubmitted:
		return fmt.Sprintf("Leave request %s (%s, %s) awaits your approval", event.ReferenceNo, event.LeaveType, period)
	case events.LeaveUpdated:
		return fmt.Sprintf("Leave request %s was changed to %s", event.ReferenceNo, period)
	case events.LeaveStepApproved:
		return fmt.Sprintf("Leave request %s was approved at the %s step", event.ReferenceNo, event.Step)
	case events.LeaveApproved:
		return fmt.Sprintf("Leave request %s is approved", event.ReferenceNo)
	case events.LeaveRejected:
		if event.Comments != "" {
			return fmt.Sprintf("Leave request %s was rejected: %s", event.ReferenceNo, event.Comments)
		}
		return fmt.Sprintf("Leave request %s was rejected", event.ReferenceNo)
	case events.LeaveCancelled:
		return fmt.Sprintf("Leave request %s (%s) was cancelled", event.ReferenceNo, period)
	default:
		return fmt.Sprintf("Leave request %s changed", event.ReferenceNo)
	}
}
