package jobs

import (
	"context"
	"errors"
	"net/http"

	"go-leave/internal/shared/apperror"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type UserLister interface {
	ListActiveIDs(ctx context.Context) ([]string, error)
}

type Scheduler struct {
	client Enqueuer
	users  UserLister
	logger *zap.Logger
}

func NewScheduler(client Enqueuer, users UserLister, logger ...*zap.Logger) *Scheduler {
	l := zap.L().Named("jobs.scheduler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("jobs.scheduler")
	}
	return &Scheduler{client: client, users: users, logger: l}
}

// ScheduleYearReset queues one reset task per active user. Users whose
// task is already queued are skipped and not counted.
func (s *Scheduler) ScheduleYearReset(ctx context.Context, actorID string, year int) (int, error) {
	s.logger.Debug("schedule year reset requested", zap.String("actor_id", actorID), zap.Int("year", year))

	ids, err := s.users.ListActiveIDs(ctx)
	if err != nil {
		s.logger.Error("list active users failed", zap.Error(err))
		return 0, apperror.Storage(err)
	}

	queued := 0
	for _, userID := range ids {
		task, err := NewYearResetTask(YearResetPayload{UserID: userID, ActorID: actorID, Year: year})
		if err != nil {
			return queued, apperror.Wrap(err, apperror.CodeInternalError, "failed to build year reset task", http.StatusInternalServerError)
		}

		if _, err := s.client.EnqueueContext(ctx, task); err != nil {
			if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
				continue
			}
			s.logger.Error("enqueue year reset failed",
				zap.String("user_id", userID),
				zap.Int("year", year),
				zap.Error(err),
			)
			return queued, apperror.Wrap(err, apperror.CodeServiceUnavailable, "job queue unavailable", http.StatusServiceUnavailable)
		}
		queued++
	}

	s.logger.Info("schedule year reset success",
		zap.Int("year", year),
		zap.Int("active_users", len(ids)),
		zap.Int("queued", queued),
	)
	return queued, nil
}
