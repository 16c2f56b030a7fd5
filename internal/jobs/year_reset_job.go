package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go-leave/internal/balance"
	"go-leave/internal/shared/apperror"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type Resetter interface {
	ResetForNewYear(ctx context.Context, actorID, userID string, year int) ([]balance.BalanceResponse, error)
}

type YearResetJob struct {
	ledger Resetter
	logger *zap.Logger
}

func NewYearResetJob(ledger Resetter, logger ...*zap.Logger) *YearResetJob {
	l := zap.L().Named("jobs.year_reset")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("jobs.year_reset")
	}
	return &YearResetJob{ledger: ledger, logger: l}
}

// Handle retries only infrastructure failures. Bad payloads and
// rejected input are dropped.
func (j *YearResetJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload YearResetPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.logger.Error("decode year reset payload failed", zap.Error(err))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	if _, err := j.ledger.ResetForNewYear(ctx, payload.ActorID, payload.UserID, payload.Year); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError {
			j.logger.Warn("year reset rejected",
				zap.String("user_id", payload.UserID),
				zap.Int("year", payload.Year),
				zap.String("code", appErr.Code),
			)
			return fmt.Errorf("reset %s: %v: %w", payload.UserID, err, asynq.SkipRetry)
		}
		j.logger.Error("year reset failed",
			zap.String("user_id", payload.UserID),
			zap.Int("year", payload.Year),
			zap.Error(err),
		)
		return err
	}

	j.logger.Info("year reset done", zap.String("user_id", payload.UserID), zap.Int("year", payload.Year))
	return nil
}
