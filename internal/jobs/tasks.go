package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	QueueDefault = "default"

	// TaskYearReset rolls one user's balances into a new leave year.
	TaskYearReset = "leave:year_reset"
)

type YearResetPayload struct {
	UserID  string `json:"user_id"`
	ActorID string `json:"actor_id"`
	Year    int    `json:"year"`
}

// NewYearResetTask carries a stable task id so a second bulk reset for
// the same year does not queue duplicates while the first is retained.
func NewYearResetTask(payload YearResetPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskYearReset, data,
		asynq.Queue(QueueDefault),
		asynq.TaskID(yearResetTaskID(payload)),
		asynq.MaxRetry(5),
		asynq.Retention(24*time.Hour),
	), nil
}

func yearResetTaskID(p YearResetPayload) string {
	return fmt.Sprintf("year-reset:%d:%s", p.Year, p.UserID)
}
