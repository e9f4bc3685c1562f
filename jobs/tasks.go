package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup recomputes the dashboard summary into the cache.
	TaskDashboardWarmup = "dashboard:warmup"
	// DashboardWarmupCron runs the nightly warmup at 01:15 UTC.
	DashboardWarmupCron = "15 1 * * *"
)

// DashboardWarmupPayload selects the day the summary is computed for. An empty
// AsOf means today.
type DashboardWarmupPayload struct {
	AsOf string `json:"asOf,omitempty"`
}

// NewDashboardWarmupTask constructs the warmup task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	opts = append([]asynq.Option{asynq.Queue(QueueDefault), asynq.MaxRetry(3), asynq.Timeout(2 * time.Minute)}, opts...)
	return asynq.NewTask(TaskDashboardWarmup, data, opts...), nil
}
