package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/wellvision/wellvision/internal/analytics"
	jobmetrics "github.com/wellvision/wellvision/internal/jobs"
)

const (
	warmupLockKey     = "lock:dashboard:warmup"
	defaultWarmupLock = 2 * time.Minute
)

// SummaryWarmer computes and caches dashboard views.
type SummaryWarmer interface {
	Summary(ctx context.Context, asOf time.Time) (analytics.Summary, error)
	Monthly(ctx context.Context, year int) ([]analytics.MonthlyBucket, error)
}

// DashboardWarmupJob pre-populates dashboard caches. Only one worker warms at a
// time; a run that finds the lock held exits successfully without work.
type DashboardWarmupJob struct {
	Analytics SummaryWarmer
	Locker    *redislock.Client
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	LockTTL   time.Duration
	clock     func() time.Time
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(warmer SummaryWarmer, locker *redislock.Client, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Analytics: warmer,
		Locker:    locker,
		Logger:    logger,
		Metrics:   metrics,
		LockTTL:   defaultWarmupLock,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Analytics == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("dashboard warmup: decode payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	asOf := j.now()
	if payload.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", payload.AsOf)
		if err != nil {
			return fmt.Errorf("dashboard warmup: bad asOf %q: %w", payload.AsOf, asynq.SkipRetry)
		}
		asOf = parsed
	}

	tracker := j.Metrics.Track(TaskDashboardWarmup)
	logger := j.logger().With(slog.String("run_id", uuid.NewString()), slog.String("as_of", asOf.Format("2006-01-02")))

	if j.Locker != nil {
		lock, err := j.Locker.Obtain(ctx, warmupLockKey, j.lockTTL(), nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			logger.Info("dashboard warmup already running elsewhere")
			tracker.Skip("locked")
			return nil
		}
		if err != nil {
			return tracker.End(fmt.Errorf("dashboard warmup: obtain lock: %w", err))
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				logger.Warn("release warmup lock", slog.Any("error", err))
			}
		}()
	}
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	start := time.Now()
	logger.Info("starting dashboard warmup")

	if _, err := j.Analytics.Summary(ctx, asOf); err != nil {
		logger.Error("warm summary", slog.Any("error", err))
		return err
	}
	j.Metrics.AddWarmed("summary", 1)

	// January runs also refresh the closing year's monthly view.
	years := []int{asOf.Year()}
	if asOf.Month() == time.January {
		years = append(years, asOf.Year()-1)
	}
	for _, year := range years {
		if _, err := j.Analytics.Monthly(ctx, year); err != nil {
			logger.Error("warm monthly", slog.Int("year", year), slog.Any("error", err))
			return err
		}
		j.Metrics.AddWarmed("monthly", 1)
	}

	logger.Info("completed dashboard warmup", slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *DashboardWarmupJob) lockTTL() time.Duration {
	if j.LockTTL > 0 {
		return j.LockTTL
	}
	return defaultWarmupLock
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}

func (j *DashboardWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
