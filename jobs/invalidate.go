package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

type cacheBumper interface {
	Bump(ctx context.Context) error
}

type warmupEnqueuer interface {
	EnqueueDashboardWarmup(ctx context.Context, asOf time.Time, debounce time.Duration) (*asynq.TaskInfo, error)
}

// WarmingInvalidator drops the dashboard cache and queues a debounced warmup so
// the next dashboard read is served from Redis.
type WarmingInvalidator struct {
	cache    cacheBumper
	queue    warmupEnqueuer
	debounce time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewWarmingInvalidator builds the invalidator. A nil client only bumps the cache.
func NewWarmingInvalidator(cache cacheBumper, client *Client, debounce time.Duration, logger *slog.Logger) *WarmingInvalidator {
	inv := &WarmingInvalidator{cache: cache, debounce: debounce, logger: logger, now: time.Now}
	if client != nil {
		inv.queue = client
	}
	if inv.logger == nil {
		inv.logger = slog.Default()
	}
	return inv
}

// Bump invalidates the cache. Enqueue failures are logged, not returned; the
// nightly cron covers a missed warmup.
func (w *WarmingInvalidator) Bump(ctx context.Context) error {
	if err := w.cache.Bump(ctx); err != nil {
		return err
	}
	if w.queue == nil {
		return nil
	}
	if _, err := w.queue.EnqueueDashboardWarmup(ctx, w.now().UTC(), w.debounce); err != nil {
		w.logger.Warn("enqueue dashboard warmup", slog.Any("error", err))
	}
	return nil
}
