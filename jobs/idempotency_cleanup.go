package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/stitchline-erp/stitchline/internal/jobs"
	"github.com/stitchline-erp/stitchline/internal/shared"
)

// IdempotencyCleanupJob purges idempotency keys past their retention
// window so replayed document numbers stay bounded.
type IdempotencyCleanupJob struct {
	Store   *shared.IdempotencyStore
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewIdempotencyCleanupJob initialises the cleanup handler.
func NewIdempotencyCleanupJob(store *shared.IdempotencyStore, logger *slog.Logger, metrics *jobmetrics.Metrics) *IdempotencyCleanupJob {
	return &IdempotencyCleanupJob{Store: store, Logger: logger, Metrics: metrics}
}

// Handle executes one cleanup run.
func (j *IdempotencyCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("idempotency cleanup: handler not configured")
	}
	var payload IdempotencyCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	retention := time.Duration(payload.RetentionHours) * time.Hour
	if retention <= 0 {
		retention = 24 * time.Hour
	}

	tracker := j.metrics().Track(TaskIdempotencyCleanup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	if err := j.Store.Cleanup(ctx, retention); err != nil {
		resultErr = err
		j.logger().Error("idempotency cleanup failed", slog.Any("error", err))
		return resultErr
	}
	j.logger().Info("idempotency cleanup completed", slog.Duration("retention", retention))
	return resultErr
}

func (j *IdempotencyCleanupJob) logger() *slog.Logger {
	if j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}

func (j *IdempotencyCleanupJob) metrics() *jobmetrics.Metrics {
	return j.Metrics
}
