package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan is the task type for the scheduled low stock scan.
	TaskLowStockScan = "stock:low_stock_scan"
	// TaskIdempotencyCleanup is the task type for purging stale idempotency keys.
	TaskIdempotencyCleanup = "maintenance:idempotency_cleanup"
)

// LowStockScanPayload tunes a low stock scan run.
type LowStockScanPayload struct {
	// ItemType narrows the scan to one item type; empty scans everything.
	ItemType string `json:"item_type,omitempty"`
}

// NewLowStockScanTask constructs an Asynq task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}

// IdempotencyCleanupPayload tunes the retention window.
type IdempotencyCleanupPayload struct {
	// RetentionHours keeps keys younger than this; zero means 24h.
	RetentionHours int `json:"retention_hours,omitempty"`
}

// NewIdempotencyCleanupTask constructs an Asynq task.
func NewIdempotencyCleanupTask(payload IdempotencyCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, data), nil
}
