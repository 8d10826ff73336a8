package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	jobmetrics "github.com/stitchline-erp/stitchline/internal/jobs"
)

// LowStockScanJob walks active items and raises an alert for every item
// whose total stock across warehouses sits at or under its reorder
// level.
type LowStockScanJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	printer *message.Printer
}

// NewLowStockScanJob initialises the scan handler.
func NewLowStockScanJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	return &LowStockScanJob{
		Pool:    pool,
		Logger:  logger,
		Metrics: metrics,
		printer: message.NewPrinter(language.English),
	}
}

type lowStockAlert struct {
	ItemID       string
	ItemCode     string
	ItemName     string
	ItemType     string
	UOM          string
	CurrentStock float64
	ReorderLevel float64
}

// Handle executes one scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := time.Now().UTC()
	tracker := j.metrics().Track(TaskLowStockScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("item_type", payload.ItemType))
	logger.Info("starting low stock scan")

	alerts, err := j.scan(ctx, payload)
	if err != nil {
		resultErr = err
		logger.Error("scan failed", slog.Any("error", err))
		return resultErr
	}

	for _, a := range alerts {
		logger.Warn("low stock",
			slog.String("item_code", a.ItemCode),
			slog.String("item_name", a.ItemName),
			slog.String("message", j.format(a)),
		)
		j.metrics().AddLowStockAlerts(a.ItemType, 1)
	}

	logger.Info("completed low stock scan",
		slog.Int("alerts", len(alerts)),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *LowStockScanJob) scan(ctx context.Context, payload LowStockScanPayload) ([]lowStockAlert, error) {
	if j.Pool == nil {
		return nil, errors.New("low stock scan: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `
		SELECT i.id, i.item_code, i.item_name, i.item_type, i.uom, i.reorder_level,
			COALESCE((SELECT sum(b.qty) FROM stock_balance b WHERE b.item_id = i.id), 0) AS current_stock
		FROM items i
		WHERE i.is_active
		  AND i.reorder_level > 0
		  AND ($1 = '' OR i.item_type = $1)
		ORDER BY i.item_code`, payload.ItemType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []lowStockAlert{}
	for rows.Next() {
		var a lowStockAlert
		if err := rows.Scan(&a.ItemID, &a.ItemCode, &a.ItemName, &a.ItemType, &a.UOM, &a.ReorderLevel, &a.CurrentStock); err != nil {
			return nil, err
		}
		if a.CurrentStock <= a.ReorderLevel {
			alerts = append(alerts, a)
		}
	}
	return alerts, rows.Err()
}

func (j *LowStockScanJob) format(a lowStockAlert) string {
	return j.printerOrDefault().Sprintf("%s is down to %.2f %s against a reorder level of %.2f",
		a.ItemName, a.CurrentStock, a.UOM, a.ReorderLevel)
}

func (j *LowStockScanJob) printerOrDefault() *message.Printer {
	if j.printer == nil {
		j.printer = message.NewPrinter(language.English)
	}
	return j.printer
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}

func (j *LowStockScanJob) metrics() *jobmetrics.Metrics {
	return j.Metrics
}
