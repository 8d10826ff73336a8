package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository computes dashboard stats straight from the primary store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LoadStats runs the count queries in one round trip.
func (r *Repository) LoadStats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM items WHERE is_active),
			(SELECT count(*) FROM suppliers WHERE is_active),
			(SELECT count(*)
				FROM items i
				WHERE i.is_active
				  AND i.reorder_level > 0
				  AND COALESCE((SELECT sum(b.qty) FROM stock_balance b WHERE b.item_id = i.id), 0) <= i.reorder_level),
			(SELECT count(*) FROM purchase_orders WHERE status IN ('Pending', 'Draft')),
			(SELECT count(*) FROM stock_transfer WHERE status = 'Pending')
			+ (SELECT count(*) FROM adjustments WHERE status = 'Pending')`,
	).Scan(&stats.TotalItems, &stats.TotalSuppliers, &stats.LowStockAlerts, &stats.PendingPOs, &stats.PendingApprovals)
	if err != nil {
		return Stats{}, fmt.Errorf("load dashboard stats: %w", err)
	}
	return stats, nil
}
