package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsKey = "dashboard:stats"

// Stats is the landing-page summary.
type Stats struct {
	TotalItems       int64 `json:"total_items"`
	TotalSuppliers   int64 `json:"total_suppliers"`
	LowStockAlerts   int64 `json:"low_stock_alerts"`
	PendingPOs       int64 `json:"pending_pos"`
	PendingApprovals int64 `json:"pending_approvals"`
}

// StatsPort loads the summary from the primary store.
type StatsPort interface {
	LoadStats(ctx context.Context) (Stats, error)
}

// Service serves dashboard stats through a short-lived Redis cache.
// A nil client degrades to uncached loads.
type Service struct {
	stats  StatsPort
	client *redis.Client
	ttl    time.Duration
}

// NewService constructs the dashboard service.
func NewService(stats StatsPort, client *redis.Client, ttl time.Duration) *Service {
	return &Service{stats: stats, client: client, ttl: ttl}
}

// Stats returns the cached summary, recomputing it on a miss. Cache
// failures fall through to the store; stale reads up to the TTL are
// acceptable here.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s.client == nil {
		return s.stats.LoadStats(ctx)
	}
	payload, err := s.client.Get(ctx, statsKey).Bytes()
	if err == nil {
		var stats Stats
		if err := json.Unmarshal(payload, &stats); err == nil {
			return stats, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return s.stats.LoadStats(ctx)
	}

	stats, err := s.stats.LoadStats(ctx)
	if err != nil {
		return Stats{}, err
	}
	if raw, err := json.Marshal(stats); err == nil {
		_ = s.client.Set(ctx, statsKey, raw, s.ttl).Err()
	}
	return stats, nil
}

// Invalidate drops the cached summary so the next read recomputes it.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, statsKey).Err()
}
