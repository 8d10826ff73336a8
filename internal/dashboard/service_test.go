package dashboard

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type countingStats struct {
	stats Stats
	loads int
}

func (s *countingStats) LoadStats(ctx context.Context) (Stats, error) {
	s.loads++
	return s.stats, nil
}

func newTestService(t *testing.T, stats Stats) (*Service, *countingStats, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	source := &countingStats{stats: stats}
	return NewService(source, client, time.Minute), source, mr
}

func TestStatsCachedAcrossReads(t *testing.T) {
	svc, source, _ := newTestService(t, Stats{TotalItems: 42, TotalSuppliers: 7, LowStockAlerts: 3, PendingPOs: 2, PendingApprovals: 5})
	ctx := context.Background()

	first, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(42), first.TotalItems)
	require.Equal(t, 1, source.loads)

	// Second read comes from the cache even after the store changes.
	source.stats.TotalItems = 99
	second, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(42), second.TotalItems)
	require.Equal(t, 1, source.loads)
}

func TestStatsRecomputedAfterTTL(t *testing.T) {
	svc, source, mr := newTestService(t, Stats{TotalItems: 10})
	ctx := context.Background()

	_, err := svc.Stats(ctx)
	require.NoError(t, err)

	source.stats.TotalItems = 11
	mr.FastForward(2 * time.Minute)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(11), stats.TotalItems)
	require.Equal(t, 2, source.loads)
}

func TestInvalidateDropsCachedStats(t *testing.T) {
	svc, source, _ := newTestService(t, Stats{PendingPOs: 1})
	ctx := context.Background()

	_, err := svc.Stats(ctx)
	require.NoError(t, err)

	source.stats.PendingPOs = 4
	require.NoError(t, svc.Invalidate(ctx))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.PendingPOs)
}

func TestNilClientLoadsDirectly(t *testing.T) {
	source := &countingStats{stats: Stats{TotalItems: 5}}
	svc := NewService(source, nil, time.Minute)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(5), stats.TotalItems)
	require.Equal(t, 1, source.loads)
}
