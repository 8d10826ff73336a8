package sequence

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu       sync.Mutex
	series   map[string]*Series
	counters map[string]int64
	fail     bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{series: make(map[string]*Series), counters: make(map[string]int64)}
}

func (r *memoryRepo) IncrementSeries(ctx context.Context, seriesType, defaultPrefix string, defaultPadding int) (Series, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return Series{}, fmt.Errorf("connection refused")
	}
	s, ok := r.series[seriesType]
	if !ok {
		s = &Series{ID: seriesType, SeriesType: seriesType, Prefix: defaultPrefix, Padding: defaultPadding}
		r.series[seriesType] = s
	}
	s.CurrentNumber++
	return *s, nil
}

func (r *memoryRepo) GetSeries(ctx context.Context, seriesType string) (Series, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.series[seriesType]; ok {
		return *s, true, nil
	}
	return Series{}, false, nil
}

func (r *memoryRepo) ListSeries(ctx context.Context) ([]Series, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Series{}
	for _, s := range r.series {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memoryRepo) IncrementCounter(ctx context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return 0, fmt.Errorf("connection refused")
	}
	r.counters[key]++
	return r.counters[key], nil
}

func (r *memoryRepo) GetCounter(ctx context.Context, key string) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.counters[key]
	return v, ok, nil
}

func TestNextCreatesSeriesWithDerivedPrefix(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	number, err := svc.Next(ctx, "GRN")
	require.NoError(t, err)
	require.Equal(t, "GRN0001", number)

	number, err = svc.Next(ctx, "Purchase_Order")
	require.NoError(t, err)
	require.Equal(t, "PUR0001", number)
}

func TestNextIsSequential(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		number, err := svc.Next(ctx, "ISSUE")
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("ISS%04d", i), number)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	peeked, err := svc.Peek(ctx, "ADJUSTMENT")
	require.NoError(t, err)
	require.Equal(t, "ADJ0001", peeked)

	number, err := svc.Next(ctx, "ADJUSTMENT")
	require.NoError(t, err)
	require.Equal(t, peeked, number)

	peeked, err = svc.Peek(ctx, "ADJUSTMENT")
	require.NoError(t, err)
	require.Equal(t, "ADJ0002", peeked)
}

func TestConcurrentNextNoDuplicatesNoGaps(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	const n = 100
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := svc.Next(ctx, "TRANSFER")
			require.NoError(t, err)
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	got := []string{}
	for number := range results {
		got = append(got, number)
	}
	sort.Strings(got)

	want := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		want = append(want, fmt.Sprintf("TRA%04d", i))
	}
	require.Equal(t, want, got)
}

func TestCounterPeekAndNext(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	peek, err := svc.PeekCounter(ctx, "item_code_cat1")
	require.NoError(t, err)
	require.Equal(t, int64(1), peek)

	v, err := svc.NextCounter(ctx, "item_code_cat1")
	require.NoError(t, err)
	require.Equal(t, int64(1), v)

	peek, err = svc.PeekCounter(ctx, "item_code_cat1")
	require.NoError(t, err)
	require.Equal(t, int64(2), peek)
}

func TestStoreFailureMapsToStoreUnavailable(t *testing.T) {
	repo := newMemoryRepo()
	repo.fail = true
	svc := NewService(repo)

	_, err := svc.Next(context.Background(), "GRN")
	require.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = svc.NextCounter(context.Background(), "item_code_x")
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestEmptyKeyRejected(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Next(context.Background(), "  ")
	require.ErrorIs(t, err, ErrEmptyKey)
}
