package sequence

import (
	"context"
	"fmt"
	"strings"
)

// RepositoryPort abstracts series persistence. Increment operations are
// atomic find-and-increment: two concurrent callers never observe the
// same value.
type RepositoryPort interface {
	IncrementSeries(ctx context.Context, seriesType, defaultPrefix string, defaultPadding int) (Series, error)
	GetSeries(ctx context.Context, seriesType string) (Series, bool, error)
	ListSeries(ctx context.Context) ([]Series, error)
	IncrementCounter(ctx context.Context, key string) (int64, error)
	GetCounter(ctx context.Context, key string) (int64, bool, error)
}

// Service issues formatted document numbers and raw counters.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Next atomically advances the series and returns the formatted number.
// A missing series is created with counter 0, a prefix derived from the
// key and padding 4, then advanced to 1 in the same statement.
func (s *Service) Next(ctx context.Context, seriesType string) (string, error) {
	if strings.TrimSpace(seriesType) == "" {
		return "", ErrEmptyKey
	}
	series, err := s.repo.IncrementSeries(ctx, seriesType, derivePrefix(seriesType), defaultPadding)
	if err != nil {
		return "", fmt.Errorf("%w: next %q: %v", ErrStoreUnavailable, seriesType, err)
	}
	return formatNumber(series.Prefix, series.CurrentNumber, series.Padding), nil
}

// Peek returns the number the next call to Next would produce without
// consuming it.
func (s *Service) Peek(ctx context.Context, seriesType string) (string, error) {
	if strings.TrimSpace(seriesType) == "" {
		return "", ErrEmptyKey
	}
	series, found, err := s.repo.GetSeries(ctx, seriesType)
	if err != nil {
		return "", fmt.Errorf("%w: peek %q: %v", ErrStoreUnavailable, seriesType, err)
	}
	if !found {
		series = Series{Prefix: derivePrefix(seriesType), CurrentNumber: 0, Padding: defaultPadding}
	}
	return formatNumber(series.Prefix, series.CurrentNumber+1, series.Padding), nil
}

// List returns all known series.
func (s *Service) List(ctx context.Context) ([]Series, error) {
	return s.repo.ListSeries(ctx)
}

// NextCounter atomically advances a named counter and returns the new
// value. Used for per-category item code running numbers.
func (s *Service) NextCounter(ctx context.Context, key string) (int64, error) {
	if strings.TrimSpace(key) == "" {
		return 0, ErrEmptyKey
	}
	value, err := s.repo.IncrementCounter(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("%w: counter %q: %v", ErrStoreUnavailable, key, err)
	}
	return value, nil
}

// PeekCounter returns the value NextCounter would produce without
// consuming it.
func (s *Service) PeekCounter(ctx context.Context, key string) (int64, error) {
	if strings.TrimSpace(key) == "" {
		return 0, ErrEmptyKey
	}
	value, found, err := s.repo.GetCounter(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("%w: peek counter %q: %v", ErrStoreUnavailable, key, err)
	}
	if !found {
		return 1, nil
	}
	return value + 1, nil
}

func derivePrefix(seriesType string) string {
	prefix := seriesType
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return strings.ToUpper(prefix)
}

func formatNumber(prefix string, number int64, padding int) string {
	return fmt.Sprintf("%s%0*d", prefix, padding, number)
}
