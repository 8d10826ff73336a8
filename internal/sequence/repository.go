package sequence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists number series and counters in PostgreSQL. All
// increments run as single INSERT ... ON CONFLICT ... RETURNING
// statements so the read-and-increment is atomic on the store side.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) IncrementSeries(ctx context.Context, seriesType, defaultPrefix string, defaultPadding int) (Series, error) {
	series := Series{SeriesType: seriesType}
	err := r.pool.QueryRow(ctx, `INSERT INTO number_series (id, series_type, prefix, current_number, padding)
VALUES ($1, $2, $3, 1, $4)
ON CONFLICT (series_type)
DO UPDATE SET current_number = number_series.current_number + 1
RETURNING id, prefix, current_number, padding`,
		uuid.NewString(), seriesType, defaultPrefix, defaultPadding).
		Scan(&series.ID, &series.Prefix, &series.CurrentNumber, &series.Padding)
	if err != nil {
		return Series{}, err
	}
	return series, nil
}

func (r *Repository) GetSeries(ctx context.Context, seriesType string) (Series, bool, error) {
	var series Series
	err := r.pool.QueryRow(ctx, `SELECT id, series_type, prefix, current_number, padding FROM number_series WHERE series_type=$1`, seriesType).
		Scan(&series.ID, &series.SeriesType, &series.Prefix, &series.CurrentNumber, &series.Padding)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Series{}, false, nil
		}
		return Series{}, false, err
	}
	return series, true, nil
}

func (r *Repository) ListSeries(ctx context.Context) ([]Series, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, series_type, prefix, current_number, padding FROM number_series ORDER BY series_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	series := []Series{}
	for rows.Next() {
		var s Series
		if err := rows.Scan(&s.ID, &s.SeriesType, &s.Prefix, &s.CurrentNumber, &s.Padding); err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return series, nil
}

func (r *Repository) IncrementCounter(ctx context.Context, key string) (int64, error) {
	var value int64
	err := r.pool.QueryRow(ctx, `INSERT INTO counters (key, value) VALUES ($1, 1)
ON CONFLICT (key) DO UPDATE SET value = counters.value + 1
RETURNING value`, key).Scan(&value)
	return value, err
}

func (r *Repository) GetCounter(ctx context.Context, key string) (int64, bool, error) {
	var value int64
	err := r.pool.QueryRow(ctx, `SELECT value FROM counters WHERE key=$1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return value, true, nil
}
