package uom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	units map[string]Unit
}

func newMemoryRepo(units ...Unit) *memoryRepo {
	repo := &memoryRepo{units: make(map[string]Unit)}
	for _, u := range units {
		repo.units[u.ID] = u
	}
	return repo
}

func (r *memoryRepo) GetUnit(ctx context.Context, id string) (Unit, error) {
	if u, ok := r.units[id]; ok {
		return u, nil
	}
	return Unit{}, ErrUnitNotFound
}

func (r *memoryRepo) ListUnits(ctx context.Context) ([]Unit, error) {
	units := make([]Unit, 0, len(r.units))
	for _, u := range r.units {
		units = append(units, u)
	}
	return units, nil
}

func (r *memoryRepo) InsertUnit(ctx context.Context, unit Unit) error {
	r.units[unit.ID] = unit
	return nil
}

func (r *memoryRepo) UpdateUnit(ctx context.Context, unit Unit) error {
	if _, ok := r.units[unit.ID]; !ok {
		return ErrUnitNotFound
	}
	r.units[unit.ID] = unit
	return nil
}

var (
	kg = Unit{ID: "kg", Name: "Kilogram", Category: CategoryWeight, IsBaseUnit: true, ConversionFactor: 1, DecimalPrecision: 3}
	g  = Unit{ID: "g", Name: "Gram", Category: CategoryWeight, ConversionFactor: 0.001, DecimalPrecision: 2}
	m  = Unit{ID: "m", Name: "Meter", Category: CategoryLength, IsBaseUnit: true, ConversionFactor: 1, DecimalPrecision: 2}
	yd = Unit{ID: "yd", Name: "Yard", Category: CategoryLength, ConversionFactor: 0.9144, DecimalPrecision: 2}
)

func TestConvertSameUnitFastPath(t *testing.T) {
	// No repo lookups must happen when from == to.
	svc := NewService(newMemoryRepo())
	got, err := svc.Convert(context.Background(), 42.5, "anything", "anything")
	require.NoError(t, err)
	require.Equal(t, 42.5, got)
}

func TestConvertThroughBaseUnit(t *testing.T) {
	svc := NewService(newMemoryRepo(kg, g))
	ctx := context.Background()

	got, err := svc.Convert(ctx, 2, "kg", "g")
	require.NoError(t, err)
	require.InDelta(t, 2000, got, 0.001)

	got, err = svc.Convert(ctx, 500, "g", "kg")
	require.NoError(t, err)
	require.InDelta(t, 0.5, got, 0.0001)
}

func TestConvertRoundTrip(t *testing.T) {
	svc := NewService(newMemoryRepo(m, yd))
	ctx := context.Background()

	const original = 13.7
	there, err := svc.Convert(ctx, original, "m", "yd")
	require.NoError(t, err)
	back, err := svc.Convert(ctx, there, "yd", "m")
	require.NoError(t, err)
	require.InDelta(t, original, back, 0.02)
}

func TestConvertRoundsHalfUpToTargetPrecision(t *testing.T) {
	svc := NewService(newMemoryRepo(m, yd))
	got, err := svc.Convert(context.Background(), 1, "m", "yd")
	require.NoError(t, err)
	// 1/0.9144 = 1.09361... rounds to 1.09 at two decimals.
	require.Equal(t, 1.09, got)
}

func TestConvertAcrossCategoriesFails(t *testing.T) {
	svc := NewService(newMemoryRepo(kg, m))
	for _, qty := range []float64{0, 1, -5, 123456.789} {
		_, err := svc.Convert(context.Background(), qty, "kg", "m")
		require.ErrorIs(t, err, ErrIncompatibleUnits)
	}
}

func TestConvertMissingUnit(t *testing.T) {
	svc := NewService(newMemoryRepo(kg))
	_, err := svc.Convert(context.Background(), 1, "kg", "missing")
	require.ErrorIs(t, err, ErrUnitNotFound)

	_, err = svc.Convert(context.Background(), 1, "missing", "kg")
	require.ErrorIs(t, err, ErrUnitNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Unit{Name: "Piece", Category: "FLAVOR", ConversionFactor: 1})
	require.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.Create(ctx, Unit{Name: "Piece", Category: CategoryCount, ConversionFactor: 0})
	require.ErrorIs(t, err, ErrInvalidFactor)

	unit, err := svc.Create(ctx, Unit{Name: "Piece", Category: CategoryCount, ConversionFactor: 1})
	require.NoError(t, err)
	require.NotEmpty(t, unit.ID)
	require.Equal(t, "Active", unit.Status)
}
