package uom

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort abstracts unit persistence for the service.
type RepositoryPort interface {
	GetUnit(ctx context.Context, id string) (Unit, error)
	ListUnits(ctx context.Context) ([]Unit, error)
	InsertUnit(ctx context.Context, unit Unit) error
	UpdateUnit(ctx context.Context, unit Unit) error
}

// Service maintains the unit registry and converts quantities.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create registers a new unit.
func (s *Service) Create(ctx context.Context, unit Unit) (Unit, error) {
	if strings.TrimSpace(unit.Name) == "" {
		return Unit{}, errors.New("uom: unit name required")
	}
	if !unit.Category.Valid() {
		return Unit{}, ErrInvalidCategory
	}
	if unit.ConversionFactor <= 0 {
		return Unit{}, ErrInvalidFactor
	}
	if unit.ID == "" {
		unit.ID = uuid.NewString()
	}
	if unit.DecimalPrecision < 0 {
		unit.DecimalPrecision = 0
	}
	if unit.Status == "" {
		unit.Status = "Active"
	}
	unit.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertUnit(ctx, unit); err != nil {
		return Unit{}, err
	}
	return unit, nil
}

// Update replaces an existing unit definition.
func (s *Service) Update(ctx context.Context, unit Unit) error {
	if unit.ID == "" {
		return ErrUnitNotFound
	}
	if !unit.Category.Valid() {
		return ErrInvalidCategory
	}
	if unit.ConversionFactor <= 0 {
		return ErrInvalidFactor
	}
	return s.repo.UpdateUnit(ctx, unit)
}

// Get returns a single unit.
func (s *Service) Get(ctx context.Context, id string) (Unit, error) {
	return s.repo.GetUnit(ctx, id)
}

// List returns all registered units.
func (s *Service) List(ctx context.Context) ([]Unit, error) {
	return s.repo.ListUnits(ctx)
}

// Convert converts qty from one unit to another within the same
// category. Quantities pass through the category's base unit and the
// result is rounded half-up to the target unit's decimal precision.
func (s *Service) Convert(ctx context.Context, qty float64, fromID, toID string) (float64, error) {
	if fromID == toID {
		return qty, nil
	}
	from, err := s.repo.GetUnit(ctx, fromID)
	if err != nil {
		return 0, err
	}
	to, err := s.repo.GetUnit(ctx, toID)
	if err != nil {
		return 0, err
	}
	if from.Category != to.Category {
		return 0, ErrIncompatibleUnits
	}
	qtyInBase := qty * from.ConversionFactor
	converted := qtyInBase / to.ConversionFactor
	return roundHalfUp(converted, to.DecimalPrecision), nil
}

func roundHalfUp(value float64, precision int) float64 {
	pow := math.Pow(10, float64(precision))
	return math.Round(value*pow) / pow
}
