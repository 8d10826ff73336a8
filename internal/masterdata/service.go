package masterdata

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort abstracts master data persistence.
type RepositoryPort interface {
	InsertSupplier(ctx context.Context, s Supplier) error
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	GetSupplier(ctx context.Context, id string) (Supplier, error)

	InsertWarehouse(ctx context.Context, w Warehouse) error
	ListWarehouses(ctx context.Context) ([]Warehouse, error)
	GetWarehouse(ctx context.Context, id string) (Warehouse, error)

	InsertBin(ctx context.Context, b BinLocation) error
	ListBins(ctx context.Context) ([]BinLocation, error)

	InsertTaxHSN(ctx context.Context, t TaxHSN) error
	ListTaxHSN(ctx context.Context) ([]TaxHSN, error)
}

// Service implements master data CRUD.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateSupplier(ctx context.Context, supplier Supplier) (Supplier, error) {
	supplier.ID = uuid.NewString()
	supplier.Status = "Active"
	supplier.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertSupplier(ctx, supplier); err != nil {
		return Supplier{}, err
	}
	return supplier, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) GetSupplier(ctx context.Context, id string) (Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) CreateWarehouse(ctx context.Context, warehouse Warehouse) (Warehouse, error) {
	warehouse.ID = uuid.NewString()
	warehouse.Status = "Active"
	warehouse.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertWarehouse(ctx, warehouse); err != nil {
		return Warehouse{}, err
	}
	return warehouse, nil
}

func (s *Service) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	return s.repo.ListWarehouses(ctx)
}

func (s *Service) GetWarehouse(ctx context.Context, id string) (Warehouse, error) {
	return s.repo.GetWarehouse(ctx, id)
}

// WarehouseName resolves a warehouse display name for denormalized
// records elsewhere.
func (s *Service) WarehouseName(ctx context.Context, id string) (string, error) {
	warehouse, err := s.repo.GetWarehouse(ctx, id)
	if err != nil {
		return "", err
	}
	return warehouse.Name, nil
}

func (s *Service) CreateBin(ctx context.Context, bin BinLocation) (BinLocation, error) {
	if _, err := s.repo.GetWarehouse(ctx, bin.WarehouseID); err != nil {
		return BinLocation{}, err
	}
	bin.ID = uuid.NewString()
	bin.Status = "Active"
	bin.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertBin(ctx, bin); err != nil {
		return BinLocation{}, err
	}
	return bin, nil
}

func (s *Service) ListBins(ctx context.Context) ([]BinLocation, error) {
	return s.repo.ListBins(ctx)
}

func (s *Service) CreateTaxHSN(ctx context.Context, tax TaxHSN) (TaxHSN, error) {
	tax.ID = uuid.NewString()
	tax.Status = "Active"
	tax.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertTaxHSN(ctx, tax); err != nil {
		return TaxHSN{}, err
	}
	return tax, nil
}

func (s *Service) ListTaxHSN(ctx context.Context) ([]TaxHSN, error) {
	return s.repo.ListTaxHSN(ctx)
}
