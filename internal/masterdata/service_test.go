package masterdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	suppliers  map[string]Supplier
	warehouses map[string]Warehouse
	bins       []BinLocation
	taxes      []TaxHSN
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{suppliers: map[string]Supplier{}, warehouses: map[string]Warehouse{}}
}

func (r *memoryRepo) InsertSupplier(ctx context.Context, s Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *memoryRepo) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	out := []Supplier{}
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (r *memoryRepo) GetSupplier(ctx context.Context, id string) (Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return Supplier{}, ErrSupplierNotFound
	}
	return s, nil
}

func (r *memoryRepo) InsertWarehouse(ctx context.Context, w Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *memoryRepo) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	out := []Warehouse{}
	for _, w := range r.warehouses {
		out = append(out, w)
	}
	return out, nil
}

func (r *memoryRepo) GetWarehouse(ctx context.Context, id string) (Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return Warehouse{}, ErrWarehouseNotFound
	}
	return w, nil
}

func (r *memoryRepo) InsertBin(ctx context.Context, b BinLocation) error {
	r.bins = append(r.bins, b)
	return nil
}

func (r *memoryRepo) ListBins(ctx context.Context) ([]BinLocation, error) {
	return r.bins, nil
}

func (r *memoryRepo) InsertTaxHSN(ctx context.Context, t TaxHSN) error {
	r.taxes = append(r.taxes, t)
	return nil
}

func (r *memoryRepo) ListTaxHSN(ctx context.Context) ([]TaxHSN, error) {
	return r.taxes, nil
}

func TestCreateSupplierAssignsIdentityAndStatus(t *testing.T) {
	svc := NewService(newMemoryRepo())

	created, err := svc.CreateSupplier(context.Background(), Supplier{Code: "SUP-001", Name: "Thread Works"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Active", created.Status)
	require.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetSupplier(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Thread Works", got.Name)
}

func TestCreateBinRequiresExistingWarehouse(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.CreateBin(ctx, BinLocation{Code: "B-01", Name: "Bin 1", WarehouseID: "missing"})
	require.ErrorIs(t, err, ErrWarehouseNotFound)

	wh, err := svc.CreateWarehouse(ctx, Warehouse{Name: "Main Store", Type: "Store"})
	require.NoError(t, err)

	bin, err := svc.CreateBin(ctx, BinLocation{Code: "B-01", Name: "Bin 1", WarehouseID: wh.ID})
	require.NoError(t, err)
	require.Equal(t, wh.ID, bin.WarehouseID)
}

func TestWarehouseCapacityIsInformational(t *testing.T) {
	svc := NewService(newMemoryRepo())
	capacity := 5000.0

	wh, err := svc.CreateWarehouse(context.Background(), Warehouse{Name: "Fabric Godown", Type: "Godown", Capacity: &capacity})
	require.NoError(t, err)
	require.NotNil(t, wh.Capacity)
	require.Equal(t, 5000.0, *wh.Capacity)
}
