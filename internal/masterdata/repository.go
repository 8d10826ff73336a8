package masterdata

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists master data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) InsertSupplier(ctx context.Context, s Supplier) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO suppliers
(id, supplier_code, name, gst, pan, contact_person, phone, address, payment_terms, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		s.ID, s.Code, s.Name, s.GST, s.PAN, s.ContactPerson, s.Phone, s.Address, s.PaymentTerms, s.Status, s.CreatedAt)
	return err
}

func (r *Repository) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, supplier_code, name, gst, pan, contact_person, phone, address,
payment_terms, status, created_at FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	suppliers := []Supplier{}
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.GST, &s.PAN, &s.ContactPerson, &s.Phone, &s.Address,
			&s.PaymentTerms, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *Repository) GetSupplier(ctx context.Context, id string) (Supplier, error) {
	var s Supplier
	err := r.pool.QueryRow(ctx, `SELECT id, supplier_code, name, gst, pan, contact_person, phone, address,
payment_terms, status, created_at FROM suppliers WHERE id=$1`, id).
		Scan(&s.ID, &s.Code, &s.Name, &s.GST, &s.PAN, &s.ContactPerson, &s.Phone, &s.Address,
			&s.PaymentTerms, &s.Status, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, ErrSupplierNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

func (r *Repository) InsertWarehouse(ctx context.Context, w Warehouse) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO warehouses
(id, warehouse_name, warehouse_type, location, capacity, parent_warehouse_id, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		w.ID, w.Name, w.Type, w.Location, w.Capacity, w.ParentWarehouseID, w.Status, w.CreatedAt)
	return err
}

func (r *Repository) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, warehouse_name, warehouse_type, location, capacity,
parent_warehouse_id, status, created_at FROM warehouses ORDER BY warehouse_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	warehouses := []Warehouse{}
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Type, &w.Location, &w.Capacity, &w.ParentWarehouseID,
			&w.Status, &w.CreatedAt); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (r *Repository) GetWarehouse(ctx context.Context, id string) (Warehouse, error) {
	var w Warehouse
	err := r.pool.QueryRow(ctx, `SELECT id, warehouse_name, warehouse_type, location, capacity,
parent_warehouse_id, status, created_at FROM warehouses WHERE id=$1`, id).
		Scan(&w.ID, &w.Name, &w.Type, &w.Location, &w.Capacity, &w.ParentWarehouseID, &w.Status, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Warehouse{}, ErrWarehouseNotFound
		}
		return Warehouse{}, err
	}
	return w, nil
}

func (r *Repository) InsertBin(ctx context.Context, b BinLocation) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO bin_locations
(id, bin_code, bin_name, warehouse_id, aisle, rack, level, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		b.ID, b.Code, b.Name, b.WarehouseID, b.Aisle, b.Rack, b.Level, b.Status, b.CreatedAt)
	return err
}

func (r *Repository) ListBins(ctx context.Context) ([]BinLocation, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, bin_code, bin_name, warehouse_id, aisle, rack, level, status, created_at
FROM bin_locations ORDER BY bin_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bins := []BinLocation{}
	for rows.Next() {
		var b BinLocation
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.WarehouseID, &b.Aisle, &b.Rack, &b.Level,
			&b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		bins = append(bins, b)
	}
	return bins, rows.Err()
}

func (r *Repository) InsertTaxHSN(ctx context.Context, t TaxHSN) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO tax_hsn
(id, hsn_code, description, cgst_rate, sgst_rate, igst_rate, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		t.ID, t.HSNCode, t.Description, t.CGSTRate, t.SGSTRate, t.IGSTRate, t.Status, t.CreatedAt)
	return err
}

func (r *Repository) ListTaxHSN(ctx context.Context) ([]TaxHSN, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, hsn_code, description, cgst_rate, sgst_rate, igst_rate, status, created_at
FROM tax_hsn ORDER BY hsn_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	taxes := []TaxHSN{}
	for rows.Next() {
		var t TaxHSN
		if err := rows.Scan(&t.ID, &t.HSNCode, &t.Description, &t.CGSTRate, &t.SGSTRate, &t.IGSTRate,
			&t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		taxes = append(taxes, t)
	}
	return taxes, rows.Err()
}
