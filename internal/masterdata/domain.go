package masterdata

import (
	"errors"
	"time"
)

// Supplier is a vendor master record.
type Supplier struct {
	ID            string    `json:"id"`
	Code          string    `json:"supplier_code"`
	Name          string    `json:"name"`
	GST           string    `json:"gst,omitempty"`
	PAN           string    `json:"pan,omitempty"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	PaymentTerms  string    `json:"payment_terms,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Warehouse is a physical or logical storage location. Capacity is
// informational only; the ledger does not enforce it.
type Warehouse struct {
	ID                string    `json:"id"`
	Name              string    `json:"warehouse_name"`
	Type              string    `json:"warehouse_type"`
	Location          string    `json:"location,omitempty"`
	Capacity          *float64  `json:"capacity,omitempty"`
	ParentWarehouseID *string   `json:"parent_warehouse_id,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// BinLocation is a bin inside a warehouse.
type BinLocation struct {
	ID          string    `json:"id"`
	Code        string    `json:"bin_code"`
	Name        string    `json:"bin_name"`
	WarehouseID string    `json:"warehouse_id"`
	Aisle       string    `json:"aisle,omitempty"`
	Rack        string    `json:"rack,omitempty"`
	Level       string    `json:"level,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaxHSN holds GST rates for one HSN code.
type TaxHSN struct {
	ID          string    `json:"id"`
	HSNCode     string    `json:"hsn_code"`
	Description string    `json:"description"`
	CGSTRate    float64   `json:"cgst_rate"`
	SGSTRate    float64   `json:"sgst_rate"`
	IGSTRate    float64   `json:"igst_rate"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrSupplierNotFound  = errors.New("masterdata: supplier not found")
	ErrWarehouseNotFound = errors.New("masterdata: warehouse not found")
	ErrBinNotFound       = errors.New("masterdata: bin location not found")
	ErrTaxHSNNotFound    = errors.New("masterdata: tax hsn not found")
)
