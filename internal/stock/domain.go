package stock

import (
	"errors"
	"time"
)

// ApprovalStatus is the document approval lifecycle.
type ApprovalStatus string

const (
	StatusDraft    ApprovalStatus = "Draft"
	StatusPending  ApprovalStatus = "Pending"
	StatusApproved ApprovalStatus = "Approved"
	StatusRejected ApprovalStatus = "Rejected"
)

// QC outcome values.
const (
	QCAccepted = "Accepted"
	QCRejected = "Rejected"
	QCPartial  = "Partial"
)

// GRN statuses driven by quality checks.
const (
	GRNPendingQC = "Pending QC"
	GRNQCPassed  = "QC Passed"
	GRNQCFailed  = "QC Failed"
)

// StockBalance is the mutable aggregate the ledger maintains, one row
// per (item, warehouse) pair. It is not a transaction log.
type StockBalance struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"item_id"`
	ItemName      string    `json:"item_name"`
	WarehouseID   string    `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name"`
	Qty           float64   `json:"qty"`
	UOM           string    `json:"uom"`
	LastUpdated   time.Time `json:"last_updated"`
}

// GRN records a goods receipt against a purchase order. It is a
// document only; stock moves at inward time, after QC.
type GRN struct {
	ID               string     `json:"id"`
	GRNNo            string     `json:"grn_no"`
	POID             string     `json:"po_id"`
	PONo             string     `json:"po_no"`
	SupplierID       string     `json:"supplier_id"`
	SupplierName     string     `json:"supplier_name"`
	ItemID           string     `json:"item_id"`
	ItemName         string     `json:"item_name"`
	Qty              float64    `json:"qty"`
	UOM              string     `json:"uom"`
	UOMID            string     `json:"uom_id,omitempty"`
	BaseUOMID        string     `json:"base_uom_id,omitempty"`
	BaseQty          *float64   `json:"base_qty,omitempty"`
	BaseUOM          string     `json:"base_uom,omitempty"`
	WarehouseID      string     `json:"warehouse_id"`
	InvoiceNo        string     `json:"invoice_no,omitempty"`
	InvoiceDate      *time.Time `json:"invoice_date,omitempty"`
	TransportDetails string     `json:"transport_details,omitempty"`
	Status           string     `json:"status"`
	ReceivedBy       string     `json:"received_by"`
	ReceivedAt       time.Time  `json:"received_at"`
}

// QualityCheck records an inspection of a GRN line.
type QualityCheck struct {
	ID              string    `json:"id"`
	QCNo            string    `json:"qc_no"`
	GRNID           string    `json:"grn_id"`
	GRNNo           string    `json:"grn_no"`
	POID            string    `json:"po_id"`
	ItemID          string    `json:"item_id"`
	ItemName        string    `json:"item_name"`
	QtyReceived     float64   `json:"qty_received"`
	QtyAccepted     float64   `json:"qty_accepted"`
	QtyRejected     float64   `json:"qty_rejected"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	QCStatus        string    `json:"qc_status"`
	InspectedBy     string    `json:"inspected_by"`
	InspectedAt     time.Time `json:"inspected_at"`
	Remarks         string    `json:"remarks,omitempty"`
}

// StockInward moves QC-passed quantity into a warehouse balance.
type StockInward struct {
	ID            string    `json:"id"`
	InwardNo      string    `json:"inward_no"`
	QCID          string    `json:"qc_id"`
	ItemID        string    `json:"item_id"`
	ItemName      string    `json:"item_name"`
	Qty           float64   `json:"qty"`
	UOM           string    `json:"uom"`
	WarehouseID   string    `json:"warehouse_id"`
	BinLocationID string    `json:"bin_location_id,omitempty"`
	BatchNo       string    `json:"batch_no,omitempty"`
	Status        string    `json:"status"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// StockTransfer is a warehouse-to-warehouse movement request. The
// document awaits approval; balances are not touched at creation.
type StockTransfer struct {
	ID                string         `json:"id"`
	TransferNo        string         `json:"transfer_no"`
	FromWarehouseID   string         `json:"from_warehouse_id"`
	FromWarehouseName string         `json:"from_warehouse_name"`
	ToWarehouseID     string         `json:"to_warehouse_id"`
	ToWarehouseName   string         `json:"to_warehouse_name"`
	ItemID            string         `json:"item_id"`
	ItemName          string         `json:"item_name"`
	Qty               float64        `json:"qty"`
	UOM               string         `json:"uom"`
	Status            ApprovalStatus `json:"status"`
	CreatedBy         string         `json:"created_by"`
	CreatedAt         time.Time      `json:"created_at"`
	ApprovedBy        string         `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time     `json:"approved_at,omitempty"`
}

// Issue moves stock out of a warehouse to a department.
type Issue struct {
	ID            string    `json:"id"`
	IssueNo       string    `json:"issue_no"`
	Department    string    `json:"department"`
	ItemID        string    `json:"item_id"`
	ItemName      string    `json:"item_name"`
	Qty           float64   `json:"qty"`
	UOM           string    `json:"uom"`
	UOMID         string    `json:"uom_id,omitempty"`
	BaseQty       *float64  `json:"base_qty,omitempty"`
	BaseUOM       string    `json:"base_uom,omitempty"`
	WarehouseID   string    `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name"`
	IssuedBy      string    `json:"issued_by"`
	IssuedAt      time.Time `json:"issued_at"`
	Remarks       string    `json:"remarks,omitempty"`
}

// Return records material coming back from a department. Only a Good
// condition moves stock back in.
type Return struct {
	ID          string    `json:"id"`
	ReturnNo    string    `json:"return_no"`
	IssueID     string    `json:"issue_id,omitempty"`
	Department  string    `json:"department"`
	ItemID      string    `json:"item_id"`
	ItemName    string    `json:"item_name"`
	QtyReturned float64   `json:"qty_returned"`
	UOM         string    `json:"uom"`
	WarehouseID string    `json:"warehouse_id"`
	Condition   string    `json:"condition"`
	ReturnedBy  string    `json:"returned_by"`
	ReturnedAt  time.Time `json:"returned_at"`
	Remarks     string    `json:"remarks,omitempty"`
}

// Adjustment records a correction request. The document awaits
// approval; balances are not touched at creation.
type Adjustment struct {
	ID            string         `json:"id"`
	AdjustmentNo  string         `json:"adjustment_no"`
	ItemID        string         `json:"item_id"`
	ItemName      string         `json:"item_name"`
	WarehouseID   string         `json:"warehouse_id"`
	AdjustmentQty float64        `json:"adjustment_qty"`
	UOM           string         `json:"uom"`
	Reason        string         `json:"reason"`
	Status        ApprovalStatus `json:"status"`
	CreatedBy     string         `json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	ApprovedBy    string         `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time     `json:"approved_at,omitempty"`
}

// BalanceFilter narrows balance queries for reporting.
type BalanceFilter struct {
	ItemID      string
	WarehouseID string
}

var (
	ErrInsufficientStock = errors.New("stock: insufficient stock")
	ErrBalanceNotFound   = errors.New("stock: balance not found")
	ErrGRNNotFound       = errors.New("stock: grn not found")
	ErrInvalidQuantity   = errors.New("stock: quantity must be positive")
)
