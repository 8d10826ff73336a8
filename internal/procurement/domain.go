package procurement

import (
	"errors"
	"time"
)

// Document statuses for indents and purchase orders.
const (
	StatusDraft    = "Draft"
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// IndentItem is one requested line on a purchase indent.
type IndentItem struct {
	ItemID       string     `json:"item_id"`
	ItemName     string     `json:"item_name"`
	Qty          float64    `json:"qty"`
	UOM          string     `json:"uom"`
	RequiredDate *time.Time `json:"required_date,omitempty"`
	Remarks      string     `json:"remarks,omitempty"`
}

// PurchaseIndent is a department's request for material.
type PurchaseIndent struct {
	ID          string       `json:"id"`
	IndentNo    string       `json:"indent_no"`
	Department  string       `json:"department"`
	RequestedBy string       `json:"requested_by"`
	Items       []IndentItem `json:"items"`
	Status      string       `json:"status"`
	Remarks     string       `json:"remarks,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// POItem is one ordered line. Amount is derived from qty, rate and tax.
type POItem struct {
	ItemID     string  `json:"item_id"`
	ItemName   string  `json:"item_name"`
	Qty        float64 `json:"qty"`
	UOM        string  `json:"uom"`
	Rate       float64 `json:"rate"`
	TaxPercent float64 `json:"tax_percent"`
	Amount     float64 `json:"amount"`
}

// PurchaseOrder is a priced order against a supplier. Totals are
// recomputed from the lines on every write; caller-supplied totals are
// ignored.
type PurchaseOrder struct {
	ID            string     `json:"id"`
	PONo          string     `json:"po_no"`
	IndentID      string     `json:"indent_id,omitempty"`
	SupplierID    string     `json:"supplier_id"`
	SupplierName  string     `json:"supplier_name"`
	Items         []POItem   `json:"items"`
	Subtotal      float64    `json:"subtotal"`
	TaxAmount     float64    `json:"tax_amount"`
	TotalAmount   float64    `json:"total_amount"`
	DeliveryDate  *time.Time `json:"delivery_date,omitempty"`
	PaymentTerms  string     `json:"payment_terms,omitempty"`
	Status        string     `json:"status"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	ApprovedBy    string     `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	ApprovalNotes string     `json:"approval_notes,omitempty"`
}

var (
	ErrIndentNotFound = errors.New("procurement: purchase indent not found")
	ErrPONotFound     = errors.New("procurement: purchase order not found")
	ErrNoLines        = errors.New("procurement: document needs at least one line")
	ErrNotApprovable  = errors.New("procurement: order is not awaiting approval")
)
