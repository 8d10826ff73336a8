package catalog

import (
	"errors"
	"time"
)

// Item is the master record for a stocked article. ItemType and
// CategoryName are denormalized from the category and re-derived on
// every write; the item is never the source of truth for its own type.
type Item struct {
	ID           string  `json:"id"`
	Code         string  `json:"item_code"`
	Name         string  `json:"item_name"`
	ItemType     string  `json:"item_type"`
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Description  string  `json:"description,omitempty"`
	UOM          string  `json:"uom"`
	PurchaseUOM  string  `json:"purchase_uom,omitempty"`
	Conversion   float64 `json:"conversion_factor"`

	Brand string `json:"brand,omitempty"`
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`

	HSN                 string  `json:"hsn,omitempty"`
	PreferredSupplierID string  `json:"preferred_supplier_id,omitempty"`
	ReorderLevel        float64 `json:"reorder_level"`
	MinStock            float64 `json:"min_stock"`
	MaxStock            float64 `json:"max_stock"`

	LastPurchaseRate *float64 `json:"last_purchase_rate,omitempty"`
	StandardCost     *float64 `json:"standard_cost,omitempty"`
	LeadTimeDays     *int     `json:"lead_time_days,omitempty"`

	InspectionRequired bool `json:"inspection_required"`
	IsBatchControlled  bool `json:"is_batch_controlled"`
	IsSerialControlled bool `json:"is_serial_controlled"`

	MakeOrBuy      string `json:"make_or_buy"`
	IsComponent    bool   `json:"is_component"`
	IsFinishedGood bool   `json:"is_finished_good"`

	IssueMethod           string `json:"issue_method"`
	DefaultIssueWarehouse string `json:"default_issue_warehouse,omitempty"`

	Barcode string `json:"barcode,omitempty"`
	Remarks string `json:"remarks,omitempty"`

	Status    string     `json:"status"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// LowStockItem is an item whose total stock across warehouses has
// fallen to or below its reorder level.
type LowStockItem struct {
	Item
	CurrentStock float64 `json:"current_stock"`
	Shortage     float64 `json:"shortage"`
}

// CodePreview shows the next item code for a category without
// consuming the running number.
type CodePreview struct {
	PreviewCode       string `json:"preview_code"`
	ItemType          string `json:"item_type"`
	TypeCode          string `json:"type_code"`
	CategoryShortCode string `json:"category_short_code"`
	RunningNumber     int64  `json:"running_number"`
}

// NameCheck is the result of the name-unique-within-category query.
type NameCheck struct {
	IsUnique bool   `json:"is_unique"`
	Exists   bool   `json:"exists"`
	Message  string `json:"message"`
}

var (
	ErrItemNotFound  = errors.New("catalog: item not found")
	ErrDuplicateName = errors.New("catalog: item name already exists in this category")
)

// AutoCode is the sentinel item code that requests generation.
const AutoCode = "AUTO"

var typeCodes = map[string]string{
	"FABRIC":     "FAB",
	"RM":         "RM",
	"FG":         "FG",
	"PACKING":    "PKG",
	"CONSUMABLE": "CNS",
	"GENERAL":    "GEN",
	"ACCESSORY":  "ACC",
}

// TypeCode maps a declared item type to its code prefix. Unknown types
// fall back to GEN.
func TypeCode(itemType string) string {
	if code, ok := typeCodes[itemType]; ok {
		return code
	}
	return "GEN"
}
