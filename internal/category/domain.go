package category

import (
	"errors"
	"time"
)

// Category is one node of the item-category forest. ParentID is nil for
// roots. Level is 0 for roots and parent.Level+1 otherwise. ItemType and
// InventoryType always move together.
type Category struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"category_name"`
	ParentID      *string   `json:"parent_category"`
	ItemType      string    `json:"item_type"`
	ShortCode     string    `json:"category_short_code"`
	InventoryType string    `json:"inventory_type"`
	DefaultUOM    string    `json:"default_uom"`
	AllowedUOMs   []string  `json:"allowed_uoms"`
	DefaultHSN    string    `json:"default_hsn,omitempty"`
	AllowPurchase bool      `json:"allow_purchase"`
	AllowIssue    bool      `json:"allow_issue"`
	Status        string    `json:"status"`
	Level         int       `json:"level"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// CategoryWithLeaf decorates a node with its computed leaf flag. The
// flag is derived from parent references at read time, never stored.
type CategoryWithLeaf struct {
	Category
	IsLeaf bool `json:"is_leaf"`
}

// MoveResult reports the impact of re-parenting a subtree.
type MoveResult struct {
	Message               string `json:"message"`
	AffectedChildrenCount int    `json:"affected_children_count"`
	ItemsCount            int    `json:"items_count"`
	CategoryPath          string `json:"category_path"`
}

var (
	ErrCategoryNotFound  = errors.New("category: not found")
	ErrParentNotFound    = errors.New("category: new parent not found")
	ErrCircularReference = errors.New("category: move would create a circular reference")
)
