package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stitchline-erp/stitchline/internal/category"
)

// RepositoryPort abstracts item persistence.
type RepositoryPort interface {
	GetItem(ctx context.Context, id string) (Item, error)
	GetItemByCode(ctx context.Context, code string) (Item, error)
	ListItems(ctx context.Context) ([]Item, error)
	ListByCategory(ctx context.Context, categoryID string) ([]Item, error)
	ListByType(ctx context.Context, itemType string) ([]Item, error)
	ListComponents(ctx context.Context) ([]Item, error)
	ListFinishedGoods(ctx context.Context) ([]Item, error)
	Search(ctx context.Context, q, itemType, categoryID string, limit int) ([]Item, error)
	NameExists(ctx context.Context, name, categoryID, excludeItemID string) (bool, error)
	InsertItem(ctx context.Context, item Item) error
	UpdateItem(ctx context.Context, item Item) error
	UpdateCost(ctx context.Context, id string, lastPurchaseRate, standardCost *float64) error
	DeleteItem(ctx context.Context, id string) error
	SumStock(ctx context.Context, itemID string) (float64, error)
}

// CategoryPort is the slice of the category tree the catalog reads to
// derive codes and denormalized fields.
type CategoryPort interface {
	Get(ctx context.Context, id string) (category.Category, error)
}

// CounterPort issues the per-category running numbers for item codes.
type CounterPort interface {
	NextCounter(ctx context.Context, key string) (int64, error)
	PeekCounter(ctx context.Context, key string) (int64, error)
}

// Service implements the item catalog.
type Service struct {
	repo       RepositoryPort
	categories CategoryPort
	counters   CounterPort
}

// NewService builds Service.
func NewService(repo RepositoryPort, categories CategoryPort, counters CounterPort) *Service {
	return &Service{repo: repo, categories: categories, counters: counters}
}

// Create inserts an item. A missing code or the AUTO sentinel triggers
// generation; item type and category name are stamped from the current
// category state.
func (s *Service) Create(ctx context.Context, item Item) (Item, error) {
	if strings.TrimSpace(item.Code) == "" || strings.EqualFold(item.Code, AutoCode) {
		code, err := s.GenerateCode(ctx, item.CategoryID)
		if err != nil {
			return Item{}, err
		}
		item.Code = code
	}
	if err := s.stampFromCategory(ctx, &item); err != nil {
		return Item{}, err
	}
	exists, err := s.repo.NameExists(ctx, item.Name, item.CategoryID, "")
	if err != nil {
		return Item{}, err
	}
	if exists {
		return Item{}, ErrDuplicateName
	}

	item.ID = uuid.NewString()
	if item.Conversion == 0 {
		item.Conversion = 1.0
	}
	if item.MakeOrBuy == "" {
		item.MakeOrBuy = "BUY"
	}
	if item.IssueMethod == "" {
		item.IssueMethod = "FIFO"
	}
	item.Status = "Active"
	item.IsActive = true
	item.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertItem(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Update replaces an item. Item type and category name are re-derived
// from the referenced category on every update, not just on create.
func (s *Service) Update(ctx context.Context, id string, item Item) (Item, error) {
	existing, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if err := s.stampFromCategory(ctx, &item); err != nil {
		return Item{}, err
	}
	exists, err := s.repo.NameExists(ctx, item.Name, item.CategoryID, id)
	if err != nil {
		return Item{}, err
	}
	if exists {
		return Item{}, ErrDuplicateName
	}

	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	now := time.Now().UTC()
	item.UpdatedAt = &now
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// UpdateCost sets purchase cost fields after a goods receipt.
func (s *Service) UpdateCost(ctx context.Context, id string, lastPurchaseRate, standardCost *float64) error {
	if lastPurchaseRate == nil && standardCost == nil {
		return nil
	}
	return s.repo.UpdateCost(ctx, id, lastPurchaseRate, standardCost)
}

// GenerateCode atomically consumes the category's running number and
// formats the item code as TYPE-SHORTCODE-0001.
func (s *Service) GenerateCode(ctx context.Context, categoryID string) (string, error) {
	cat, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return "", err
	}
	number, err := s.counters.NextCounter(ctx, counterKey(categoryID))
	if err != nil {
		return "", err
	}
	return formatCode(cat, number), nil
}

// PreviewCode returns the code GenerateCode would produce next without
// consuming the running number.
func (s *Service) PreviewCode(ctx context.Context, categoryID string) (CodePreview, error) {
	cat, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return CodePreview{}, err
	}
	number, err := s.counters.PeekCounter(ctx, counterKey(categoryID))
	if err != nil {
		return CodePreview{}, err
	}
	return CodePreview{
		PreviewCode:       formatCode(cat, number),
		ItemType:          cat.ItemType,
		TypeCode:          TypeCode(cat.ItemType),
		CategoryShortCode: shortCode(cat),
		RunningNumber:     number,
	}, nil
}

// ValidateName runs the name-unique-within-category query. ExcludeID
// lets an update skip the item being edited.
func (s *Service) ValidateName(ctx context.Context, name, categoryID, excludeID string) (NameCheck, error) {
	exists, err := s.repo.NameExists(ctx, name, categoryID, excludeID)
	if err != nil {
		return NameCheck{}, err
	}
	message := "Item name is unique"
	if exists {
		message = "Item name already exists in this category"
	}
	return NameCheck{IsUnique: !exists, Exists: exists, Message: message}, nil
}

// Get returns one item by id.
func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	return s.repo.GetItem(ctx, id)
}

// GetByCode returns one item by its unique code.
func (s *Service) GetByCode(ctx context.Context, code string) (Item, error) {
	return s.repo.GetItemByCode(ctx, code)
}

// List returns all items.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.ListItems(ctx)
}

// ListByCategory returns the items filed under a category.
func (s *Service) ListByCategory(ctx context.Context, categoryID string) ([]Item, error) {
	return s.repo.ListByCategory(ctx, categoryID)
}

// ListByType returns active items of one declared type.
func (s *Service) ListByType(ctx context.Context, itemType string) ([]Item, error) {
	return s.repo.ListByType(ctx, itemType)
}

// ListComponents returns active items usable as BOM components.
func (s *Service) ListComponents(ctx context.Context) ([]Item, error) {
	return s.repo.ListComponents(ctx)
}

// ListFinishedGoods returns active finished good items.
func (s *Service) ListFinishedGoods(ctx context.Context) ([]Item, error) {
	return s.repo.ListFinishedGoods(ctx)
}

// Search matches active items by name or code substring, optionally
// narrowed by type and category.
func (s *Service) Search(ctx context.Context, q, itemType, categoryID string, limit int) ([]Item, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.Search(ctx, q, itemType, categoryID, limit)
}

// LowStock returns active items whose total balance across warehouses
// is at or below their reorder level, with the computed shortage.
func (s *Service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	low := []LowStockItem{}
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		current, err := s.repo.SumStock(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if current <= item.ReorderLevel {
			low = append(low, LowStockItem{
				Item:         item,
				CurrentStock: current,
				Shortage:     item.ReorderLevel - current,
			})
		}
	}
	return low, nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteItem(ctx, id)
}

// stampFromCategory overwrites the denormalized type and name fields
// from the current category. A missing category leaves them untouched.
func (s *Service) stampFromCategory(ctx context.Context, item *Item) error {
	cat, err := s.categories.Get(ctx, item.CategoryID)
	if err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			return nil
		}
		return err
	}
	item.ItemType = cat.ItemType
	item.CategoryName = cat.Name
	return nil
}

func counterKey(categoryID string) string {
	return "item_code_" + categoryID
}

func formatCode(cat category.Category, number int64) string {
	return fmt.Sprintf("%s-%s-%04d", TypeCode(cat.ItemType), shortCode(cat), number)
}

func shortCode(cat category.Category) string {
	if cat.ShortCode != "" {
		return cat.ShortCode
	}
	if cat.Code != "" {
		return cat.Code
	}
	return "GEN"
}
