package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stitchline-erp/stitchline/internal/category"
)

type memoryRepo struct {
	mu     sync.Mutex
	items  map[string]Item
	stocks map[string]float64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]Item{}, stocks: map[string]float64{}}
}

func (r *memoryRepo) GetItem(ctx context.Context, id string) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return item, nil
}

func (r *memoryRepo) GetItemByCode(ctx context.Context, code string) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Code == code {
			return item, nil
		}
	}
	return Item{}, ErrItemNotFound
}

func (r *memoryRepo) ListItems(ctx context.Context) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Item{}
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *memoryRepo) ListByCategory(ctx context.Context, categoryID string) ([]Item, error) {
	all, _ := r.ListItems(ctx)
	out := []Item{}
	for _, item := range all {
		if item.CategoryID == categoryID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListByType(ctx context.Context, itemType string) ([]Item, error) {
	all, _ := r.ListItems(ctx)
	out := []Item{}
	for _, item := range all {
		if item.ItemType == itemType && item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListComponents(ctx context.Context) ([]Item, error) {
	all, _ := r.ListItems(ctx)
	out := []Item{}
	for _, item := range all {
		if item.IsComponent && item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListFinishedGoods(ctx context.Context) ([]Item, error) {
	all, _ := r.ListItems(ctx)
	out := []Item{}
	for _, item := range all {
		if item.IsFinishedGood && item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memoryRepo) Search(ctx context.Context, q, itemType, categoryID string, limit int) ([]Item, error) {
	all, _ := r.ListItems(ctx)
	out := []Item{}
	for _, item := range all {
		if len(out) == limit {
			break
		}
		if item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memoryRepo) NameExists(ctx context.Context, name, categoryID, excludeItemID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Name == name && item.CategoryID == categoryID && item.ID != excludeItemID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) InsertItem(ctx context.Context, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *memoryRepo) UpdateItem(ctx context.Context, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return ErrItemNotFound
	}
	r.items[item.ID] = item
	return nil
}

func (r *memoryRepo) UpdateCost(ctx context.Context, id string, lastPurchaseRate, standardCost *float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return ErrItemNotFound
	}
	if lastPurchaseRate != nil {
		item.LastPurchaseRate = lastPurchaseRate
	}
	if standardCost != nil {
		item.StandardCost = standardCost
	}
	r.items[id] = item
	return nil
}

func (r *memoryRepo) DeleteItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRepo) SumStock(ctx context.Context, itemID string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stocks[itemID], nil
}

type memoryCategories struct {
	categories map[string]category.Category
}

func (c *memoryCategories) Get(ctx context.Context, id string) (category.Category, error) {
	cat, ok := c.categories[id]
	if !ok {
		return category.Category{}, category.ErrCategoryNotFound
	}
	return cat, nil
}

type memoryCounters struct {
	mu     sync.Mutex
	values map[string]int64
}

func (c *memoryCounters) NextCounter(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key]++
	return c.values[key], nil
}

func (c *memoryCounters) PeekCounter(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key] + 1, nil
}

func newFixture() (*Service, *memoryRepo, *memoryCategories) {
	repo := newMemoryRepo()
	cats := &memoryCategories{categories: map[string]category.Category{
		"cat-labels": {ID: "cat-labels", Name: "Labels", ItemType: "RM", ShortCode: "LBL"},
		"cat-thread": {ID: "cat-thread", Name: "Thread", ItemType: "CONSUMABLE", Code: "THR"},
		"cat-odd":    {ID: "cat-odd", Name: "Odd", ItemType: "SPARES"},
	}}
	svc := NewService(repo, cats, &memoryCounters{values: map[string]int64{}})
	return svc, repo, cats
}

func TestCreateGeneratesCodeForAutoSentinel(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	item, err := svc.Create(ctx, Item{Code: "AUTO", Name: "Woven Label", CategoryID: "cat-labels", UOM: "PCS"})
	require.NoError(t, err)
	require.Equal(t, "RM-LBL-0001", item.Code)
	require.Equal(t, "RM", item.ItemType)
	require.Equal(t, "Labels", item.CategoryName)

	item, err = svc.Create(ctx, Item{Name: "Printed Label", CategoryID: "cat-labels", UOM: "PCS"})
	require.NoError(t, err)
	require.Equal(t, "RM-LBL-0002", item.Code)
}

func TestCreateKeepsCallerSuppliedCode(t *testing.T) {
	svc, _, _ := newFixture()

	item, err := svc.Create(context.Background(), Item{Code: "LBL-CUSTOM-1", Name: "Care Label", CategoryID: "cat-labels", UOM: "PCS"})
	require.NoError(t, err)
	require.Equal(t, "LBL-CUSTOM-1", item.Code)
}

func TestPreviewDoesNotConsumeRunningNumber(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	preview, err := svc.PreviewCode(ctx, "cat-labels")
	require.NoError(t, err)
	require.Equal(t, "RM-LBL-0001", preview.PreviewCode)
	require.Equal(t, "RM", preview.TypeCode)
	require.Equal(t, "LBL", preview.CategoryShortCode)
	require.Equal(t, int64(1), preview.RunningNumber)

	code, err := svc.GenerateCode(ctx, "cat-labels")
	require.NoError(t, err)
	require.Equal(t, preview.PreviewCode, code)

	preview, err = svc.PreviewCode(ctx, "cat-labels")
	require.NoError(t, err)
	require.Equal(t, "RM-LBL-0002", preview.PreviewCode)
}

func TestCodeFallsBackToCategoryCodeAndGenType(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	// ShortCode empty, category code used instead.
	code, err := svc.GenerateCode(ctx, "cat-thread")
	require.NoError(t, err)
	require.Equal(t, "CNS-THR-0001", code)

	// Unknown item type maps to GEN, and with neither short code nor
	// code the segment falls back to GEN too.
	code, err = svc.GenerateCode(ctx, "cat-odd")
	require.NoError(t, err)
	require.Equal(t, "GEN-GEN-0001", code)
}

func TestGenerateCodeUnknownCategory(t *testing.T) {
	svc, _, _ := newFixture()
	_, err := svc.GenerateCode(context.Background(), "missing")
	require.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestDuplicateNameWithinCategoryRejected(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, Item{Name: "Woven Label", CategoryID: "cat-labels", UOM: "PCS"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Item{Name: "Woven Label", CategoryID: "cat-labels", UOM: "PCS"})
	require.ErrorIs(t, err, ErrDuplicateName)

	// Same name in another category is fine.
	_, err = svc.Create(ctx, Item{Name: "Woven Label", CategoryID: "cat-thread", UOM: "PCS"})
	require.NoError(t, err)
}

func TestUpdateRestampsTypeFromCategory(t *testing.T) {
	svc, _, cats := newFixture()
	ctx := context.Background()

	item, err := svc.Create(ctx, Item{Name: "Woven Label", CategoryID: "cat-labels", UOM: "PCS"})
	require.NoError(t, err)
	require.Equal(t, "RM", item.ItemType)

	// Category type changes, the next update re-derives the item's type.
	cat := cats.categories["cat-labels"]
	cat.ItemType = "PACKING"
	cat.Name = "Packing Labels"
	cats.categories["cat-labels"] = cat

	item.ItemType = "FG" // caller-supplied type is never trusted
	updated, err := svc.Update(ctx, item.ID, item)
	require.NoError(t, err)
	require.Equal(t, "PACKING", updated.ItemType)
	require.Equal(t, "Packing Labels", updated.CategoryName)
	require.NotNil(t, updated.UpdatedAt)
}

func TestValidateNameExcludesItemBeingEdited(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	item, err := svc.Create(ctx, Item{Name: "Woven Label", CategoryID: "cat-labels", UOM: "PCS"})
	require.NoError(t, err)

	check, err := svc.ValidateName(ctx, "Woven Label", "cat-labels", "")
	require.NoError(t, err)
	require.False(t, check.IsUnique)

	check, err = svc.ValidateName(ctx, "Woven Label", "cat-labels", item.ID)
	require.NoError(t, err)
	require.True(t, check.IsUnique)
}

func TestUpdateCost(t *testing.T) {
	svc, repo, _ := newFixture()
	ctx := context.Background()

	item, err := svc.Create(ctx, Item{Name: "Thread Cone", CategoryID: "cat-thread", UOM: "PCS"})
	require.NoError(t, err)

	rate := 42.5
	require.NoError(t, svc.UpdateCost(ctx, item.ID, &rate, nil))

	got := repo.items[item.ID]
	require.NotNil(t, got.LastPurchaseRate)
	require.Equal(t, 42.5, *got.LastPurchaseRate)
	require.Nil(t, got.StandardCost)
}

func TestLowStockComputesShortage(t *testing.T) {
	svc, repo, _ := newFixture()
	ctx := context.Background()

	item, err := svc.Create(ctx, Item{Name: "Needle", CategoryID: "cat-thread", UOM: "PCS", ReorderLevel: 100})
	require.NoError(t, err)
	healthy, err := svc.Create(ctx, Item{Name: "Bobbin", CategoryID: "cat-thread", UOM: "PCS", ReorderLevel: 10})
	require.NoError(t, err)

	repo.stocks[item.ID] = 40
	repo.stocks[healthy.ID] = 500

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, item.ID, low[0].ID)
	require.Equal(t, 40.0, low[0].CurrentStock)
	require.Equal(t, 60.0, low[0].Shortage)
}

func TestTypeCodeMapping(t *testing.T) {
	require.Equal(t, "FAB", TypeCode("FABRIC"))
	require.Equal(t, "RM", TypeCode("RM"))
	require.Equal(t, "FG", TypeCode("FG"))
	require.Equal(t, "PKG", TypeCode("PACKING"))
	require.Equal(t, "CNS", TypeCode("CONSUMABLE"))
	require.Equal(t, "GEN", TypeCode("GENERAL"))
	require.Equal(t, "ACC", TypeCode("ACCESSORY"))
	require.Equal(t, "GEN", TypeCode("anything else"))
}
