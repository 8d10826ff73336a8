package category

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu         sync.Mutex
	categories map[string]Category
	itemCounts map[string]int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{categories: map[string]Category{}, itemCounts: map[string]int{}}
}

func (r *memoryRepo) GetCategory(ctx context.Context, id string) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	return c, nil
}

func (r *memoryRepo) ListCategories(ctx context.Context) ([]Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Category{}
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *memoryRepo) InsertCategory(ctx context.Context, c Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[c.ID] = c
	return nil
}

func (r *memoryRepo) UpdateCategory(ctx context.Context, c Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return ErrCategoryNotFound
	}
	r.categories[c.ID] = c
	return nil
}

func (r *memoryRepo) DeleteCategory(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *memoryRepo) SetParent(ctx context.Context, id string, parentID *string, level int, itemType, inventoryType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return ErrCategoryNotFound
	}
	c.ParentID = parentID
	c.Level = level
	c.ItemType = itemType
	c.InventoryType = inventoryType
	r.categories[id] = c
	return nil
}

func (r *memoryRepo) SetTypes(ctx context.Context, ids []string, itemType, inventoryType string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, id := range ids {
		c, ok := r.categories[id]
		if !ok {
			continue
		}
		c.ItemType = itemType
		c.InventoryType = inventoryType
		r.categories[id] = c
		updated++
	}
	return updated, nil
}

func (r *memoryRepo) CountItems(ctx context.Context, categoryID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.itemCounts[categoryID], nil
}

// seedTree builds:
//
//	Fabric (RM)
//	  Cotton (RM)
//	    Organic (RM)
//	Packing (PACKING)
func seedTree(t *testing.T, svc *Service) (fabric, cotton, organic, packing Category) {
	t.Helper()
	ctx := context.Background()
	var err error
	fabric, err = svc.Create(ctx, CreateInput{Code: "FAB", Name: "Fabric", ItemType: "RM"})
	require.NoError(t, err)
	cotton, err = svc.Create(ctx, CreateInput{Code: "COT", Name: "Cotton", ItemType: "RM", ParentID: &fabric.ID})
	require.NoError(t, err)
	organic, err = svc.Create(ctx, CreateInput{Code: "ORG", Name: "Organic", ItemType: "RM", ParentID: &cotton.ID})
	require.NoError(t, err)
	packing, err = svc.Create(ctx, CreateInput{Code: "PKG", Name: "Packing", ItemType: "PACKING"})
	require.NoError(t, err)
	return fabric, cotton, organic, packing
}

func TestCreateDerivesLevelFromParent(t *testing.T) {
	svc := NewService(newMemoryRepo())
	fabric, cotton, organic, _ := seedTree(t, svc)

	require.Equal(t, 0, fabric.Level)
	require.Equal(t, 1, cotton.Level)
	require.Equal(t, 2, organic.Level)
}

func TestMoveToDescendantFails(t *testing.T) {
	svc := NewService(newMemoryRepo())
	fabric, cotton, organic, _ := seedTree(t, svc)

	_, err := svc.Move(context.Background(), fabric.ID, &organic.ID)
	require.ErrorIs(t, err, ErrCircularReference)

	_, err = svc.Move(context.Background(), fabric.ID, &fabric.ID)
	require.ErrorIs(t, err, ErrCircularReference)

	// Tree unchanged after the rejected moves.
	got, err := svc.Get(context.Background(), fabric.ID)
	require.NoError(t, err)
	require.Nil(t, got.ParentID)
	require.Equal(t, 0, got.Level)

	got, err = svc.Get(context.Background(), cotton.ID)
	require.NoError(t, err)
	require.Equal(t, fabric.ID, *got.ParentID)
}

func TestMoveCascadesTypeToDescendants(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, cotton, organic, packing := seedTree(t, svc)

	result, err := svc.Move(context.Background(), cotton.ID, &packing.ID)
	require.NoError(t, err)
	require.Equal(t, 1, result.AffectedChildrenCount)
	require.Equal(t, "Packing > Cotton", result.CategoryPath)
	require.Contains(t, result.Message, "Fabric > Cotton")

	moved, err := svc.Get(context.Background(), cotton.ID)
	require.NoError(t, err)
	require.Equal(t, packing.ID, *moved.ParentID)
	require.Equal(t, 1, moved.Level)
	require.Equal(t, "PACKING", moved.ItemType)
	require.Equal(t, "PACKING", moved.InventoryType)

	child, err := svc.Get(context.Background(), organic.ID)
	require.NoError(t, err)
	require.Equal(t, "PACKING", child.ItemType)
	require.Equal(t, "PACKING", child.InventoryType)
}

func TestMoveToRoot(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, cotton, _, _ := seedTree(t, svc)

	result, err := svc.Move(context.Background(), cotton.ID, nil)
	require.NoError(t, err)
	require.Equal(t, "Root Level > Cotton", result.CategoryPath)

	moved, err := svc.Get(context.Background(), cotton.ID)
	require.NoError(t, err)
	require.Nil(t, moved.ParentID)
	require.Equal(t, 0, moved.Level)
	// Same type at the new parentless position, nothing cascades.
	require.Equal(t, "RM", moved.ItemType)
}

func TestMoveReportsItemCount(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	_, cotton, _, packing := seedTree(t, svc)
	repo.itemCounts[cotton.ID] = 7

	result, err := svc.Move(context.Background(), cotton.ID, &packing.ID)
	require.NoError(t, err)
	require.Equal(t, 7, result.ItemsCount)
}

func TestIsLeafIsComputed(t *testing.T) {
	svc := NewService(newMemoryRepo())
	fabric, cotton, organic, packing := seedTree(t, svc)
	ctx := context.Background()

	leaf, err := svc.IsLeaf(ctx, fabric.ID)
	require.NoError(t, err)
	require.False(t, leaf)

	leaf, err = svc.IsLeaf(ctx, organic.ID)
	require.NoError(t, err)
	require.True(t, leaf)

	// After moving Organic away, Cotton becomes a leaf with no stale flag.
	_, err = svc.Move(ctx, organic.ID, &packing.ID)
	require.NoError(t, err)

	leaf, err = svc.IsLeaf(ctx, cotton.ID)
	require.NoError(t, err)
	require.True(t, leaf)

	leaves, err := svc.ListLeaves(ctx)
	require.NoError(t, err)
	names := []string{}
	for _, l := range leaves {
		names = append(names, l.Name)
	}
	require.ElementsMatch(t, []string{"Cotton", "Organic"}, names)
}

func TestBulkSetTypeTouchesOnlyTypes(t *testing.T) {
	svc := NewService(newMemoryRepo())
	fabric, cotton, _, _ := seedTree(t, svc)
	ctx := context.Background()

	updated, err := svc.BulkSetType(ctx, []string{fabric.ID, cotton.ID, "missing"}, "CONSUMABLE")
	require.NoError(t, err)
	require.Equal(t, int64(2), updated)

	got, err := svc.Get(ctx, fabric.ID)
	require.NoError(t, err)
	require.Equal(t, "CONSUMABLE", got.ItemType)
	require.Equal(t, "CONSUMABLE", got.InventoryType)
	require.Equal(t, "Fabric", got.Name)
}

func TestDeleteDoesNotCascade(t *testing.T) {
	svc := NewService(newMemoryRepo())
	fabric, cotton, _, _ := seedTree(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, fabric.ID))

	_, err := svc.Get(ctx, fabric.ID)
	require.ErrorIs(t, err, ErrCategoryNotFound)

	orphan, err := svc.Get(ctx, cotton.ID)
	require.NoError(t, err)
	require.Equal(t, fabric.ID, *orphan.ParentID)
}

func TestPathWalksParents(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, _, organic, _ := seedTree(t, svc)

	path, err := svc.Path(context.Background(), organic.ID)
	require.NoError(t, err)
	require.Equal(t, "Fabric > Cotton > Organic", path)
}
