package category

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort abstracts category persistence. SetParent and SetTypes
// are the only writes that touch shared tree structure; everything else
// is plain row CRUD.
type RepositoryPort interface {
	GetCategory(ctx context.Context, id string) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	InsertCategory(ctx context.Context, c Category) error
	UpdateCategory(ctx context.Context, c Category) error
	DeleteCategory(ctx context.Context, id string) error
	SetParent(ctx context.Context, id string, parentID *string, level int, itemType, inventoryType string) error
	SetTypes(ctx context.Context, ids []string, itemType, inventoryType string) (int64, error)
	CountItems(ctx context.Context, categoryID string) (int, error)
}

// Service implements the category tree operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the admin-supplied category fields.
type CreateInput struct {
	Code          string
	Name          string
	ParentID      *string
	ItemType      string
	ShortCode     string
	InventoryType string
	DefaultUOM    string
	AllowedUOMs   []string
	DefaultHSN    string
	AllowPurchase bool
	AllowIssue    bool
}

// Create inserts a category. Level is derived from the parent, never
// trusted from the caller.
func (s *Service) Create(ctx context.Context, in CreateInput) (Category, error) {
	level := 0
	if in.ParentID != nil && *in.ParentID != "" {
		parent, err := s.repo.GetCategory(ctx, *in.ParentID)
		if err != nil {
			return Category{}, err
		}
		level = parent.Level + 1
	} else {
		in.ParentID = nil
	}

	c := Category{
		ID:            uuid.NewString(),
		Code:          in.Code,
		Name:          in.Name,
		ParentID:      in.ParentID,
		ItemType:      defaultString(in.ItemType, "RM"),
		ShortCode:     in.ShortCode,
		InventoryType: defaultString(in.InventoryType, "RM"),
		DefaultUOM:    defaultString(in.DefaultUOM, "PCS"),
		AllowedUOMs:   in.AllowedUOMs,
		DefaultHSN:    in.DefaultHSN,
		AllowPurchase: in.AllowPurchase,
		AllowIssue:    in.AllowIssue,
		Status:        "Active",
		Level:         level,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.InsertCategory(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// Update replaces content fields of an existing category. Re-parenting
// goes through Move, not here.
func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	c.Code = in.Code
	c.Name = in.Name
	c.ItemType = defaultString(in.ItemType, c.ItemType)
	c.ShortCode = in.ShortCode
	c.InventoryType = defaultString(in.InventoryType, c.InventoryType)
	c.DefaultUOM = defaultString(in.DefaultUOM, c.DefaultUOM)
	c.AllowedUOMs = in.AllowedUOMs
	c.DefaultHSN = in.DefaultHSN
	c.AllowPurchase = in.AllowPurchase
	c.AllowIssue = in.AllowIssue
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// Get returns one category.
func (s *Service) Get(ctx context.Context, id string) (Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// List returns every category.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// ListWithLeaf returns every category decorated with its computed leaf
// flag: a node is a leaf iff no other node points at it as parent.
func (s *Service) ListWithLeaf(ctx context.Context) ([]CategoryWithLeaf, error) {
	all, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	parentIDs := map[string]struct{}{}
	for _, c := range all {
		if c.ParentID != nil {
			parentIDs[*c.ParentID] = struct{}{}
		}
	}
	out := make([]CategoryWithLeaf, 0, len(all))
	for _, c := range all {
		_, hasChildren := parentIDs[c.ID]
		out = append(out, CategoryWithLeaf{Category: c, IsLeaf: !hasChildren})
	}
	return out, nil
}

// ListLeaves returns only the leaf categories.
func (s *Service) ListLeaves(ctx context.Context) ([]CategoryWithLeaf, error) {
	all, err := s.ListWithLeaf(ctx)
	if err != nil {
		return nil, err
	}
	leaves := []CategoryWithLeaf{}
	for _, c := range all {
		if c.IsLeaf {
			leaves = append(leaves, c)
		}
	}
	return leaves, nil
}

// IsLeaf reports whether the category has no children.
func (s *Service) IsLeaf(ctx context.Context, id string) (bool, error) {
	if _, err := s.repo.GetCategory(ctx, id); err != nil {
		return false, err
	}
	all, err := s.repo.ListCategories(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range all {
		if c.ParentID != nil && *c.ParentID == id {
			return false, nil
		}
	}
	return true, nil
}

// Move re-parents a subtree. The full descendant set is computed first;
// moving under a descendant or under itself is rejected and the tree is
// left untouched. The node takes the new parent's item type, and when
// that differs from its previous type the new type cascades to every
// descendant. Item type and inventory type always change together.
func (s *Service) Move(ctx context.Context, categoryID string, newParentID *string) (MoveResult, error) {
	node, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return MoveResult{}, err
	}
	all, err := s.repo.ListCategories(ctx)
	if err != nil {
		return MoveResult{}, err
	}

	descendants := descendantIDs(categoryID, all)
	if newParentID != nil && *newParentID != "" {
		if *newParentID == categoryID {
			return MoveResult{}, fmt.Errorf("%w: cannot move a category under itself", ErrCircularReference)
		}
		for _, id := range descendants {
			if id == *newParentID {
				return MoveResult{}, fmt.Errorf("%w: cannot move a category under its own descendant", ErrCircularReference)
			}
		}
	} else {
		newParentID = nil
	}

	newType := node.ItemType
	newLevel := 0
	newParentName := "Root Level"
	if newParentID != nil {
		parent, err := s.repo.GetCategory(ctx, *newParentID)
		if err != nil {
			return MoveResult{}, fmt.Errorf("%w: %s", ErrParentNotFound, *newParentID)
		}
		newType = parent.ItemType
		newLevel = parent.Level + 1
		newParentName = parent.Name
	}

	itemsCount, err := s.repo.CountItems(ctx, categoryID)
	if err != nil {
		return MoveResult{}, err
	}

	oldPath := buildPath(categoryID, all)
	newPath := fmt.Sprintf("%s > %s", newParentName, node.Name)

	if err := s.repo.SetParent(ctx, categoryID, newParentID, newLevel, newType, newType); err != nil {
		return MoveResult{}, err
	}
	if len(descendants) > 0 && newType != node.ItemType {
		if _, err := s.repo.SetTypes(ctx, descendants, newType, newType); err != nil {
			return MoveResult{}, err
		}
	}

	return MoveResult{
		Message:               fmt.Sprintf("Category moved successfully from '%s' to '%s'", oldPath, newPath),
		AffectedChildrenCount: len(descendants),
		ItemsCount:            itemsCount,
		CategoryPath:          newPath,
	}, nil
}

// BulkSetType sets the item type (and mirrored inventory type) of the
// given categories without touching their other fields.
func (s *Service) BulkSetType(ctx context.Context, ids []string, itemType string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.SetTypes(ctx, ids, itemType, itemType)
}

// Delete removes a single category. Children and items are not touched.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}

// Path renders the "A > B > C" breadcrumb for a category by walking
// parent references up to the root.
func (s *Service) Path(ctx context.Context, id string) (string, error) {
	all, err := s.repo.ListCategories(ctx)
	if err != nil {
		return "", err
	}
	path := buildPath(id, all)
	if path == "" {
		return "", ErrCategoryNotFound
	}
	return path, nil
}

func descendantIDs(id string, all []Category) []string {
	children := map[string][]string{}
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}
	var out []string
	var walk func(string)
	walk = func(parent string) {
		for _, child := range children[parent] {
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)
	return out
}

func buildPath(id string, all []Category) string {
	byID := map[string]Category{}
	for _, c := range all {
		byID[c.ID] = c
	}
	var segments []string
	cur, ok := byID[id]
	for ok {
		segments = append([]string{cur.Name}, segments...)
		if cur.ParentID == nil {
			break
		}
		cur, ok = byID[*cur.ParentID]
	}
	return strings.Join(segments, " > ")
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
