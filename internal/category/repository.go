package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists categories in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const categoryColumns = `id, code, name, parent_category, item_type, category_short_code, inventory_type,
default_uom, allowed_uoms, default_hsn, allow_purchase, allow_issue, status, level, is_active, created_at`

func (r *Repository) GetCategory(ctx context.Context, id string) (Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM item_categories WHERE id=$1`, id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM item_categories ORDER BY level, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	categories := []Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *Repository) InsertCategory(ctx context.Context, c Category) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO item_categories (`+categoryColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		c.ID, c.Code, c.Name, c.ParentID, c.ItemType, c.ShortCode, c.InventoryType,
		c.DefaultUOM, c.AllowedUOMs, c.DefaultHSN, c.AllowPurchase, c.AllowIssue,
		c.Status, c.Level, c.IsActive, c.CreatedAt)
	return err
}

func (r *Repository) UpdateCategory(ctx context.Context, c Category) error {
	tag, err := r.pool.Exec(ctx, `UPDATE item_categories SET code=$2, name=$3, item_type=$4,
category_short_code=$5, inventory_type=$6, default_uom=$7, allowed_uoms=$8, default_hsn=$9,
allow_purchase=$10, allow_issue=$11, status=$12, is_active=$13 WHERE id=$1`,
		c.ID, c.Code, c.Name, c.ItemType, c.ShortCode, c.InventoryType, c.DefaultUOM,
		c.AllowedUOMs, c.DefaultHSN, c.AllowPurchase, c.AllowIssue, c.Status, c.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM item_categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) SetParent(ctx context.Context, id string, parentID *string, level int, itemType, inventoryType string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE item_categories SET parent_category=$2, level=$3, item_type=$4, inventory_type=$5 WHERE id=$1`,
		id, parentID, level, itemType, inventoryType)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) SetTypes(ctx context.Context, ids []string, itemType, inventoryType string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE item_categories SET item_type=$2, inventory_type=$3 WHERE id = ANY($1)`,
		ids, itemType, inventoryType)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) CountItems(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items WHERE category_id=$1`, categoryID).Scan(&count)
	return count, err
}

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.ParentID, &c.ItemType, &c.ShortCode, &c.InventoryType,
		&c.DefaultUOM, &c.AllowedUOMs, &c.DefaultHSN, &c.AllowPurchase, &c.AllowIssue,
		&c.Status, &c.Level, &c.IsActive, &c.CreatedAt)
	return c, err
}
