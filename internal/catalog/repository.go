package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists items in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const itemColumns = `id, item_code, item_name, item_type, category_id, category_name, description,
uom, purchase_uom, conversion_factor, brand, color, size, hsn, preferred_supplier_id,
reorder_level, min_stock, max_stock, last_purchase_rate, standard_cost, lead_time_days,
inspection_required, is_batch_controlled, is_serial_controlled, make_or_buy, is_component,
is_finished_good, issue_method, default_issue_warehouse, barcode, remarks, status, is_active,
created_at, updated_at`

func (r *Repository) GetItem(ctx context.Context, id string) (Item, error) {
	return r.queryOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id=$1`, id)
}

func (r *Repository) GetItemByCode(ctx context.Context, code string) (Item, error) {
	return r.queryOne(ctx, `SELECT `+itemColumns+` FROM items WHERE item_code=$1`, code)
}

func (r *Repository) ListItems(ctx context.Context) ([]Item, error) {
	return r.queryMany(ctx, `SELECT `+itemColumns+` FROM items ORDER BY item_code`)
}

func (r *Repository) ListByCategory(ctx context.Context, categoryID string) ([]Item, error) {
	return r.queryMany(ctx, `SELECT `+itemColumns+` FROM items WHERE category_id=$1 ORDER BY item_code`, categoryID)
}

func (r *Repository) ListByType(ctx context.Context, itemType string) ([]Item, error) {
	return r.queryMany(ctx, `SELECT `+itemColumns+` FROM items WHERE item_type=$1 AND is_active ORDER BY item_code`, itemType)
}

func (r *Repository) ListComponents(ctx context.Context) ([]Item, error) {
	return r.queryMany(ctx, `SELECT `+itemColumns+` FROM items WHERE is_component AND is_active ORDER BY item_code`)
}

func (r *Repository) ListFinishedGoods(ctx context.Context) ([]Item, error) {
	return r.queryMany(ctx, `SELECT `+itemColumns+` FROM items WHERE is_finished_good AND is_active ORDER BY item_code`)
}

func (r *Repository) Search(ctx context.Context, q, itemType, categoryID string, limit int) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE is_active AND (item_name ILIKE $1 OR item_code ILIKE $1)`
	args := []any{"%" + q + "%"}
	if itemType != "" {
		args = append(args, itemType)
		query += fmt.Sprintf(" AND item_type=$%d", len(args))
	}
	if categoryID != "" {
		args = append(args, categoryID)
		query += fmt.Sprintf(" AND category_id=$%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY item_code LIMIT $%d", len(args))
	return r.queryMany(ctx, query, args...)
}

func (r *Repository) NameExists(ctx context.Context, name, categoryID, excludeItemID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE item_name=$1 AND category_id=$2 AND ($3 = '' OR id <> $3))`,
		name, categoryID, excludeItemID).Scan(&exists)
	return exists, err
}

func (r *Repository) InsertItem(ctx context.Context, item Item) error {
	placeholders := make([]string, 35)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO items (`+itemColumns+`) VALUES (`+strings.Join(placeholders, ",")+`)`,
		itemArgs(item)...)
	return err
}

func (r *Repository) UpdateItem(ctx context.Context, item Item) error {
	tag, err := r.pool.Exec(ctx, `UPDATE items SET item_code=$2, item_name=$3, item_type=$4, category_id=$5,
category_name=$6, description=$7, uom=$8, purchase_uom=$9, conversion_factor=$10, brand=$11, color=$12,
size=$13, hsn=$14, preferred_supplier_id=$15, reorder_level=$16, min_stock=$17, max_stock=$18,
last_purchase_rate=$19, standard_cost=$20, lead_time_days=$21, inspection_required=$22,
is_batch_controlled=$23, is_serial_controlled=$24, make_or_buy=$25, is_component=$26,
is_finished_good=$27, issue_method=$28, default_issue_warehouse=$29, barcode=$30, remarks=$31,
status=$32, is_active=$33, updated_at=$34 WHERE id=$1`,
		item.ID, item.Code, item.Name, item.ItemType, item.CategoryID, item.CategoryName, item.Description,
		item.UOM, item.PurchaseUOM, item.Conversion, item.Brand, item.Color, item.Size, item.HSN,
		item.PreferredSupplierID, item.ReorderLevel, item.MinStock, item.MaxStock, item.LastPurchaseRate,
		item.StandardCost, item.LeadTimeDays, item.InspectionRequired, item.IsBatchControlled,
		item.IsSerialControlled, item.MakeOrBuy, item.IsComponent, item.IsFinishedGood, item.IssueMethod,
		item.DefaultIssueWarehouse, item.Barcode, item.Remarks, item.Status, item.IsActive, item.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *Repository) UpdateCost(ctx context.Context, id string, lastPurchaseRate, standardCost *float64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE items SET
last_purchase_rate = COALESCE($2, last_purchase_rate),
standard_cost = COALESCE($3, standard_cost),
updated_at = $4 WHERE id=$1`,
		id, lastPurchaseRate, standardCost, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *Repository) SumStock(ctx context.Context, itemID string) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(qty), 0) FROM stock_balance WHERE item_id=$1`, itemID).Scan(&total)
	return total, err
}

func (r *Repository) queryOne(ctx context.Context, query string, args ...any) (Item, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, err
	}
	return item, nil
}

func (r *Repository) queryMany(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func itemArgs(item Item) []any {
	return []any{
		item.ID, item.Code, item.Name, item.ItemType, item.CategoryID, item.CategoryName, item.Description,
		item.UOM, item.PurchaseUOM, item.Conversion, item.Brand, item.Color, item.Size, item.HSN,
		item.PreferredSupplierID, item.ReorderLevel, item.MinStock, item.MaxStock, item.LastPurchaseRate,
		item.StandardCost, item.LeadTimeDays, item.InspectionRequired, item.IsBatchControlled,
		item.IsSerialControlled, item.MakeOrBuy, item.IsComponent, item.IsFinishedGood, item.IssueMethod,
		item.DefaultIssueWarehouse, item.Barcode, item.Remarks, item.Status, item.IsActive,
		item.CreatedAt, item.UpdatedAt,
	}
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.Code, &item.Name, &item.ItemType, &item.CategoryID, &item.CategoryName,
		&item.Description, &item.UOM, &item.PurchaseUOM, &item.Conversion, &item.Brand, &item.Color,
		&item.Size, &item.HSN, &item.PreferredSupplierID, &item.ReorderLevel, &item.MinStock,
		&item.MaxStock, &item.LastPurchaseRate, &item.StandardCost, &item.LeadTimeDays,
		&item.InspectionRequired, &item.IsBatchControlled, &item.IsSerialControlled, &item.MakeOrBuy,
		&item.IsComponent, &item.IsFinishedGood, &item.IssueMethod, &item.DefaultIssueWarehouse,
		&item.Barcode, &item.Remarks, &item.Status, &item.IsActive, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}
