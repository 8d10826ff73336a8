package procurement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists procurement documents in PostgreSQL. Line items
// live in a jsonb column; documents are small and always read whole.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const indentColumns = `id, indent_no, department, requested_by, items, status, remarks, created_at`

func (r *Repository) InsertIndent(ctx context.Context, indent PurchaseIndent) error {
	items, err := json.Marshal(indent.Items)
	if err != nil {
		return fmt.Errorf("marshal indent items: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO purchase_indents (`+indentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		indent.ID, indent.IndentNo, indent.Department, indent.RequestedBy,
		items, indent.Status, indent.Remarks, indent.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase indent: %w", err)
	}
	return nil
}

func (r *Repository) ListIndents(ctx context.Context) ([]PurchaseIndent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+indentColumns+`
		FROM purchase_indents
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list purchase indents: %w", err)
	}
	defer rows.Close()

	indents := []PurchaseIndent{}
	for rows.Next() {
		indent, err := scanIndent(rows)
		if err != nil {
			return nil, err
		}
		indents = append(indents, indent)
	}
	return indents, rows.Err()
}

func (r *Repository) GetIndent(ctx context.Context, id string) (PurchaseIndent, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+indentColumns+`
		FROM purchase_indents
		WHERE id = $1`, id)
	indent, err := scanIndent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseIndent{}, ErrIndentNotFound
		}
		return PurchaseIndent{}, err
	}
	return indent, nil
}

func scanIndent(row pgx.Row) (PurchaseIndent, error) {
	var indent PurchaseIndent
	var items []byte
	err := row.Scan(
		&indent.ID, &indent.IndentNo, &indent.Department, &indent.RequestedBy,
		&items, &indent.Status, &indent.Remarks, &indent.CreatedAt,
	)
	if err != nil {
		return PurchaseIndent{}, err
	}
	if err := json.Unmarshal(items, &indent.Items); err != nil {
		return PurchaseIndent{}, fmt.Errorf("unmarshal indent items: %w", err)
	}
	return indent, nil
}

const poColumns = `id, po_no, indent_id, supplier_id, supplier_name, items, subtotal,
	tax_amount, total_amount, delivery_date, payment_terms, status, created_by,
	created_at, approved_by, approved_at, approval_notes`

func (r *Repository) InsertPO(ctx context.Context, po PurchaseOrder) error {
	items, err := json.Marshal(po.Items)
	if err != nil {
		return fmt.Errorf("marshal po items: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO purchase_orders (`+poColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		po.ID, po.PONo, po.IndentID, po.SupplierID, po.SupplierName, items,
		po.Subtotal, po.TaxAmount, po.TotalAmount, po.DeliveryDate, po.PaymentTerms,
		po.Status, po.CreatedBy, po.CreatedAt, po.ApprovedBy, po.ApprovedAt, po.ApprovalNotes,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

func (r *Repository) UpdatePO(ctx context.Context, po PurchaseOrder) error {
	items, err := json.Marshal(po.Items)
	if err != nil {
		return fmt.Errorf("marshal po items: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE purchase_orders
		SET supplier_id = $2, supplier_name = $3, items = $4, subtotal = $5,
			tax_amount = $6, total_amount = $7, delivery_date = $8, payment_terms = $9,
			status = $10, approved_by = $11, approved_at = $12, approval_notes = $13
		WHERE id = $1`,
		po.ID, po.SupplierID, po.SupplierName, items, po.Subtotal, po.TaxAmount,
		po.TotalAmount, po.DeliveryDate, po.PaymentTerms, po.Status,
		po.ApprovedBy, po.ApprovedAt, po.ApprovalNotes,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPONotFound
	}
	return nil
}

func (r *Repository) ListPOs(ctx context.Context, statuses []string) ([]PurchaseOrder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+poColumns+`
		FROM purchase_orders
		WHERE COALESCE(cardinality($1::text[]), 0) = 0 OR status = ANY($1)
		ORDER BY created_at DESC`, statuses)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	pos := []PurchaseOrder{}
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, err
		}
		pos = append(pos, po)
	}
	return pos, rows.Err()
}

func (r *Repository) GetPO(ctx context.Context, id string) (PurchaseOrder, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+poColumns+`
		FROM purchase_orders
		WHERE id = $1`, id)
	po, err := scanPO(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseOrder{}, ErrPONotFound
		}
		return PurchaseOrder{}, err
	}
	return po, nil
}

func scanPO(row pgx.Row) (PurchaseOrder, error) {
	var po PurchaseOrder
	var items []byte
	err := row.Scan(
		&po.ID, &po.PONo, &po.IndentID, &po.SupplierID, &po.SupplierName, &items,
		&po.Subtotal, &po.TaxAmount, &po.TotalAmount, &po.DeliveryDate, &po.PaymentTerms,
		&po.Status, &po.CreatedBy, &po.CreatedAt, &po.ApprovedBy, &po.ApprovedAt, &po.ApprovalNotes,
	)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if err := json.Unmarshal(items, &po.Items); err != nil {
		return PurchaseOrder{}, fmt.Errorf("unmarshal po items: %w", err)
	}
	return po, nil
}
