package stock

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists the ledger in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("stock repository not initialised")
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (r *txRepository) GetBalanceForUpdate(ctx context.Context, itemID, warehouseID string) (StockBalance, error) {
	var b StockBalance
	err := r.tx.QueryRow(ctx, `SELECT id, item_id, item_name, warehouse_id, warehouse_name, qty, uom, last_updated
FROM stock_balance WHERE item_id=$1 AND warehouse_id=$2 FOR UPDATE`, itemID, warehouseID).
		Scan(&b.ID, &b.ItemID, &b.ItemName, &b.WarehouseID, &b.WarehouseName, &b.Qty, &b.UOM, &b.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockBalance{}, ErrBalanceNotFound
		}
		return StockBalance{}, err
	}
	return b, nil
}

func (r *txRepository) UpsertBalance(ctx context.Context, b StockBalance) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO stock_balance (id, item_id, item_name, warehouse_id, warehouse_name, qty, uom, last_updated)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (item_id, warehouse_id) DO UPDATE SET qty=EXCLUDED.qty, last_updated=EXCLUDED.last_updated`,
		b.ID, b.ItemID, b.ItemName, b.WarehouseID, b.WarehouseName, b.Qty, b.UOM, b.LastUpdated)
	return err
}

func (r *txRepository) InsertGRN(ctx context.Context, g GRN) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO grn
(id, grn_no, po_id, po_no, supplier_id, supplier_name, item_id, item_name, qty, uom, uom_id, base_uom_id,
base_qty, base_uom, warehouse_id, invoice_no, invoice_date, transport_details, status, received_by, received_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
		g.ID, g.GRNNo, g.POID, g.PONo, g.SupplierID, g.SupplierName, g.ItemID, g.ItemName, g.Qty, g.UOM,
		g.UOMID, g.BaseUOMID, g.BaseQty, g.BaseUOM, g.WarehouseID, g.InvoiceNo, g.InvoiceDate,
		g.TransportDetails, g.Status, g.ReceivedBy, g.ReceivedAt)
	return err
}

func (r *txRepository) UpdateGRNStatus(ctx context.Context, grnID, status string) error {
	tag, err := r.tx.Exec(ctx, `UPDATE grn SET status=$2 WHERE id=$1`, grnID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGRNNotFound
	}
	return nil
}

func (r *txRepository) InsertQualityCheck(ctx context.Context, qc QualityCheck) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO quality_checks
(id, qc_no, grn_id, grn_no, po_id, item_id, item_name, qty_received, qty_accepted, qty_rejected,
rejection_reason, qc_status, inspected_by, inspected_at, remarks)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		qc.ID, qc.QCNo, qc.GRNID, qc.GRNNo, qc.POID, qc.ItemID, qc.ItemName, qc.QtyReceived,
		qc.QtyAccepted, qc.QtyRejected, qc.RejectionReason, qc.QCStatus, qc.InspectedBy, qc.InspectedAt, qc.Remarks)
	return err
}

func (r *txRepository) InsertInward(ctx context.Context, in StockInward) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO stock_inward
(id, inward_no, qc_id, item_id, item_name, qty, uom, warehouse_id, bin_location_id, batch_no, status, created_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		in.ID, in.InwardNo, in.QCID, in.ItemID, in.ItemName, in.Qty, in.UOM, in.WarehouseID,
		in.BinLocationID, in.BatchNo, in.Status, in.CreatedBy, in.CreatedAt)
	return err
}

func (r *txRepository) InsertTransfer(ctx context.Context, t StockTransfer) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO stock_transfer
(id, transfer_no, from_warehouse_id, from_warehouse_name, to_warehouse_id, to_warehouse_name,
item_id, item_name, qty, uom, status, created_by, created_at, approved_by, approved_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		t.ID, t.TransferNo, t.FromWarehouseID, t.FromWarehouseName, t.ToWarehouseID, t.ToWarehouseName,
		t.ItemID, t.ItemName, t.Qty, t.UOM, string(t.Status), t.CreatedBy, t.CreatedAt, t.ApprovedBy, t.ApprovedAt)
	return err
}

func (r *txRepository) InsertIssue(ctx context.Context, i Issue) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO issues
(id, issue_no, department, item_id, item_name, qty, uom, uom_id, base_qty, base_uom,
warehouse_id, warehouse_name, issued_by, issued_at, remarks)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		i.ID, i.IssueNo, i.Department, i.ItemID, i.ItemName, i.Qty, i.UOM, i.UOMID, i.BaseQty, i.BaseUOM,
		i.WarehouseID, i.WarehouseName, i.IssuedBy, i.IssuedAt, i.Remarks)
	return err
}

func (r *txRepository) InsertReturn(ctx context.Context, ret Return) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO returns
(id, return_no, issue_id, department, item_id, item_name, qty_returned, uom, warehouse_id,
condition, returned_by, returned_at, remarks)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		ret.ID, ret.ReturnNo, ret.IssueID, ret.Department, ret.ItemID, ret.ItemName, ret.QtyReturned,
		ret.UOM, ret.WarehouseID, ret.Condition, ret.ReturnedBy, ret.ReturnedAt, ret.Remarks)
	return err
}

func (r *txRepository) InsertAdjustment(ctx context.Context, a Adjustment) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO adjustments
(id, adjustment_no, item_id, item_name, warehouse_id, adjustment_qty, uom, reason, status,
created_by, created_at, approved_by, approved_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		a.ID, a.AdjustmentNo, a.ItemID, a.ItemName, a.WarehouseID, a.AdjustmentQty, a.UOM, a.Reason,
		string(a.Status), a.CreatedBy, a.CreatedAt, a.ApprovedBy, a.ApprovedAt)
	return err
}

func (r *Repository) ListGRNs(ctx context.Context) ([]GRN, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, grn_no, po_id, po_no, supplier_id, supplier_name, item_id, item_name,
qty, uom, uom_id, base_uom_id, base_qty, base_uom, warehouse_id, invoice_no, invoice_date, transport_details,
status, received_by, received_at FROM grn ORDER BY received_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	grns := []GRN{}
	for rows.Next() {
		var g GRN
		if err := rows.Scan(&g.ID, &g.GRNNo, &g.POID, &g.PONo, &g.SupplierID, &g.SupplierName, &g.ItemID,
			&g.ItemName, &g.Qty, &g.UOM, &g.UOMID, &g.BaseUOMID, &g.BaseQty, &g.BaseUOM, &g.WarehouseID,
			&g.InvoiceNo, &g.InvoiceDate, &g.TransportDetails, &g.Status, &g.ReceivedBy, &g.ReceivedAt); err != nil {
			return nil, err
		}
		grns = append(grns, g)
	}
	return grns, rows.Err()
}

func (r *Repository) GetGRN(ctx context.Context, id string) (GRN, error) {
	var g GRN
	err := r.pool.QueryRow(ctx, `SELECT id, grn_no, po_id, po_no, supplier_id, supplier_name, item_id, item_name,
qty, uom, uom_id, base_uom_id, base_qty, base_uom, warehouse_id, invoice_no, invoice_date, transport_details,
status, received_by, received_at FROM grn WHERE id=$1`, id).
		Scan(&g.ID, &g.GRNNo, &g.POID, &g.PONo, &g.SupplierID, &g.SupplierName, &g.ItemID, &g.ItemName,
			&g.Qty, &g.UOM, &g.UOMID, &g.BaseUOMID, &g.BaseQty, &g.BaseUOM, &g.WarehouseID, &g.InvoiceNo,
			&g.InvoiceDate, &g.TransportDetails, &g.Status, &g.ReceivedBy, &g.ReceivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GRN{}, ErrGRNNotFound
		}
		return GRN{}, err
	}
	return g, nil
}

func (r *Repository) ListQualityChecks(ctx context.Context) ([]QualityCheck, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, qc_no, grn_id, grn_no, po_id, item_id, item_name, qty_received,
qty_accepted, qty_rejected, rejection_reason, qc_status, inspected_by, inspected_at, remarks
FROM quality_checks ORDER BY inspected_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	qcs := []QualityCheck{}
	for rows.Next() {
		var qc QualityCheck
		if err := rows.Scan(&qc.ID, &qc.QCNo, &qc.GRNID, &qc.GRNNo, &qc.POID, &qc.ItemID, &qc.ItemName,
			&qc.QtyReceived, &qc.QtyAccepted, &qc.QtyRejected, &qc.RejectionReason, &qc.QCStatus,
			&qc.InspectedBy, &qc.InspectedAt, &qc.Remarks); err != nil {
			return nil, err
		}
		qcs = append(qcs, qc)
	}
	return qcs, rows.Err()
}

func (r *Repository) ListInwards(ctx context.Context) ([]StockInward, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, inward_no, qc_id, item_id, item_name, qty, uom, warehouse_id,
bin_location_id, batch_no, status, created_by, created_at FROM stock_inward ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	inwards := []StockInward{}
	for rows.Next() {
		var in StockInward
		if err := rows.Scan(&in.ID, &in.InwardNo, &in.QCID, &in.ItemID, &in.ItemName, &in.Qty, &in.UOM,
			&in.WarehouseID, &in.BinLocationID, &in.BatchNo, &in.Status, &in.CreatedBy, &in.CreatedAt); err != nil {
			return nil, err
		}
		inwards = append(inwards, in)
	}
	return inwards, rows.Err()
}

func (r *Repository) ListTransfers(ctx context.Context) ([]StockTransfer, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, transfer_no, from_warehouse_id, from_warehouse_name,
to_warehouse_id, to_warehouse_name, item_id, item_name, qty, uom, status, created_by, created_at,
approved_by, approved_at FROM stock_transfer ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	transfers := []StockTransfer{}
	for rows.Next() {
		var t StockTransfer
		var status string
		if err := rows.Scan(&t.ID, &t.TransferNo, &t.FromWarehouseID, &t.FromWarehouseName, &t.ToWarehouseID,
			&t.ToWarehouseName, &t.ItemID, &t.ItemName, &t.Qty, &t.UOM, &status, &t.CreatedBy, &t.CreatedAt,
			&t.ApprovedBy, &t.ApprovedAt); err != nil {
			return nil, err
		}
		t.Status = ApprovalStatus(status)
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

func (r *Repository) ListIssues(ctx context.Context) ([]Issue, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, issue_no, department, item_id, item_name, qty, uom, uom_id,
base_qty, base_uom, warehouse_id, warehouse_name, issued_by, issued_at, remarks
FROM issues ORDER BY issued_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	issues := []Issue{}
	for rows.Next() {
		var i Issue
		if err := rows.Scan(&i.ID, &i.IssueNo, &i.Department, &i.ItemID, &i.ItemName, &i.Qty, &i.UOM,
			&i.UOMID, &i.BaseQty, &i.BaseUOM, &i.WarehouseID, &i.WarehouseName, &i.IssuedBy, &i.IssuedAt,
			&i.Remarks); err != nil {
			return nil, err
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

func (r *Repository) ListReturns(ctx context.Context) ([]Return, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, return_no, issue_id, department, item_id, item_name, qty_returned,
uom, warehouse_id, condition, returned_by, returned_at, remarks FROM returns ORDER BY returned_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	returns := []Return{}
	for rows.Next() {
		var ret Return
		if err := rows.Scan(&ret.ID, &ret.ReturnNo, &ret.IssueID, &ret.Department, &ret.ItemID, &ret.ItemName,
			&ret.QtyReturned, &ret.UOM, &ret.WarehouseID, &ret.Condition, &ret.ReturnedBy, &ret.ReturnedAt,
			&ret.Remarks); err != nil {
			return nil, err
		}
		returns = append(returns, ret)
	}
	return returns, rows.Err()
}

func (r *Repository) ListAdjustments(ctx context.Context) ([]Adjustment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, adjustment_no, item_id, item_name, warehouse_id, adjustment_qty,
uom, reason, status, created_by, created_at, approved_by, approved_at FROM adjustments ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	adjustments := []Adjustment{}
	for rows.Next() {
		var a Adjustment
		var status string
		if err := rows.Scan(&a.ID, &a.AdjustmentNo, &a.ItemID, &a.ItemName, &a.WarehouseID, &a.AdjustmentQty,
			&a.UOM, &a.Reason, &status, &a.CreatedBy, &a.CreatedAt, &a.ApprovedBy, &a.ApprovedAt); err != nil {
			return nil, err
		}
		a.Status = ApprovalStatus(status)
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

func (r *Repository) ListBalances(ctx context.Context, filter BalanceFilter) ([]StockBalance, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, item_id, item_name, warehouse_id, warehouse_name, qty, uom, last_updated
FROM stock_balance
WHERE ($1 = '' OR item_id=$1) AND ($2 = '' OR warehouse_id=$2)
ORDER BY item_name, warehouse_name`, filter.ItemID, filter.WarehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	balances := []StockBalance{}
	for rows.Next() {
		var b StockBalance
		if err := rows.Scan(&b.ID, &b.ItemID, &b.ItemName, &b.WarehouseID, &b.WarehouseName, &b.Qty, &b.UOM,
			&b.LastUpdated); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *Repository) GetBalance(ctx context.Context, itemID, warehouseID string) (StockBalance, error) {
	var b StockBalance
	err := r.pool.QueryRow(ctx, `SELECT id, item_id, item_name, warehouse_id, warehouse_name, qty, uom, last_updated
FROM stock_balance WHERE item_id=$1 AND warehouse_id=$2`, itemID, warehouseID).
		Scan(&b.ID, &b.ItemID, &b.ItemName, &b.WarehouseID, &b.WarehouseName, &b.Qty, &b.UOM, &b.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockBalance{}, ErrBalanceNotFound
		}
		return StockBalance{}, err
	}
	return b, nil
}
