package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stitchline-erp/stitchline/internal/shared"
	"github.com/stitchline-erp/stitchline/internal/uom"
)

// RepositoryPort abstracts the ledger store. All balance mutations run
// through WithTx so the document insert and the balance change commit
// or roll back as one unit.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error

	ListGRNs(ctx context.Context) ([]GRN, error)
	GetGRN(ctx context.Context, id string) (GRN, error)
	ListQualityChecks(ctx context.Context) ([]QualityCheck, error)
	ListInwards(ctx context.Context) ([]StockInward, error)
	ListTransfers(ctx context.Context) ([]StockTransfer, error)
	ListIssues(ctx context.Context) ([]Issue, error)
	ListReturns(ctx context.Context) ([]Return, error)
	ListAdjustments(ctx context.Context) ([]Adjustment, error)
	ListBalances(ctx context.Context, filter BalanceFilter) ([]StockBalance, error)
	GetBalance(ctx context.Context, itemID, warehouseID string) (StockBalance, error)
}

// TxRepository is the slice of the repository visible inside a ledger
// transaction.
type TxRepository interface {
	GetBalanceForUpdate(ctx context.Context, itemID, warehouseID string) (StockBalance, error)
	UpsertBalance(ctx context.Context, balance StockBalance) error
	InsertGRN(ctx context.Context, grn GRN) error
	UpdateGRNStatus(ctx context.Context, grnID, status string) error
	InsertQualityCheck(ctx context.Context, qc QualityCheck) error
	InsertInward(ctx context.Context, inward StockInward) error
	InsertTransfer(ctx context.Context, transfer StockTransfer) error
	InsertIssue(ctx context.Context, issue Issue) error
	InsertReturn(ctx context.Context, ret Return) error
	InsertAdjustment(ctx context.Context, adj Adjustment) error
}

// SequencePort issues document numbers.
type SequencePort interface {
	Next(ctx context.Context, seriesType string) (string, error)
}

// ConverterPort converts quantities between registered units.
type ConverterPort interface {
	Convert(ctx context.Context, qty float64, fromID, toID string) (float64, error)
}

// WarehousePort resolves warehouse display names for new balance rows.
type WarehousePort interface {
	WarehouseName(ctx context.Context, id string) (string, error)
}

// AuditPort records ledger postings.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service is the stock ledger.
type Service struct {
	repo        RepositoryPort
	sequences   SequencePort
	converter   ConverterPort
	warehouses  WarehousePort
	audit       AuditPort
	idempotency *shared.IdempotencyStore
}

// NewService builds Service. Converter, warehouses, audit and
// idempotency may be nil; the ledger then skips the related step.
func NewService(repo RepositoryPort, sequences SequencePort, converter ConverterPort, warehouses WarehousePort, audit AuditPort, idem *shared.IdempotencyStore) *Service {
	return &Service{repo: repo, sequences: sequences, converter: converter, warehouses: warehouses, audit: audit, idempotency: idem}
}

// CreateGRN records a goods receipt. The document starts in Pending QC
// and does not move stock; that happens at inward time. When unit ids
// are supplied the base quantity is derived through the registry, and a
// missing unit keeps the original quantity.
func (s *Service) CreateGRN(ctx context.Context, grn GRN) (GRN, error) {
	if grn.Qty <= 0 {
		return GRN{}, ErrInvalidQuantity
	}
	if grn.GRNNo == "" {
		no, err := s.sequences.Next(ctx, "GRN")
		if err != nil {
			return GRN{}, err
		}
		grn.GRNNo = no
	}
	grn.ID = uuid.NewString()
	grn.Status = GRNPendingQC
	if grn.ReceivedAt.IsZero() {
		grn.ReceivedAt = time.Now().UTC()
	}
	if grn.UOMID != "" && grn.BaseUOMID != "" {
		baseQty, err := s.convertLenient(ctx, grn.Qty, grn.UOMID, grn.BaseUOMID)
		if err != nil {
			return GRN{}, err
		}
		grn.BaseQty = &baseQty
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.InsertGRN(ctx, grn)
	})
	if err != nil {
		return GRN{}, err
	}
	s.recordAudit(ctx, grn.ReceivedBy, "grn.create", "grn", grn.ID, map[string]any{"grn_no": grn.GRNNo, "qty": grn.Qty})
	return grn, nil
}

// CreateQualityCheck records an inspection and flips the GRN status in
// the same transaction: Accepted passes it, Rejected fails it.
func (s *Service) CreateQualityCheck(ctx context.Context, qc QualityCheck) (QualityCheck, error) {
	if qc.QCNo == "" {
		no, err := s.sequences.Next(ctx, "QC")
		if err != nil {
			return QualityCheck{}, err
		}
		qc.QCNo = no
	}
	qc.ID = uuid.NewString()
	if qc.InspectedAt.IsZero() {
		qc.InspectedAt = time.Now().UTC()
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.InsertQualityCheck(ctx, qc); err != nil {
			return err
		}
		switch qc.QCStatus {
		case QCAccepted:
			return tx.UpdateGRNStatus(ctx, qc.GRNID, GRNQCPassed)
		case QCRejected:
			return tx.UpdateGRNStatus(ctx, qc.GRNID, GRNQCFailed)
		}
		return nil
	})
	if err != nil {
		return QualityCheck{}, err
	}
	s.recordAudit(ctx, qc.InspectedBy, "qc.create", "quality_check", qc.ID, map[string]any{"qc_no": qc.QCNo, "qc_status": qc.QCStatus})
	return qc, nil
}

// CreateInward posts QC-passed quantity into the warehouse balance.
// The document insert and the balance change commit together.
func (s *Service) CreateInward(ctx context.Context, inward StockInward) (StockInward, error) {
	if inward.Qty <= 0 {
		return StockInward{}, ErrInvalidQuantity
	}
	if inward.InwardNo == "" {
		no, err := s.sequences.Next(ctx, "INWARD")
		if err != nil {
			return StockInward{}, err
		}
		inward.InwardNo = no
	}
	inward.ID = uuid.NewString()
	inward.Status = "Completed"
	if inward.CreatedAt.IsZero() {
		inward.CreatedAt = time.Now().UTC()
	}

	if err := s.checkIdempotency(ctx, "INWARD", inward.InwardNo); err != nil {
		return StockInward{}, err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.InsertInward(ctx, inward); err != nil {
			return err
		}
		return s.applyInward(ctx, tx, inward.ItemID, inward.ItemName, inward.WarehouseID, inward.Qty, inward.UOM)
	})
	if err != nil {
		return StockInward{}, err
	}
	s.recordAudit(ctx, inward.CreatedBy, "stock.inward", "stock_inward", inward.ID, map[string]any{"inward_no": inward.InwardNo, "qty": inward.Qty})
	return inward, nil
}

// CreateIssue posts an outward movement. The sufficiency check and the
// decrement happen under the same row lock, so a concurrent issue can
// never drive the balance negative; failure leaves no partial effect.
func (s *Service) CreateIssue(ctx context.Context, issue Issue) (Issue, error) {
	if issue.Qty <= 0 {
		return Issue{}, ErrInvalidQuantity
	}
	if issue.IssueNo == "" {
		no, err := s.sequences.Next(ctx, "ISSUE")
		if err != nil {
			return Issue{}, err
		}
		issue.IssueNo = no
	}
	issue.ID = uuid.NewString()
	if issue.IssuedAt.IsZero() {
		issue.IssuedAt = time.Now().UTC()
	}

	if err := s.checkIdempotency(ctx, "ISSUE", issue.IssueNo); err != nil {
		return Issue{}, err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		balance, err := tx.GetBalanceForUpdate(ctx, issue.ItemID, issue.WarehouseID)
		if err != nil {
			if errors.Is(err, ErrBalanceNotFound) {
				return ErrInsufficientStock
			}
			return err
		}
		if balance.Qty < issue.Qty {
			return fmt.Errorf("%w: have %.4f, need %.4f", ErrInsufficientStock, balance.Qty, issue.Qty)
		}
		if err := tx.InsertIssue(ctx, issue); err != nil {
			return err
		}
		balance.Qty -= issue.Qty
		balance.LastUpdated = time.Now().UTC()
		return tx.UpsertBalance(ctx, balance)
	})
	if err != nil {
		return Issue{}, err
	}
	s.recordAudit(ctx, issue.IssuedBy, "stock.issue", "issue", issue.ID, map[string]any{"issue_no": issue.IssueNo, "qty": issue.Qty})
	return issue, nil
}

// CreateReturn records material coming back. A Good condition posts
// the quantity back into the balance; any other condition records the
// document only.
func (s *Service) CreateReturn(ctx context.Context, ret Return) (Return, error) {
	if ret.QtyReturned <= 0 {
		return Return{}, ErrInvalidQuantity
	}
	if ret.ReturnNo == "" {
		no, err := s.sequences.Next(ctx, "RETURN")
		if err != nil {
			return Return{}, err
		}
		ret.ReturnNo = no
	}
	ret.ID = uuid.NewString()
	if ret.Condition == "" {
		ret.Condition = "Good"
	}
	if ret.ReturnedAt.IsZero() {
		ret.ReturnedAt = time.Now().UTC()
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.InsertReturn(ctx, ret); err != nil {
			return err
		}
		if ret.Condition != "Good" {
			return nil
		}
		return s.applyInward(ctx, tx, ret.ItemID, ret.ItemName, ret.WarehouseID, ret.QtyReturned, ret.UOM)
	})
	if err != nil {
		return Return{}, err
	}
	s.recordAudit(ctx, ret.ReturnedBy, "stock.return", "return", ret.ID, map[string]any{"return_no": ret.ReturnNo, "condition": ret.Condition})
	return ret, nil
}

// CreateTransfer records a transfer request. Balances stay untouched
// until the transfer is approved and executed downstream.
func (s *Service) CreateTransfer(ctx context.Context, transfer StockTransfer) (StockTransfer, error) {
	if transfer.Qty <= 0 {
		return StockTransfer{}, ErrInvalidQuantity
	}
	if transfer.TransferNo == "" {
		no, err := s.sequences.Next(ctx, "TRANSFER")
		if err != nil {
			return StockTransfer{}, err
		}
		transfer.TransferNo = no
	}
	transfer.ID = uuid.NewString()
	transfer.Status = StatusPending
	if transfer.CreatedAt.IsZero() {
		transfer.CreatedAt = time.Now().UTC()
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.InsertTransfer(ctx, transfer)
	})
	if err != nil {
		return StockTransfer{}, err
	}
	s.recordAudit(ctx, transfer.CreatedBy, "stock.transfer", "stock_transfer", transfer.ID, map[string]any{"transfer_no": transfer.TransferNo})
	return transfer, nil
}

// CreateAdjustment records an adjustment request. Balances stay
// untouched until approval.
func (s *Service) CreateAdjustment(ctx context.Context, adj Adjustment) (Adjustment, error) {
	if adj.AdjustmentQty == 0 {
		return Adjustment{}, ErrInvalidQuantity
	}
	if adj.AdjustmentNo == "" {
		no, err := s.sequences.Next(ctx, "ADJUSTMENT")
		if err != nil {
			return Adjustment{}, err
		}
		adj.AdjustmentNo = no
	}
	adj.ID = uuid.NewString()
	adj.Status = StatusPending
	if adj.CreatedAt.IsZero() {
		adj.CreatedAt = time.Now().UTC()
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.InsertAdjustment(ctx, adj)
	})
	if err != nil {
		return Adjustment{}, err
	}
	s.recordAudit(ctx, adj.CreatedBy, "stock.adjustment", "adjustment", adj.ID, map[string]any{"adjustment_no": adj.AdjustmentNo})
	return adj, nil
}

// Balance returns the current quantity for an (item, warehouse) pair.
// A pair with no row is zero.
func (s *Service) Balance(ctx context.Context, itemID, warehouseID string) (float64, error) {
	balance, err := s.repo.GetBalance(ctx, itemID, warehouseID)
	if err != nil {
		if errors.Is(err, ErrBalanceNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return balance.Qty, nil
}

// Balances lists balance rows, optionally filtered by item and
// warehouse.
func (s *Service) Balances(ctx context.Context, filter BalanceFilter) ([]StockBalance, error) {
	return s.repo.ListBalances(ctx, filter)
}

func (s *Service) ListGRNs(ctx context.Context) ([]GRN, error)             { return s.repo.ListGRNs(ctx) }
func (s *Service) GetGRN(ctx context.Context, id string) (GRN, error)      { return s.repo.GetGRN(ctx, id) }
func (s *Service) ListQualityChecks(ctx context.Context) ([]QualityCheck, error) {
	return s.repo.ListQualityChecks(ctx)
}
func (s *Service) ListInwards(ctx context.Context) ([]StockInward, error) { return s.repo.ListInwards(ctx) }
func (s *Service) ListTransfers(ctx context.Context) ([]StockTransfer, error) {
	return s.repo.ListTransfers(ctx)
}
func (s *Service) ListIssues(ctx context.Context) ([]Issue, error)   { return s.repo.ListIssues(ctx) }
func (s *Service) ListReturns(ctx context.Context) ([]Return, error) { return s.repo.ListReturns(ctx) }
func (s *Service) ListAdjustments(ctx context.Context) ([]Adjustment, error) {
	return s.repo.ListAdjustments(ctx)
}

// applyInward adds quantity to the pair's balance, creating the row on
// first movement. Caller must hold the transaction.
func (s *Service) applyInward(ctx context.Context, tx TxRepository, itemID, itemName, warehouseID string, qty float64, unitName string) error {
	balance, err := tx.GetBalanceForUpdate(ctx, itemID, warehouseID)
	if err != nil {
		if !errors.Is(err, ErrBalanceNotFound) {
			return err
		}
		warehouseName := ""
		if s.warehouses != nil {
			if name, err := s.warehouses.WarehouseName(ctx, warehouseID); err == nil {
				warehouseName = name
			}
		}
		balance = StockBalance{
			ID:            uuid.NewString(),
			ItemID:        itemID,
			ItemName:      itemName,
			WarehouseID:   warehouseID,
			WarehouseName: warehouseName,
			UOM:           unitName,
		}
	}
	balance.Qty += qty
	balance.LastUpdated = time.Now().UTC()
	return tx.UpsertBalance(ctx, balance)
}

// convertLenient converts through the registry, keeping the original
// quantity when a unit is not registered. Category mismatches still
// fail.
func (s *Service) convertLenient(ctx context.Context, qty float64, fromID, toID string) (float64, error) {
	if s.converter == nil {
		return qty, nil
	}
	converted, err := s.converter.Convert(ctx, qty, fromID, toID)
	if err != nil {
		if errors.Is(err, uom.ErrUnitNotFound) {
			return qty, nil
		}
		return 0, err
	}
	return converted, nil
}

func (s *Service) checkIdempotency(ctx context.Context, kind, number string) error {
	if s.idempotency == nil {
		return nil
	}
	return s.idempotency.CheckAndInsert(ctx, fmt.Sprintf("%s:%s", kind, number), "stock")
}

func (s *Service) recordAudit(ctx context.Context, actor, action, entity, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Meta:     meta,
		At:       time.Now().UTC(),
	})
}
