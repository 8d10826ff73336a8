package procurement

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/stitchline-erp/stitchline/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	InsertIndent(ctx context.Context, indent PurchaseIndent) error
	ListIndents(ctx context.Context) ([]PurchaseIndent, error)
	GetIndent(ctx context.Context, id string) (PurchaseIndent, error)
	InsertPO(ctx context.Context, po PurchaseOrder) error
	UpdatePO(ctx context.Context, po PurchaseOrder) error
	ListPOs(ctx context.Context, statuses []string) ([]PurchaseOrder, error)
	GetPO(ctx context.Context, id string) (PurchaseOrder, error)
}

// SequencePort issues document numbers.
type SequencePort interface {
	Next(ctx context.Context, seriesType string) (string, error)
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates the indent and purchase order flows.
type Service struct {
	repo      RepositoryPort
	sequences SequencePort
	audit     AuditPort
}

// NewService constructs the procurement service. Audit may be nil.
func NewService(repo RepositoryPort, sequences SequencePort, audit AuditPort) *Service {
	return &Service{repo: repo, sequences: sequences, audit: audit}
}

// CreateIndent records a material request in Pending status.
func (s *Service) CreateIndent(ctx context.Context, indent PurchaseIndent) (PurchaseIndent, error) {
	if len(indent.Items) == 0 {
		return PurchaseIndent{}, ErrNoLines
	}
	if indent.IndentNo == "" {
		no, err := s.sequences.Next(ctx, "Purchase_Indent")
		if err != nil {
			return PurchaseIndent{}, err
		}
		indent.IndentNo = no
	}
	indent.ID = uuid.NewString()
	indent.Status = StatusPending
	if indent.CreatedAt.IsZero() {
		indent.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.InsertIndent(ctx, indent); err != nil {
		return PurchaseIndent{}, err
	}
	s.recordAudit(ctx, indent.RequestedBy, "indent.create", "purchase_indent", indent.ID, map[string]any{"indent_no": indent.IndentNo})
	return indent, nil
}

// ListIndents returns all indents.
func (s *Service) ListIndents(ctx context.Context) ([]PurchaseIndent, error) {
	return s.repo.ListIndents(ctx)
}

// GetIndent returns one indent.
func (s *Service) GetIndent(ctx context.Context, id string) (PurchaseIndent, error) {
	return s.repo.GetIndent(ctx, id)
}

// CreatePO records a purchase order in Draft status with totals
// computed from the lines.
func (s *Service) CreatePO(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error) {
	if len(po.Items) == 0 {
		return PurchaseOrder{}, ErrNoLines
	}
	if po.PONo == "" {
		no, err := s.sequences.Next(ctx, "Purchase_Order")
		if err != nil {
			return PurchaseOrder{}, err
		}
		po.PONo = no
	}
	po.ID = uuid.NewString()
	if po.Status == "" {
		po.Status = StatusDraft
	}
	if po.CreatedAt.IsZero() {
		po.CreatedAt = time.Now().UTC()
	}
	priceOrder(&po)
	if err := s.repo.InsertPO(ctx, po); err != nil {
		return PurchaseOrder{}, err
	}
	s.recordAudit(ctx, po.CreatedBy, "po.create", "purchase_order", po.ID, map[string]any{"po_no": po.PONo, "total": po.TotalAmount})
	return po, nil
}

// SubmitPO moves a draft order to Pending so it can be approved.
func (s *Service) SubmitPO(ctx context.Context, id string) (PurchaseOrder, error) {
	po, err := s.repo.GetPO(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if po.Status != StatusDraft {
		return PurchaseOrder{}, fmt.Errorf("%w: status %s", ErrNotApprovable, po.Status)
	}
	po.Status = StatusPending
	if err := s.repo.UpdatePO(ctx, po); err != nil {
		return PurchaseOrder{}, err
	}
	return po, nil
}

// ApprovePO approves a pending order.
func (s *Service) ApprovePO(ctx context.Context, id, approvedBy, notes string) (PurchaseOrder, error) {
	return s.decidePO(ctx, id, StatusApproved, approvedBy, notes)
}

// RejectPO rejects a pending order.
func (s *Service) RejectPO(ctx context.Context, id, rejectedBy, notes string) (PurchaseOrder, error) {
	return s.decidePO(ctx, id, StatusRejected, rejectedBy, notes)
}

func (s *Service) decidePO(ctx context.Context, id, decision, actor, notes string) (PurchaseOrder, error) {
	po, err := s.repo.GetPO(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if po.Status != StatusPending && po.Status != StatusDraft {
		return PurchaseOrder{}, fmt.Errorf("%w: status %s", ErrNotApprovable, po.Status)
	}
	now := time.Now().UTC()
	po.Status = decision
	po.ApprovedBy = actor
	po.ApprovedAt = &now
	po.ApprovalNotes = notes
	if err := s.repo.UpdatePO(ctx, po); err != nil {
		return PurchaseOrder{}, err
	}
	s.recordAudit(ctx, actor, "po.decide", "purchase_order", po.ID, map[string]any{"po_no": po.PONo, "decision": decision})
	return po, nil
}

// ListPOs returns orders, optionally narrowed to the given statuses.
func (s *Service) ListPOs(ctx context.Context, statuses []string) ([]PurchaseOrder, error) {
	return s.repo.ListPOs(ctx, statuses)
}

// GetPO returns one order.
func (s *Service) GetPO(ctx context.Context, id string) (PurchaseOrder, error) {
	return s.repo.GetPO(ctx, id)
}

// PendingPOs is the open-order report: everything not yet decided.
func (s *Service) PendingPOs(ctx context.Context) ([]PurchaseOrder, error) {
	return s.repo.ListPOs(ctx, []string{StatusPending, StatusDraft})
}

// priceOrder recomputes line amounts and document totals. Amounts are
// rounded to two decimals per line, matching invoice arithmetic.
func priceOrder(po *PurchaseOrder) {
	var subtotal, tax float64
	for i := range po.Items {
		line := &po.Items[i]
		lineValue := line.Qty * line.Rate
		lineTax := lineValue * line.TaxPercent / 100
		line.Amount = round2(lineValue + lineTax)
		subtotal += lineValue
		tax += lineTax
	}
	po.Subtotal = round2(subtotal)
	po.TaxAmount = round2(tax)
	po.TotalAmount = round2(subtotal + tax)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
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
