package procurement

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu      sync.Mutex
	indents map[string]PurchaseIndent
	orders  map[string]PurchaseOrder
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{indents: map[string]PurchaseIndent{}, orders: map[string]PurchaseOrder{}}
}

func (r *memoryRepo) InsertIndent(ctx context.Context, indent PurchaseIndent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indents[indent.ID] = indent
	return nil
}

func (r *memoryRepo) ListIndents(ctx context.Context) ([]PurchaseIndent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []PurchaseIndent{}
	for _, indent := range r.indents {
		out = append(out, indent)
	}
	return out, nil
}

func (r *memoryRepo) GetIndent(ctx context.Context, id string) (PurchaseIndent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	indent, ok := r.indents[id]
	if !ok {
		return PurchaseIndent{}, ErrIndentNotFound
	}
	return indent, nil
}

func (r *memoryRepo) InsertPO(ctx context.Context, po PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[po.ID] = po
	return nil
}

func (r *memoryRepo) UpdatePO(ctx context.Context, po PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[po.ID]; !ok {
		return ErrPONotFound
	}
	r.orders[po.ID] = po
	return nil
}

func (r *memoryRepo) ListPOs(ctx context.Context, statuses []string) ([]PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []PurchaseOrder{}
	for _, po := range r.orders {
		if len(statuses) == 0 {
			out = append(out, po)
			continue
		}
		for _, status := range statuses {
			if po.Status == status {
				out = append(out, po)
				break
			}
		}
	}
	return out, nil
}

func (r *memoryRepo) GetPO(ctx context.Context, id string) (PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.orders[id]
	if !ok {
		return PurchaseOrder{}, ErrPONotFound
	}
	return po, nil
}

type fakeSequences struct {
	mu       sync.Mutex
	counters map[string]int
}

func (s *fakeSequences) Next(ctx context.Context, seriesType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counters == nil {
		s.counters = map[string]int{}
	}
	s.counters[seriesType]++
	return fmt.Sprintf("%s-%04d", seriesType, s.counters[seriesType]), nil
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, &fakeSequences{}, nil), repo
}

func TestCreateIndentNumbersAndStatus(t *testing.T) {
	svc, _ := newTestService()

	indent, err := svc.CreateIndent(context.Background(), PurchaseIndent{
		Department:  "Cutting",
		RequestedBy: "user-1",
		Items:       []IndentItem{{ItemID: "item-1", Qty: 100, UOM: "MTR"}},
	})
	require.NoError(t, err)
	require.Equal(t, "Purchase_Indent-0001", indent.IndentNo)
	require.Equal(t, StatusPending, indent.Status)
	require.NotEmpty(t, indent.ID)
}

func TestCreateIndentRequiresLines(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateIndent(context.Background(), PurchaseIndent{Department: "Cutting", RequestedBy: "user-1"})
	require.ErrorIs(t, err, ErrNoLines)
}

func TestCreatePOComputesTotals(t *testing.T) {
	svc, _ := newTestService()

	po, err := svc.CreatePO(context.Background(), PurchaseOrder{
		SupplierID:   "sup-1",
		SupplierName: "Fabrics Co",
		Items: []POItem{
			{ItemID: "item-1", Qty: 100, Rate: 250, TaxPercent: 5},
			{ItemID: "item-2", Qty: 10, Rate: 99.99, TaxPercent: 18},
		},
		// Caller-supplied totals must be overwritten.
		Subtotal:    1,
		TotalAmount: 1,
	})
	require.NoError(t, err)
	require.Equal(t, "Purchase_Order-0001", po.PONo)
	require.Equal(t, StatusDraft, po.Status)

	require.Equal(t, 25999.90, po.Subtotal)
	require.Equal(t, 1429.98, po.TaxAmount)
	require.Equal(t, 27429.88, po.TotalAmount)
	require.Equal(t, 26250.00, po.Items[0].Amount)
	require.Equal(t, 1179.88, po.Items[1].Amount)
}

func TestPOApprovalLifecycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	po, err := svc.CreatePO(ctx, PurchaseOrder{
		SupplierID: "sup-1",
		Items:      []POItem{{ItemID: "item-1", Qty: 1, Rate: 10}},
	})
	require.NoError(t, err)

	submitted, err := svc.SubmitPO(ctx, po.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, submitted.Status)

	approved, err := svc.ApprovePO(ctx, po.ID, "manager-1", "ok to buy")
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)
	require.Equal(t, "manager-1", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	require.Equal(t, "ok to buy", approved.ApprovalNotes)

	// A decided order cannot be decided again.
	_, err = svc.ApprovePO(ctx, po.ID, "manager-2", "")
	require.ErrorIs(t, err, ErrNotApprovable)
	_, err = svc.SubmitPO(ctx, po.ID)
	require.ErrorIs(t, err, ErrNotApprovable)
}

func TestRejectPO(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	po, err := svc.CreatePO(ctx, PurchaseOrder{
		SupplierID: "sup-1",
		Items:      []POItem{{ItemID: "item-1", Qty: 1, Rate: 10}},
	})
	require.NoError(t, err)

	rejected, err := svc.RejectPO(ctx, po.ID, "manager-1", "over budget")
	require.NoError(t, err)
	require.Equal(t, StatusRejected, rejected.Status)
	require.Equal(t, "over budget", rejected.ApprovalNotes)
}

func TestPendingPOsReport(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.CreatePO(ctx, PurchaseOrder{SupplierID: "sup-1", Items: []POItem{{Qty: 1, Rate: 1}}})
	require.NoError(t, err)
	pending, err := svc.CreatePO(ctx, PurchaseOrder{SupplierID: "sup-2", Items: []POItem{{Qty: 1, Rate: 1}}})
	require.NoError(t, err)
	_, err = svc.SubmitPO(ctx, pending.ID)
	require.NoError(t, err)
	decided, err := svc.CreatePO(ctx, PurchaseOrder{SupplierID: "sup-3", Items: []POItem{{Qty: 1, Rate: 1}}})
	require.NoError(t, err)
	_, err = svc.ApprovePO(ctx, decided.ID, "manager-1", "")
	require.NoError(t, err)

	open, err := svc.PendingPOs(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)
	ids := []string{open[0].ID, open[1].ID}
	require.ElementsMatch(t, []string{draft.ID, pending.ID}, ids)
}
