package stock

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stitchline-erp/stitchline/internal/platform/httpx"
	"github.com/stitchline-erp/stitchline/internal/sequence"
	"github.com/stitchline-erp/stitchline/internal/uom"
)

// Handler exposes the stock ledger over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the stock handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountInventoryRoutes registers document and balance routes under
// /inventory.
func (h *Handler) MountInventoryRoutes(r chi.Router) {
	r.Route("/grn", func(r chi.Router) {
		r.Post("/", h.createGRN)
		r.Get("/", h.listGRNs)
		r.Get("/{id}", h.getGRN)
	})
	r.Route("/stock-inward", func(r chi.Router) {
		r.Post("/", h.createInward)
		r.Get("/", h.listInwards)
	})
	r.Route("/stock-transfer", func(r chi.Router) {
		r.Post("/", h.createTransfer)
		r.Get("/", h.listTransfers)
	})
	r.Route("/issue", func(r chi.Router) {
		r.Post("/", h.createIssue)
		r.Get("/", h.listIssues)
	})
	r.Route("/return", func(r chi.Router) {
		r.Post("/", h.createReturn)
		r.Get("/", h.listReturns)
	})
	r.Route("/adjustment", func(r chi.Router) {
		r.Post("/", h.createAdjustment)
		r.Get("/", h.listAdjustments)
	})
	r.Get("/stock-balance", h.listBalances)
}

// MountQualityRoutes registers QC routes under /quality.
func (h *Handler) MountQualityRoutes(r chi.Router) {
	r.Post("/checks", h.createQC)
	r.Get("/checks", h.listQCs)
}

// MountReportRoutes registers report routes under /reports.
func (h *Handler) MountReportRoutes(r chi.Router) {
	r.Get("/stock-ledger", h.stockLedgerReport)
	r.Get("/issue-register", h.issueRegister)
}

type grnRules struct {
	ItemID      string  `validate:"required"`
	WarehouseID string  `validate:"required"`
	Qty         float64 `validate:"required,gt=0"`
}

func (h *Handler) createGRN(w http.ResponseWriter, r *http.Request) {
	var grn GRN
	if err := httpx.DecodeJSON(r, &grn); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if err := h.validate.Struct(grnRules{ItemID: grn.ItemID, WarehouseID: grn.WarehouseID, Qty: grn.Qty}); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.CreateGRN(r.Context(), grn)
	if err != nil {
		h.logger.Error("create grn failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listGRNs(w http.ResponseWriter, r *http.Request) {
	grns, err := h.service.ListGRNs(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, grns)
}

func (h *Handler) getGRN(w http.ResponseWriter, r *http.Request) {
	grn, err := h.service.GetGRN(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, grn)
}

func (h *Handler) createQC(w http.ResponseWriter, r *http.Request) {
	var qc QualityCheck
	if err := httpx.DecodeJSON(r, &qc); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if qc.GRNID == "" || qc.ItemID == "" || qc.QCStatus == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "grn_id, item_id and qc_status are required")
		return
	}
	created, err := h.service.CreateQualityCheck(r.Context(), qc)
	if err != nil {
		h.logger.Error("create quality check failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listQCs(w http.ResponseWriter, r *http.Request) {
	qcs, err := h.service.ListQualityChecks(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, qcs)
}

func (h *Handler) createInward(w http.ResponseWriter, r *http.Request) {
	var inward StockInward
	if err := httpx.DecodeJSON(r, &inward); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if inward.ItemID == "" || inward.WarehouseID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "item_id and warehouse_id are required")
		return
	}
	created, err := h.service.CreateInward(r.Context(), inward)
	if err != nil {
		h.logger.Error("create stock inward failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listInwards(w http.ResponseWriter, r *http.Request) {
	inwards, err := h.service.ListInwards(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inwards)
}

func (h *Handler) createTransfer(w http.ResponseWriter, r *http.Request) {
	var transfer StockTransfer
	if err := httpx.DecodeJSON(r, &transfer); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if transfer.ItemID == "" || transfer.FromWarehouseID == "" || transfer.ToWarehouseID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "item_id and both warehouses are required")
		return
	}
	created, err := h.service.CreateTransfer(r.Context(), transfer)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listTransfers(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.service.ListTransfers(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, transfers)
}

func (h *Handler) createIssue(w http.ResponseWriter, r *http.Request) {
	var issue Issue
	if err := httpx.DecodeJSON(r, &issue); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if issue.ItemID == "" || issue.WarehouseID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "item_id and warehouse_id are required")
		return
	}
	created, err := h.service.CreateIssue(r.Context(), issue)
	if err != nil {
		h.logger.Error("create issue failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.service.ListIssues(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, issues)
}

func (h *Handler) createReturn(w http.ResponseWriter, r *http.Request) {
	var ret Return
	if err := httpx.DecodeJSON(r, &ret); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if ret.ItemID == "" || ret.WarehouseID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "item_id and warehouse_id are required")
		return
	}
	created, err := h.service.CreateReturn(r.Context(), ret)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listReturns(w http.ResponseWriter, r *http.Request) {
	returns, err := h.service.ListReturns(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, returns)
}

func (h *Handler) createAdjustment(w http.ResponseWriter, r *http.Request) {
	var adj Adjustment
	if err := httpx.DecodeJSON(r, &adj); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if adj.ItemID == "" || adj.WarehouseID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "item_id and warehouse_id are required")
		return
	}
	created, err := h.service.CreateAdjustment(r.Context(), adj)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listAdjustments(w http.ResponseWriter, r *http.Request) {
	adjustments, err := h.service.ListAdjustments(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, adjustments)
}

func (h *Handler) listBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.service.Balances(r.Context(), BalanceFilter{
		ItemID:      r.URL.Query().Get("item_id"),
		WarehouseID: r.URL.Query().Get("warehouse_id"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, balances)
}

func (h *Handler) stockLedgerReport(w http.ResponseWriter, r *http.Request) {
	h.listBalances(w, r)
}

func (h *Handler) issueRegister(w http.ResponseWriter, r *http.Request) {
	h.listIssues(w, r)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	case errors.Is(err, ErrGRNNotFound), errors.Is(err, ErrBalanceNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidQuantity):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, uom.ErrIncompatibleUnits):
		httpx.Problem(w, http.StatusBadRequest, "Incompatible Units", err.Error())
	case errors.Is(err, sequence.ErrStoreUnavailable):
		httpx.Problem(w, http.StatusServiceUnavailable, "Store Unavailable", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
