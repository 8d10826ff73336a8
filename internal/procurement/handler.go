package procurement

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stitchline-erp/stitchline/internal/platform/httpx"
	"github.com/stitchline-erp/stitchline/internal/sequence"
)

// Handler exposes procurement over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the procurement handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers procurement routes under /purchase.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/indent", func(r chi.Router) {
		r.Post("/", h.createIndent)
		r.Get("/", h.listIndents)
		r.Get("/{id}", h.getIndent)
	})
	r.Route("/order", func(r chi.Router) {
		r.Post("/", h.createPO)
		r.Get("/", h.listPOs)
		r.Get("/{id}", h.getPO)
		r.Patch("/{id}/submit", h.submitPO)
		r.Patch("/{id}/approve", h.approvePO)
		r.Patch("/{id}/reject", h.rejectPO)
	})
}

// MountReportRoutes registers the open-order report under /reports.
func (h *Handler) MountReportRoutes(r chi.Router) {
	r.Get("/pending-po", h.pendingPOs)
}

type indentRules struct {
	Department  string `validate:"required"`
	RequestedBy string `validate:"required"`
}

func (h *Handler) createIndent(w http.ResponseWriter, r *http.Request) {
	var indent PurchaseIndent
	if err := httpx.DecodeJSON(r, &indent); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if err := h.validate.Struct(indentRules{Department: indent.Department, RequestedBy: indent.RequestedBy}); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.CreateIndent(r.Context(), indent)
	if err != nil {
		h.logger.Error("create indent failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listIndents(w http.ResponseWriter, r *http.Request) {
	indents, err := h.service.ListIndents(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, indents)
}

func (h *Handler) getIndent(w http.ResponseWriter, r *http.Request) {
	indent, err := h.service.GetIndent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, indent)
}

type poRules struct {
	SupplierID string `validate:"required"`
}

func (h *Handler) createPO(w http.ResponseWriter, r *http.Request) {
	var po PurchaseOrder
	if err := httpx.DecodeJSON(r, &po); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if err := h.validate.Struct(poRules{SupplierID: po.SupplierID}); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.CreatePO(r.Context(), po)
	if err != nil {
		h.logger.Error("create purchase order failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listPOs(w http.ResponseWriter, r *http.Request) {
	var statuses []string
	if status := r.URL.Query().Get("status"); status != "" {
		statuses = []string{status}
	}
	pos, err := h.service.ListPOs(r.Context(), statuses)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pos)
}

func (h *Handler) getPO(w http.ResponseWriter, r *http.Request) {
	po, err := h.service.GetPO(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

type decisionPayload struct {
	ActorID string `json:"actor_id"`
	Notes   string `json:"notes"`
}

func (h *Handler) submitPO(w http.ResponseWriter, r *http.Request) {
	po, err := h.service.SubmitPO(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

func (h *Handler) approvePO(w http.ResponseWriter, r *http.Request) {
	var payload decisionPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	po, err := h.service.ApprovePO(r.Context(), chi.URLParam(r, "id"), payload.ActorID, payload.Notes)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

func (h *Handler) rejectPO(w http.ResponseWriter, r *http.Request) {
	var payload decisionPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	po, err := h.service.RejectPO(r.Context(), chi.URLParam(r, "id"), payload.ActorID, payload.Notes)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

func (h *Handler) pendingPOs(w http.ResponseWriter, r *http.Request) {
	pos, err := h.service.PendingPOs(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pos)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrIndentNotFound), errors.Is(err, ErrPONotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrNoLines):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotApprovable):
		httpx.Problem(w, http.StatusConflict, "Invalid State", err.Error())
	case errors.Is(err, sequence.ErrStoreUnavailable):
		httpx.Problem(w, http.StatusServiceUnavailable, "Store Unavailable", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
