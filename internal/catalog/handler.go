package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stitchline-erp/stitchline/internal/category"
	"github.com/stitchline-erp/stitchline/internal/platform/httpx"
)

// Handler exposes the item catalog over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the catalog handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers item routes. Fixed paths come before {id} so
// lookups like "low-stock" are not read as ids.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/preview/next-code", h.previewCode)
	r.Get("/validate/name", h.validateName)
	r.Get("/by-code/{code}", h.getByCode)
	r.Get("/by-category/{categoryID}", h.listByCategory)
	r.Get("/by-type/{itemType}", h.listByType)
	r.Get("/components", h.listComponents)
	r.Get("/finished-goods", h.listFinishedGoods)
	r.Get("/low-stock", h.lowStock)
	r.Get("/search", h.search)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}/update-cost", h.updateCost)
	r.Delete("/{id}", h.remove)
}

func (h *Handler) decodeItem(r *http.Request) (Item, error) {
	var item Item
	if err := httpx.DecodeJSON(r, &item); err != nil {
		return Item{}, err
	}
	return item, h.validate.Struct(payloadRules{
		Name:       item.Name,
		CategoryID: item.CategoryID,
		UOM:        item.UOM,
	})
}

type payloadRules struct {
	Name       string `validate:"required"`
	CategoryID string `validate:"required"`
	UOM        string `validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	item, err := h.decodeItem(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), item)
	if err != nil {
		h.logger.Error("create item failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) previewCode(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category_id")
	if categoryID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "category_id is required")
		return
	}
	preview, err := h.service.PreviewCode(r.Context(), categoryID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, preview)
}

func (h *Handler) validateName(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name, categoryID := q.Get("item_name"), q.Get("category_id")
	if name == "" || categoryID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "item_name and category_id are required")
		return
	}
	check, err := h.service.ValidateName(r.Context(), name, categoryID, q.Get("item_id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, check)
}

func (h *Handler) getByCode(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) listByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListByCategory(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) listByType(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListByType(r.Context(), chi.URLParam(r, "itemType"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) listComponents(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListComponents(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) listFinishedGoods(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListFinishedGoods(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.LowStock(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("q") == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "q is required")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	items, err := h.service.Search(r.Context(), q.Get("q"), q.Get("item_type"), q.Get("category_id"), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	item, err := h.decodeItem(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), item)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

type costPayload struct {
	LastPurchaseRate *float64 `json:"last_purchase_rate"`
	StandardCost     *float64 `json:"standard_cost"`
}

func (h *Handler) updateCost(w http.ResponseWriter, r *http.Request) {
	var payload costPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if err := h.service.UpdateCost(r.Context(), chi.URLParam(r, "id"), payload.LastPurchaseRate, payload.StandardCost); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Item cost updated"})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrItemNotFound), errors.Is(err, category.ErrCategoryNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicateName):
		httpx.Problem(w, http.StatusConflict, "Duplicate Name", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
