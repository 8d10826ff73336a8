package category

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stitchline-erp/stitchline/internal/platform/httpx"
)

// Handler exposes the category tree over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the category handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers category routes. Fixed paths come before the
// parametrized one so "leaf-only" is not read as an id.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/leaf-only", h.leafOnly)
	r.Patch("/move-category", h.move)
	r.Patch("/bulk-update-item-type", h.bulkSetType)
	r.Get("/{id}", h.get)
	r.Get("/{id}/path", h.path)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

type categoryPayload struct {
	Code          string   `json:"code" validate:"required"`
	Name          string   `json:"category_name" validate:"required"`
	ParentID      *string  `json:"parent_category"`
	ItemType      string   `json:"item_type"`
	ShortCode     string   `json:"category_short_code"`
	InventoryType string   `json:"inventory_type"`
	DefaultUOM    string   `json:"default_uom"`
	AllowedUOMs   []string `json:"allowed_uoms"`
	DefaultHSN    string   `json:"default_hsn"`
	AllowPurchase bool     `json:"allow_purchase"`
	AllowIssue    bool     `json:"allow_issue"`
}

func (p categoryPayload) toInput() CreateInput {
	return CreateInput{
		Code:          p.Code,
		Name:          p.Name,
		ParentID:      p.ParentID,
		ItemType:      p.ItemType,
		ShortCode:     p.ShortCode,
		InventoryType: p.InventoryType,
		DefaultUOM:    p.DefaultUOM,
		AllowedUOMs:   p.AllowedUOMs,
		DefaultHSN:    p.DefaultHSN,
		AllowPurchase: p.AllowPurchase,
		AllowIssue:    p.AllowIssue,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), payload.toInput())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *Handler) leafOnly(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListWithLeaf(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) path(w http.ResponseWriter, r *http.Request) {
	path, err := h.service.Path(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"path": path})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), payload.toInput())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

type movePayload struct {
	CategoryID  string  `json:"category_id" validate:"required"`
	NewParentID *string `json:"new_parent_id"`
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request) {
	var payload movePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.Move(r.Context(), payload.CategoryID, payload.NewParentID)
	if err != nil {
		h.logger.Error("move category failed", slog.String("category_id", payload.CategoryID), slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

type bulkTypePayload struct {
	CategoryIDs []string `json:"category_ids" validate:"required,min=1"`
	ItemType    string   `json:"item_type" validate:"required"`
}

func (h *Handler) bulkSetType(w http.ResponseWriter, r *http.Request) {
	var payload bulkTypePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	updated, err := h.service.BulkSetType(r.Context(), payload.CategoryIDs, payload.ItemType)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"updated_count": updated, "item_type": payload.ItemType})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound), errors.Is(err, ErrParentNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrCircularReference):
		httpx.Problem(w, http.StatusConflict, "Circular Reference", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
