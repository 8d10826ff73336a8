package uom

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stitchline-erp/stitchline/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the unit registry.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the unit registry handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers unit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/convert", h.convert)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
}

type unitPayload struct {
	Name             string  `json:"uom_name" validate:"required"`
	Symbol           string  `json:"symbol"`
	Category         string  `json:"uom_category" validate:"required"`
	IsBaseUnit       bool    `json:"is_base_unit"`
	ConversionFactor float64 `json:"conversion_factor" validate:"gt=0"`
	DecimalPrecision int     `json:"decimal_precision" validate:"gte=0,lte=6"`
	Status           string  `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload unitPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	unit, err := h.service.Create(r.Context(), Unit{
		Name:             payload.Name,
		Symbol:           payload.Symbol,
		Category:         Category(payload.Category),
		IsBaseUnit:       payload.IsBaseUnit,
		ConversionFactor: payload.ConversionFactor,
		DecimalPrecision: payload.DecimalPrecision,
		Status:           payload.Status,
	})
	if err != nil {
		h.logger.Error("create uom failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, unit)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	units, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, units)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	unit, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, unit)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var payload unitPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	unit := Unit{
		ID:               chi.URLParam(r, "id"),
		Name:             payload.Name,
		Symbol:           payload.Symbol,
		Category:         Category(payload.Category),
		IsBaseUnit:       payload.IsBaseUnit,
		ConversionFactor: payload.ConversionFactor,
		DecimalPrecision: payload.DecimalPrecision,
		Status:           payload.Status,
	}
	if err := h.service.Update(r.Context(), unit); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, unit)
}

type conversionResult struct {
	OriginalQty  float64 `json:"original_qty"`
	FromUOMID    string  `json:"from_uom_id"`
	ConvertedQty float64 `json:"converted_qty"`
	ToUOMID      string  `json:"to_uom_id"`
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	qty, err := strconv.ParseFloat(q.Get("qty"), 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "qty must be a number")
		return
	}
	fromID := q.Get("from_uom_id")
	toID := q.Get("to_uom_id")
	if fromID == "" || toID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "from_uom_id and to_uom_id are required")
		return
	}
	converted, err := h.service.Convert(r.Context(), qty, fromID, toID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, conversionResult{
		OriginalQty:  qty,
		FromUOMID:    fromID,
		ConvertedQty: converted,
		ToUOMID:      toID,
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnitNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrIncompatibleUnits):
		httpx.Problem(w, http.StatusBadRequest, "Incompatible Units", err.Error())
	case errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrInvalidFactor):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
