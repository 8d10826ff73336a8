package sequence

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stitchline-erp/stitchline/internal/platform/httpx"
)

// Handler exposes number series administration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the sequence handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers number series routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{series}/peek", h.peek)
	r.Post("/{series}/next", h.next)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	series, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, series)
}

func (h *Handler) peek(w http.ResponseWriter, r *http.Request) {
	number, err := h.service.Peek(r.Context(), chi.URLParam(r, "series"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"next_number": number})
}

func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	number, err := h.service.Next(r.Context(), chi.URLParam(r, "series"))
	if err != nil {
		h.logger.Error("advance number series failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"number": number})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyKey):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrStoreUnavailable):
		httpx.Problem(w, http.StatusServiceUnavailable, "Store Unavailable", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
