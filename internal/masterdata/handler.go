package masterdata

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stitchline-erp/stitchline/internal/platform/httpx"
)

// Handler exposes master data endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the masterdata handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers master data routes under /masters.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/suppliers", func(r chi.Router) {
		r.Post("/", h.createSupplier)
		r.Get("/", h.listSuppliers)
		r.Get("/{id}", h.getSupplier)
	})
	r.Route("/warehouses", func(r chi.Router) {
		r.Post("/", h.createWarehouse)
		r.Get("/", h.listWarehouses)
		r.Get("/{id}", h.getWarehouse)
	})
	r.Route("/bin-locations", func(r chi.Router) {
		r.Post("/", h.createBin)
		r.Get("/", h.listBins)
	})
	r.Route("/tax-hsn", func(r chi.Router) {
		r.Post("/", h.createTaxHSN)
		r.Get("/", h.listTaxHSN)
	})
}

type supplierPayload struct {
	Code          string `json:"supplier_code" validate:"required"`
	Name          string `json:"name" validate:"required"`
	GST           string `json:"gst"`
	PAN           string `json:"pan"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentTerms  string `json:"payment_terms"`
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var payload supplierPayload
	if err := h.decode(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.CreateSupplier(r.Context(), Supplier{
		Code:          payload.Code,
		Name:          payload.Name,
		GST:           payload.GST,
		PAN:           payload.PAN,
		ContactPerson: payload.ContactPerson,
		Phone:         payload.Phone,
		Address:       payload.Address,
		PaymentTerms:  payload.PaymentTerms,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.ListSuppliers(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, suppliers)
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.service.GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

type warehousePayload struct {
	Name              string   `json:"warehouse_name" validate:"required"`
	Type              string   `json:"warehouse_type" validate:"required"`
	Location          string   `json:"location"`
	Capacity          *float64 `json:"capacity"`
	ParentWarehouseID *string  `json:"parent_warehouse_id"`
}

func (h *Handler) createWarehouse(w http.ResponseWriter, r *http.Request) {
	var payload warehousePayload
	if err := h.decode(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.CreateWarehouse(r.Context(), Warehouse{
		Name:              payload.Name,
		Type:              payload.Type,
		Location:          payload.Location,
		Capacity:          payload.Capacity,
		ParentWarehouseID: payload.ParentWarehouseID,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.ListWarehouses(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, warehouses)
}

func (h *Handler) getWarehouse(w http.ResponseWriter, r *http.Request) {
	warehouse, err := h.service.GetWarehouse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, warehouse)
}

type binPayload struct {
	Code        string `json:"bin_code" validate:"required"`
	Name        string `json:"bin_name" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Aisle       string `json:"aisle"`
	Rack        string `json:"rack"`
	Level       string `json:"level"`
}

func (h *Handler) createBin(w http.ResponseWriter, r *http.Request) {
	var payload binPayload
	if err := h.decode(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.CreateBin(r.Context(), BinLocation{
		Code:        payload.Code,
		Name:        payload.Name,
		WarehouseID: payload.WarehouseID,
		Aisle:       payload.Aisle,
		Rack:        payload.Rack,
		Level:       payload.Level,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listBins(w http.ResponseWriter, r *http.Request) {
	bins, err := h.service.ListBins(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bins)
}

type taxPayload struct {
	HSNCode     string  `json:"hsn_code" validate:"required"`
	Description string  `json:"description" validate:"required"`
	CGSTRate    float64 `json:"cgst_rate"`
	SGSTRate    float64 `json:"sgst_rate"`
	IGSTRate    float64 `json:"igst_rate"`
}

func (h *Handler) createTaxHSN(w http.ResponseWriter, r *http.Request) {
	var payload taxPayload
	if err := h.decode(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.CreateTaxHSN(r.Context(), TaxHSN{
		HSNCode:     payload.HSNCode,
		Description: payload.Description,
		CGSTRate:    payload.CGSTRate,
		SGSTRate:    payload.SGSTRate,
		IGSTRate:    payload.IGSTRate,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listTaxHSN(w http.ResponseWriter, r *http.Request) {
	taxes, err := h.service.ListTaxHSN(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, taxes)
}

func (h *Handler) decode(r *http.Request, payload any) error {
	if err := httpx.DecodeJSON(r, payload); err != nil {
		return err
	}
	return h.validate.Struct(payload)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSupplierNotFound),
		errors.Is(err, ErrWarehouseNotFound),
		errors.Is(err, ErrBinNotFound),
		errors.Is(err, ErrTaxHSNNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error("masterdata request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
