package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stitchline-erp/stitchline/internal/catalog"
	"github.com/stitchline-erp/stitchline/internal/category"
	"github.com/stitchline-erp/stitchline/internal/dashboard"
	"github.com/stitchline-erp/stitchline/internal/masterdata"
	"github.com/stitchline-erp/stitchline/internal/observability"
	"github.com/stitchline-erp/stitchline/internal/procurement"
	"github.com/stitchline-erp/stitchline/internal/sequence"
	"github.com/stitchline-erp/stitchline/internal/stock"
	"github.com/stitchline-erp/stitchline/internal/uom"
	"github.com/stitchline-erp/stitchline/internal/users"
	"github.com/stitchline-erp/stitchline/jobs"
)

// RouterParams collects handlers mounted by the router.
type RouterParams struct {
	Config             *Config
	Metrics            *observability.Metrics
	UOMHandler         *uom.Handler
	SequenceHandler    *sequence.Handler
	CategoryHandler    *category.Handler
	CatalogHandler     *catalog.Handler
	MasterdataHandler  *masterdata.Handler
	StockHandler       *stock.Handler
	ProcurementHandler *procurement.Handler
	UserHandler        *users.Handler
	DashboardHandler   *dashboard.Handler
	JobHandler         *jobs.Handler
	Middleware         []func(http.Handler) http.Handler
}

// NewRouter assembles the HTTP API.
func NewRouter(params RouterParams) chi.Router {
	r := chi.NewRouter()
	for _, mw := range params.Middleware {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/masters", func(r chi.Router) {
			if params.UOMHandler != nil {
				r.Route("/uom", params.UOMHandler.MountRoutes)
			}
			if params.SequenceHandler != nil {
				r.Route("/number-series", params.SequenceHandler.MountRoutes)
			}
			if params.CategoryHandler != nil {
				r.Route("/item-categories", params.CategoryHandler.MountRoutes)
			}
			if params.CatalogHandler != nil {
				r.Route("/items", params.CatalogHandler.MountRoutes)
			}
			if params.MasterdataHandler != nil {
				params.MasterdataHandler.MountRoutes(r)
			}
		})
		if params.StockHandler != nil {
			r.Route("/inventory", params.StockHandler.MountInventoryRoutes)
			r.Route("/quality", params.StockHandler.MountQualityRoutes)
		}
		if params.ProcurementHandler != nil {
			r.Route("/purchase", params.ProcurementHandler.MountRoutes)
		}
		r.Route("/reports", func(r chi.Router) {
			if params.StockHandler != nil {
				params.StockHandler.MountReportRoutes(r)
			}
			if params.ProcurementHandler != nil {
				params.ProcurementHandler.MountReportRoutes(r)
			}
		})
		if params.UserHandler != nil {
			r.Route("/users", params.UserHandler.MountRoutes)
		}
		if params.DashboardHandler != nil {
			r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
