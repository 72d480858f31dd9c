package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/courierdesk/ledger/internal/ingestion"
	"github.com/courierdesk/ledger/internal/logger"
	"github.com/courierdesk/ledger/internal/reconciliation"
	"github.com/courierdesk/ledger/internal/repository"
)

// Deps are the collaborators the HTTP API is built on.
type Deps struct {
	Recon     *reconciliation.Service
	Orders    *repository.OrderRepo
	Ingestion *ingestion.Service
	Logger    *zap.Logger

	// Location interprets plain dates in query parameters.
	Location *time.Location
	// IncludeHoldFees is the report default when the request omits it.
	IncludeHoldFees bool
	// MaxUpload caps the in-memory part of an import upload.
	MaxUpload int64
}

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	maxUpload := d.MaxUpload
	if maxUpload <= 0 {
		maxUpload = 32 << 20
	}

	h := &Handlers{
		recon:           d.Recon,
		orders:          d.Orders,
		ingestion:       d.Ingestion,
		validate:        newValidator(),
		logger:          log,
		location:        loc,
		includeHoldFees: d.IncludeHoldFees,
		maxUpload:       maxUpload,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.RequestID)
	r.Use(logger.HTTPMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Reports.
		r.Get("/report", h.GetReport)
		r.Get("/couriers/{id}/report", h.GetCourierReport)

		// Hold fees.
		r.Get("/hold-fees", h.GetHoldFees)

		// Orders.
		r.Get("/orders", h.ListOrders)
		r.Post("/orders/import", h.ImportOrders)
		r.Get("/orders/{id}", h.GetOrder)
		r.Patch("/orders/{id}/hold-fee", h.UpdateHoldFee)
	})

	return r
}
