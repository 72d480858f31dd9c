package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/courierdesk/ledger/internal/domain"
	"github.com/courierdesk/ledger/internal/ingestion"
	"github.com/courierdesk/ledger/internal/money"
	"github.com/courierdesk/ledger/internal/reconciliation"
	"github.com/courierdesk/ledger/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	recon           *reconciliation.Service
	orders          *repository.OrderRepo
	ingestion       *ingestion.Service
	validate        *validator.Validate
	logger          *zap.Logger
	location        *time.Location
	includeHoldFees bool
	maxUpload       int64
}

// --- helpers ---

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors to status codes.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoActiveHold):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidHoldAmount):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseTime accepts RFC 3339 or a plain date in the report timezone. A plain
// date used as an upper bound covers the whole day.
func (h *Handlers) parseTime(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, h.location)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	return &t, nil
}

func (h *Handlers) parseRange(q map[string][]string) (*time.Time, *time.Time, error) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	from, err := h.parseTime(get("from"), false)
	if err != nil {
		return nil, nil, err
	}
	to, err := h.parseTime(get("to"), true)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

func parseBoolDefault(s string, def bool) (bool, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseBool(s)
}

func parseDateFields(s string) ([]domain.DateField, error) {
	if s == "" {
		return nil, nil
	}
	var fields []domain.DateField
	for _, part := range strings.Split(s, ",") {
		f, ok := domain.ParseDateField(part)
		if !ok {
			return nil, fmt.Errorf("invalid date_field %q: want assigned_at or updated_at", strings.TrimSpace(part))
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// roundReport rounds every presented amount to cents.
func roundReport(r *domain.ReconciliationReport) {
	r.TotalValue = money.Round(r.TotalValue)
	for _, b := range r.Statuses.All() {
		b.OriginalValue = money.Round(b.OriginalValue)
		b.Collected = money.Round(b.Collected)
	}
	for ch, ct := range r.Channels {
		ct.Amount = money.Round(ct.Amount)
		r.Channels[ch] = ct
	}
	r.TotalCashOnDelivery.Amount = money.Round(r.TotalCashOnDelivery.Amount)
	r.TotalHandToAccounting = money.Round(r.TotalHandToAccounting)
	r.AccountingDifference = money.Round(r.AccountingDifference)
	r.Fees.HoldFees = money.Round(r.Fees.HoldFees)
	r.Fees.ExtraFees = money.Round(r.Fees.ExtraFees)
	r.Fees.AdminDeliveryFees = money.Round(r.Fees.AdminDeliveryFees)
	r.Fees.AdjustedTotal = money.Round(r.Fees.AdjustedTotal)
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- GetReport ---

func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, r.URL.Query().Get("courier_id"), false)
}

func (h *Handlers) GetCourierReport(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, chi.URLParam(r, "id"), true)
}

func (h *Handlers) report(w http.ResponseWriter, r *http.Request, courierID string, scoped bool) {
	q := r.URL.Query()

	query := reconciliation.ReportQuery{CourierID: strings.TrimSpace(courierID), CourierScoped: scoped}

	var err error
	if !scoped {
		if query.CourierScoped, err = parseBoolDefault(q.Get("courier_scoped"), false); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid courier_scoped")
			return
		}
	}
	if query.IncludeHoldFees, err = parseBoolDefault(q.Get("include_hold_fees"), h.includeHoldFees); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid include_hold_fees")
		return
	}
	if query.DateFields, err = parseDateFields(q.Get("date_field")); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if query.Start, query.End, err = h.parseRange(q); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.recon.Report(r.Context(), query)
	if err != nil {
		// Only a cancelled request ends up here.
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	roundReport(report)
	h.writeJSON(w, http.StatusOK, report)
}

// --- GetHoldFees ---

func (h *Handlers) GetHoldFees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	window, ok := domain.ParseHoldWindow(q.Get("window"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid window: want all, today, yesterday, last7days, last30days or custom")
		return
	}
	date, err := h.parseTime(q.Get("date"), false)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ledger, err := h.recon.HoldLedger(r.Context(), q.Get("courier_id"), domain.HoldLedgerFilter{
		Window: window,
		Date:   date,
	})
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	ledger.ActiveTotal = money.Round(ledger.ActiveTotal)
	ledger.RemovedTotal = money.Round(ledger.RemovedTotal)
	h.writeJSON(w, http.StatusOK, ledger)
}

// --- ListOrders ---

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.OrderFilter{
		CourierID: q.Get("courier_id"),
		Status:    q.Get("status"),
		Page:      parseIntDefault(q.Get("page"), 1),
		Limit:     parseIntDefault(q.Get("limit"), 50),
	}
	if df := q.Get("date_field"); df != "" {
		f, ok := domain.ParseDateField(df)
		if !ok {
			h.writeError(w, http.StatusBadRequest, "invalid date_field")
			return
		}
		filter.DateField = f
	}
	var err error
	if filter.Start, filter.End, err = h.parseRange(q); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, total, err := h.orders.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

// --- GetOrder ---

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

// --- UpdateHoldFee ---

// holdFeeRequest sets a hold when amount is positive and clears it when
// amount is zero or omitted.
type holdFeeRequest struct {
	Amount  *decimal.Decimal `json:"amount" validate:"omitempty,gte=0"`
	Comment string           `json:"comment" validate:"max=500"`
	ActorID string           `json:"actor_id" validate:"required,max=64"`
}

func (h *Handlers) UpdateHoldFee(w http.ResponseWriter, r *http.Request) {
	var req holdFeeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "request validation failed",
			"details": validationDetails(err),
		})
		return
	}

	o, err := h.recon.UpdateHoldFee(r.Context(), chi.URLParam(r, "id"), domain.HoldFeeUpdate{
		Amount:  req.Amount,
		Comment: strings.TrimSpace(req.Comment),
		ActorID: req.ActorID,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

// --- ImportOrders ---

func (h *Handlers) ImportOrders(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "file field is required: "+err.Error())
		return
	}
	defer file.Close()

	format := strings.ToLower(strings.TrimSpace(r.FormValue("format")))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	}
	if format != ingestion.FormatJSON && format != ingestion.FormatCSV {
		h.writeError(w, http.StatusBadRequest, "format must be json or csv")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "read file: "+err.Error())
		return
	}

	result, err := h.ingestion.IngestOrders(r.Context(), data, format)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}
