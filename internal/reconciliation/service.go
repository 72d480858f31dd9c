package reconciliation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/courierdesk/ledger/internal/domain"
)

// ReportQuery selects the orders a report is computed over.
type ReportQuery struct {
	CourierID       string
	CourierScoped   bool
	DateFields      []domain.DateField
	Start           *time.Time
	End             *time.Time
	IncludeHoldFees bool
}

// Service fetches order snapshots and turns them into reports and hold-fee
// ledgers. It keeps no state between calls; every call recomputes from a
// fresh snapshot.
type Service struct {
	source   OrderSource
	holds    HoldFeeStore
	logger   *zap.Logger
	location *time.Location
	now      func() time.Time
}

type ServiceConfig struct {
	Source   OrderSource
	Holds    HoldFeeStore
	Logger   *zap.Logger
	Location *time.Location
	Now      func() time.Time
}

// NewService creates a new reconciliation service.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		source:   cfg.Source,
		holds:    cfg.Holds,
		logger:   logger,
		location: loc,
		now:      now,
	}
}

// Snapshot fetches the orders in scope once per date field and merges the
// batches by order id. With no date fields it filters on assignment time.
func (s *Service) Snapshot(ctx context.Context, q ReportQuery) ([]domain.Order, error) {
	fields := q.DateFields
	if len(fields) == 0 {
		fields = []domain.DateField{domain.DateFieldAssignedAt}
	}

	batches := make([][]domain.Order, 0, len(fields))
	for _, f := range fields {
		orders, err := s.source.FetchOrders(ctx, domain.OrderFilter{
			CourierID: q.CourierID,
			DateField: f,
			Start:     q.Start,
			End:       q.End,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch orders by %s: %w", f, err)
		}
		batches = append(batches, orders)
	}
	return MergeByID(batches...), nil
}

// Report computes the reconciliation report for the query. A failing order
// source yields a zeroed report carrying the failure in SourceError; only a
// cancelled context is returned as an error.
func (s *Service) Report(ctx context.Context, q ReportQuery) (*domain.ReconciliationReport, error) {
	scope := domain.ReportScope{
		CourierID:       q.CourierID,
		CourierScoped:   q.CourierScoped,
		IncludeHoldFees: q.IncludeHoldFees,
	}

	orders, err := s.Snapshot(ctx, q)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// The caller has moved on; this snapshot is stale.
		return nil, ctxErr
	}
	if err != nil {
		s.logger.Warn("order source failed, reporting on empty snapshot",
			zap.String("courier_id", q.CourierID),
			zap.Error(err))
		r := ComputeReport(nil, scope)
		r.SourceError = err.Error()
		return r, nil
	}

	r := ComputeReport(orders, scope)
	s.logDataQuality(&r.DataQuality, q.CourierID)

	s.logger.Debug("report computed",
		zap.String("courier_id", q.CourierID),
		zap.Int("orders", r.TotalOrders),
		zap.String("total_value", r.TotalValue.String()),
		zap.String("accounting_difference", r.AccountingDifference.String()))
	return r, nil
}

// HoldLedger returns the active and removed holds for a courier (or all
// couriers when courierID is empty) within the filter's window.
func (s *Service) HoldLedger(ctx context.Context, courierID string, f domain.HoldLedgerFilter) (*domain.HoldLedger, error) {
	if f.Location == nil {
		f.Location = s.location
	}
	if f.Now.IsZero() {
		f.Now = s.now()
	}

	orders, err := s.source.FetchHoldFeeHistory(ctx, courierID)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		s.logger.Warn("hold fee history unavailable, returning empty ledger",
			zap.String("courier_id", courierID),
			zap.Error(err))
		ledger := FilterHoldLedger(nil, f)
		ledger.SourceError = err.Error()
		return &ledger, nil
	}

	ledger := FilterHoldLedger(orders, f)
	return &ledger, nil
}

// UpdateHoldFee forwards a hold-fee change to the store. Reports pick the
// change up on their next computation.
func (s *Service) UpdateHoldFee(ctx context.Context, orderID string, u domain.HoldFeeUpdate) (*domain.Order, error) {
	if u.Amount != nil && u.Amount.IsNegative() {
		return nil, domain.ErrInvalidHoldAmount
	}
	if u.At.IsZero() {
		u.At = s.now()
	}

	o, err := s.holds.UpdateHoldFee(ctx, orderID, u)
	if err != nil {
		return nil, fmt.Errorf("update hold fee for %s: %w", orderID, err)
	}

	if u.Clears() {
		s.logger.Info("hold fee removed",
			zap.String("order_id", orderID),
			zap.String("actor_id", u.ActorID))
	} else {
		s.logger.Info("hold fee set",
			zap.String("order_id", orderID),
			zap.String("actor_id", u.ActorID),
			zap.String("amount", u.Amount.String()))
	}
	return o, nil
}

func (s *Service) logDataQuality(dq *domain.DataQuality, courierID string) {
	if dq.Clean() {
		return
	}
	s.logger.Warn("data quality issues in order snapshot",
		zap.String("courier_id", courierID),
		zap.Any("unrecognized_payment_methods", dq.UnrecognizedMethods),
		zap.Any("unknown_statuses", dq.UnknownStatuses),
		zap.Strings("malformed_split_payments", dq.MalformedSplitPayments),
		zap.Strings("negative_partial_amounts", dq.NegativePartialAmounts),
		zap.Strings("warnings", dq.Warnings))
}
