package reconciliation

import (
	"context"

	"github.com/courierdesk/ledger/internal/domain"
)

// OrderSource supplies order snapshots. The service depends on this interface,
// not on a concrete store.
//
//go:generate mockgen -destination=mocks/mock_interface.go -source=interface.go
type OrderSource interface {
	FetchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	FetchHoldFeeHistory(ctx context.Context, courierID string) ([]domain.Order, error)
}

// HoldFeeStore persists hold-fee changes and returns the updated order.
type HoldFeeStore interface {
	UpdateHoldFee(ctx context.Context, orderID string, update domain.HoldFeeUpdate) (*domain.Order, error)
}
