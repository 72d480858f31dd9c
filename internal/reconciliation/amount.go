package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/courierdesk/ledger/internal/domain"
	"github.com/courierdesk/ledger/internal/money"
)

// CourierBaseAmount returns the order value the courier handled before
// delivery and withheld fees are applied.
func CourierBaseAmount(o *domain.Order) decimal.Decimal {
	status := o.NormalizedStatus()
	partial := o.PartialPaidAmount.Abs()

	switch {
	case status == domain.StatusHandToHand:
		return decimal.Zero
	case status == domain.StatusPartial:
		return partial
	case partial.IsPositive():
		// A partial collection recorded on any other status still counts.
		return partial
	case status == domain.StatusDelivered:
		return o.TotalOrderFees.Dec()
	default:
		return decimal.Zero
	}
}

// CourierTotalAmount is the figure every financial roll-up uses: the order
// amount plus delivery fee, minus hold, admin and extra fees.
func CourierTotalAmount(o *domain.Order) decimal.Decimal {
	delivery := o.DeliveryFee.Dec()
	withheld := money.Sum(o.HoldFee.Dec(), o.AdminDeliveryFee.Dec(), o.ExtraFee.Dec())
	partial := o.PartialPaidAmount.Abs()

	switch o.NormalizedStatus() {
	case domain.StatusPartial:
		return partial.Add(delivery).Sub(withheld)
	case domain.StatusHandToHand:
		return decimal.Max(decimal.Zero, partial.Add(delivery).Sub(withheld))
	case domain.StatusCanceled, domain.StatusReturn:
		return delivery.Sub(withheld)
	}

	if base, ok := splitBaseAmount(o); ok {
		return base.Add(delivery).Sub(withheld)
	}
	return CourierBaseAmount(o).Add(delivery).Sub(withheld)
}

// splitBaseAmount sums every sub-payment of a split order. ok is false for
// orders that are not split or whose payload cannot be read.
func splitBaseAmount(o *domain.Order) (decimal.Decimal, bool) {
	if !o.IsSplitPayment() {
		return decimal.Zero, false
	}
	items, ok := o.OtherPayments.Items()
	if !ok {
		return decimal.Zero, false
	}
	amounts := make([]decimal.Decimal, len(items))
	for i, it := range items {
		amounts[i] = it.Amount.Dec()
	}
	return money.Sum(amounts...), true
}
