package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/courierdesk/ledger/internal/domain"
	"github.com/courierdesk/ledger/internal/money"
)

// terminalStatuses are subtracted from assigned collections to produce the
// accounting difference.
var terminalStatuses = []domain.OrderStatus{
	domain.StatusDelivered,
	domain.StatusCanceled,
	domain.StatusPartial,
	domain.StatusReturn,
	domain.StatusReceivingPart,
	domain.StatusHandToHand,
}

// ComputeReport builds the reconciliation report for an order snapshot. It is
// pure: the same orders and scope always yield the same report, and malformed
// orders degrade to zero values instead of failing.
func ComputeReport(orders []domain.Order, scope domain.ReportScope) *domain.ReconciliationReport {
	r := &domain.ReconciliationReport{
		Scope:                 scope,
		TotalOrders:           len(orders),
		TotalValue:            decimal.Zero,
		TotalHandToAccounting: decimal.Zero,
		AccountingDifference:  decimal.Zero,
	}
	dq := &r.DataQuality

	holdFees, extraFees, adminFees := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range orders {
		o := &orders[i]
		r.TotalValue = r.TotalValue.Add(o.TotalOrderFees.Dec())
		holdFees = holdFees.Add(o.HoldFee.Dec())
		extraFees = extraFees.Add(o.ExtraFee.Dec())
		adminFees = adminFees.Add(o.AdminDeliveryFee.Dec())
		if o.PartialPaidAmount.Dec().IsNegative() {
			dq.RecordNegativePartial(o.ID)
		}
	}

	r.Statuses = GroupByStatus(orders, dq)
	if scope.FoldsPending() {
		FoldPending(&r.Statuses)
	}
	for _, w := range CheckConsistency(&r.Statuses, r.TotalOrders, r.TotalValue) {
		dq.Warn(w)
	}

	items := ExpandPayments(orders, ExpandOptions{IncludeHoldFees: scope.IncludeHoldFees}, dq)
	r.Channels = TotalsByChannel(items)

	r.TotalCashOnDelivery = domain.ChannelTotal{Channel: "cash_on_delivery", Amount: decimal.Zero}
	for _, c := range domain.CashOnDeliveryChannels {
		r.TotalCashOnDelivery.Count += r.Channels[c].Count
		r.TotalCashOnDelivery.Amount = r.TotalCashOnDelivery.Amount.Add(r.Channels[c].Amount)
	}
	r.TotalHandToAccounting = r.Channels[domain.ChannelOnHand].Amount

	// Heuristic discrepancy signal, not a ledger balance.
	terminal := decimal.Zero
	for _, s := range terminalStatuses {
		terminal = terminal.Add(r.Statuses.Bucket(s).Collected)
	}
	r.AccountingDifference = r.Statuses.Assigned.Collected.Sub(terminal)

	r.Fees = domain.FeeTotals{
		HoldFees:          holdFees,
		ExtraFees:         extraFees,
		AdminDeliveryFees: adminFees,
		AdjustedTotal:     r.TotalValue.Sub(money.Sum(holdFees, extraFees, adminFees)),
	}
	return r
}
