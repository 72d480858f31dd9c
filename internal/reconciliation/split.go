package reconciliation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/courierdesk/ledger/internal/domain"
	"github.com/courierdesk/ledger/internal/payment"
)

// ExpandOptions controls which orders ExpandPayments turns into line items.
type ExpandOptions struct {
	// IncludeHoldFees keeps orders that ever had a hold added or removed.
	IncludeHoldFees bool
}

// ExpandPayments flattens orders into payment line items so that per-channel
// totals stay additive. Split orders produce one item per positive
// sub-payment. Problems found along the way are recorded in dq.
func ExpandPayments(orders []domain.Order, opts ExpandOptions, dq *domain.DataQuality) []domain.PaymentLineItem {
	var items []domain.PaymentLineItem
	for i := range orders {
		o := &orders[i]
		if !opts.IncludeHoldFees && o.HasHoldActivity() {
			continue
		}
		if o.IsSplitPayment() {
			items = append(items, expandSplit(o, dq)...)
			continue
		}

		method := sourceMethod(o)
		channel, recognized := payment.ClassifyWithSignal(method)
		if !recognized {
			dq.RecordUnrecognizedMethod(method)
		}
		amount := CourierTotalAmount(o)
		// Cash on hand is a physical handoff and is listed even at zero or below.
		if !amount.IsPositive() && channel != domain.ChannelOnHand {
			continue
		}
		items = append(items, domain.PaymentLineItem{
			OrderID:      o.ID,
			OrderNumber:  o.OrderNumber,
			SourceMethod: method,
			Channel:      channel,
			Amount:       amount,
		})
	}
	return items
}

func expandSplit(o *domain.Order, dq *domain.DataQuality) []domain.PaymentLineItem {
	subs, ok := o.OtherPayments.Items()
	if !ok {
		dq.RecordMalformedSplit(o.ID)
		return nil
	}
	var items []domain.PaymentLineItem
	for _, sub := range subs {
		amount := sub.Amount.Dec()
		if !amount.IsPositive() {
			continue
		}
		channel, recognized := payment.ClassifyWithSignal(sub.Method)
		if !recognized {
			dq.RecordUnrecognizedMethod(sub.Method)
		}
		items = append(items, domain.PaymentLineItem{
			OrderID:      o.ID,
			OrderNumber:  o.OrderNumber,
			SourceMethod: sub.Method,
			Channel:      channel,
			Amount:       amount,
			Split:        true,
		})
	}
	return items
}

// sourceMethod picks the payment string to classify for a non-split order:
// sub-type, then collected-by, then the payment method itself.
func sourceMethod(o *domain.Order) string {
	if st := strings.TrimSpace(o.PaymentSubType); st != "" && !o.IsSplitPayment() {
		return st
	}
	if cb := strings.TrimSpace(o.CollectedBy); cb != "" {
		return cb
	}
	return o.PaymentMethod
}

// TotalsByChannel sums line items per channel. Every channel is present in the
// result, with zero totals where nothing was collected.
func TotalsByChannel(items []domain.PaymentLineItem) map[domain.Channel]domain.ChannelTotal {
	totals := make(map[domain.Channel]domain.ChannelTotal, len(domain.Channels))
	for _, c := range domain.Channels {
		totals[c] = domain.ChannelTotal{Channel: c, Amount: decimal.Zero}
	}
	for _, it := range items {
		t := totals[it.Channel]
		t.Channel = it.Channel
		t.Count++
		t.Amount = t.Amount.Add(it.Amount)
		totals[it.Channel] = t
	}
	return totals
}
