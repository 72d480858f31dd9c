package reconciliation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/courierdesk/ledger/internal/domain"
	"github.com/courierdesk/ledger/internal/money"
)

// valueTolerance is the allowed drift between the status partition's original
// value and the scope total.
var valueTolerance = decimal.NewFromFloat(0.01)

// AggregateByStatus totals the orders carrying the given status. Collected is
// CourierTotalAmount for every status alike.
func AggregateByStatus(orders []domain.Order, status domain.OrderStatus) domain.StatusBucket {
	b := newBucket(status)
	want := domain.NormalizeStatus(string(status))
	for i := range orders {
		if orders[i].NormalizedStatus() == want {
			addToBucket(&b, &orders[i])
		}
	}
	return b
}

// GroupByStatus partitions orders into one bucket per known status. Orders
// with an unrecognized status go to the Unknown bucket and are recorded in dq.
func GroupByStatus(orders []domain.Order, dq *domain.DataQuality) domain.StatusBreakdown {
	var br domain.StatusBreakdown
	for _, s := range domain.KnownStatuses {
		*br.Bucket(s) = AggregateByStatus(orders, s)
	}

	br.Unknown = newBucket("unknown")
	for i := range orders {
		o := &orders[i]
		if o.NormalizedStatus().Known() {
			continue
		}
		dq.RecordUnknownStatus(o.Status)
		addToBucket(&br.Unknown, o)
	}
	return br
}

// FoldPending merges pending into assigned. Courier-facing views treat
// "pending" as "assigned but not yet actioned".
func FoldPending(br *domain.StatusBreakdown) {
	p, a := &br.Pending, &br.Assigned
	a.Count += p.Count
	a.OriginalValue = a.OriginalValue.Add(p.OriginalValue)
	a.Collected = a.Collected.Add(p.Collected)
	a.Orders = append(a.Orders, p.Orders...)
	*p = newBucket(domain.StatusPending)
}

// CheckConsistency compares the partition against the scope totals and
// returns a warning per mismatch. Mismatches never fail the report.
func CheckConsistency(br *domain.StatusBreakdown, totalCount int, totalValue decimal.Decimal) []string {
	count := 0
	value := decimal.Zero
	for _, b := range br.All() {
		count += b.Count
		value = value.Add(b.OriginalValue)
	}

	var warnings []string
	if count != totalCount {
		warnings = append(warnings, fmt.Sprintf(
			"status counts sum to %d but scope has %d orders", count, totalCount))
	}
	if !money.WithinTolerance(value, totalValue, valueTolerance) {
		warnings = append(warnings, fmt.Sprintf(
			"status original values sum to %s but scope total is %s", value, totalValue))
	}
	return warnings
}

func newBucket(status domain.OrderStatus) domain.StatusBucket {
	return domain.StatusBucket{
		Status:        status,
		OriginalValue: decimal.Zero,
		Collected:     decimal.Zero,
		Orders:        []domain.Order{},
	}
}

func addToBucket(b *domain.StatusBucket, o *domain.Order) {
	b.Count++
	b.OriginalValue = b.OriginalValue.Add(o.TotalOrderFees.Dec())
	b.Collected = b.Collected.Add(CourierTotalAmount(o))
	b.Orders = append(b.Orders, *o)
}
