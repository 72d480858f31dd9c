package reconciliation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierdesk/ledger/internal/domain"
)

// FilterHoldLedger splits orders with hold-fee history into active and
// removed holds, keeping only those whose hold event falls in the window.
// The window is independent of the report's date range.
func FilterHoldLedger(orders []domain.Order, f domain.HoldLedgerFilter) domain.HoldLedger {
	ledger := domain.HoldLedger{
		Active:       []domain.Order{},
		Removed:      []domain.Order{},
		ActiveTotal:  decimal.Zero,
		RemovedTotal: decimal.Zero,
	}

	match := windowMatcher(f)
	for i := range orders {
		o := orders[i]
		if !o.HasHoldHistory() || !match(o.HoldEventDate()) {
			continue
		}
		switch {
		case o.HasActiveHold():
			ledger.Active = append(ledger.Active, o)
			ledger.ActiveTotal = ledger.ActiveTotal.Add(o.HoldFee.Dec())
		case o.HoldFeeCreatedAt != nil || o.HoldFeeCreatedBy != "":
			ledger.Removed = append(ledger.Removed, o)
			ledger.RemovedTotal = ledger.RemovedTotal.Add(o.HoldFeeAmount.Dec())
		}
	}

	sort.SliceStable(ledger.Active, func(i, j int) bool {
		return newerFirst(ledger.Active[i].HoldFeeAddedAt, ledger.Active[j].HoldFeeAddedAt)
	})
	sort.SliceStable(ledger.Removed, func(i, j int) bool {
		return newerFirst(ledger.Removed[i].HoldFeeRemovedAt, ledger.Removed[j].HoldFeeRemovedAt)
	})
	return ledger
}

// windowMatcher returns a predicate over hold event dates. Dates are compared
// as calendar days in the filter's location; an order without a date only
// passes the unfiltered windows.
func windowMatcher(f domain.HoldLedgerFilter) func(*time.Time) bool {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := calendarDay(now, loc)

	var from, to time.Time
	switch f.Window {
	case domain.HoldWindowToday:
		from, to = today, today
	case domain.HoldWindowYesterday:
		from = today.AddDate(0, 0, -1)
		to = from
	case domain.HoldWindowLast7Days:
		from, to = today.AddDate(0, 0, -6), today
	case domain.HoldWindowLast30Days:
		from, to = today.AddDate(0, 0, -29), today
	case domain.HoldWindowCustom:
		if f.Date == nil {
			return func(*time.Time) bool { return true }
		}
		from = calendarDay(*f.Date, loc)
		to = from
	default:
		return func(*time.Time) bool { return true }
	}

	return func(t *time.Time) bool {
		if t == nil {
			return false
		}
		day := calendarDay(*t, loc)
		return !day.Before(from) && !day.After(to)
	}
}

// calendarDay maps t to midnight UTC of its date in loc, so days compare by
// value regardless of zone.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newerFirst(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}
