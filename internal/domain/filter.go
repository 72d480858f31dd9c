package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNoActiveHold      = errors.New("order has no active hold fee")
	ErrInvalidHoldAmount = errors.New("hold fee amount must not be negative")
)

// DateField selects which timestamp an order-range query filters on.
type DateField string

const (
	DateFieldAssignedAt DateField = "assigned_at"
	DateFieldUpdatedAt  DateField = "updated_at"
)

func ParseDateField(s string) (DateField, bool) {
	switch DateField(strings.ToLower(strings.TrimSpace(s))) {
	case DateFieldAssignedAt:
		return DateFieldAssignedAt, true
	case DateFieldUpdatedAt:
		return DateFieldUpdatedAt, true
	}
	return "", false
}

type OrderFilter struct {
	CourierID string
	DateField DateField
	Start     *time.Time
	End       *time.Time
	Status    string
	Page      int
	Limit     int
}

// HoldFeeUpdate sets a hold when Amount is positive and clears the active
// hold when Amount is nil or zero.
type HoldFeeUpdate struct {
	Amount  *decimal.Decimal
	Comment string
	ActorID string
	At      time.Time
}

func (u HoldFeeUpdate) Clears() bool {
	return u.Amount == nil || u.Amount.IsZero()
}

type HoldWindow string

const (
	HoldWindowAll        HoldWindow = "all"
	HoldWindowToday      HoldWindow = "today"
	HoldWindowYesterday  HoldWindow = "yesterday"
	HoldWindowLast7Days  HoldWindow = "last7days"
	HoldWindowLast30Days HoldWindow = "last30days"
	HoldWindowCustom     HoldWindow = "custom"
)

func ParseHoldWindow(s string) (HoldWindow, bool) {
	w := HoldWindow(strings.ToLower(strings.TrimSpace(s)))
	switch w {
	case "":
		return HoldWindowAll, true
	case HoldWindowAll, HoldWindowToday, HoldWindowYesterday,
		HoldWindowLast7Days, HoldWindowLast30Days, HoldWindowCustom:
		return w, true
	}
	return "", false
}

type HoldLedgerFilter struct {
	Window   HoldWindow
	Date     *time.Time // custom window only
	Now      time.Time
	Location *time.Location
}
