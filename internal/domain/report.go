package domain

import "github.com/shopspring/decimal"

// PaymentLineItem is one unit of money flowing through one channel. A split
// order yields one item per sub-payment.
type PaymentLineItem struct {
	OrderID      string          `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	SourceMethod string          `json:"source_method"`
	Channel      Channel         `json:"channel"`
	Amount       decimal.Decimal `json:"amount"`
	Split        bool            `json:"split"`
}

type StatusBucket struct {
	Status        OrderStatus     `json:"status"`
	Count         int             `json:"count"`
	OriginalValue decimal.Decimal `json:"original_value"`
	Collected     decimal.Decimal `json:"collected"`
	Orders        []Order         `json:"orders"`
}

// StatusBreakdown has one bucket per known status plus Unknown, which holds
// every order whose status is not recognized.
type StatusBreakdown struct {
	Pending       StatusBucket `json:"pending"`
	Assigned      StatusBucket `json:"assigned"`
	Delivered     StatusBucket `json:"delivered"`
	Canceled      StatusBucket `json:"canceled"`
	Partial       StatusBucket `json:"partial"`
	Return        StatusBucket `json:"return"`
	ReceivingPart StatusBucket `json:"receiving_part"`
	HandToHand    StatusBucket `json:"hand_to_hand"`
	Unknown       StatusBucket `json:"unknown"`
}

// Bucket returns the bucket an order with the given status is counted in.
func (b *StatusBreakdown) Bucket(status OrderStatus) *StatusBucket {
	switch NormalizeStatus(string(status)) {
	case StatusPending:
		return &b.Pending
	case StatusAssigned:
		return &b.Assigned
	case StatusDelivered:
		return &b.Delivered
	case StatusCanceled:
		return &b.Canceled
	case StatusPartial:
		return &b.Partial
	case StatusReturn:
		return &b.Return
	case StatusReceivingPart:
		return &b.ReceivingPart
	case StatusHandToHand:
		return &b.HandToHand
	default:
		return &b.Unknown
	}
}

// All returns every bucket, unknown last.
func (b *StatusBreakdown) All() []*StatusBucket {
	return []*StatusBucket{
		&b.Pending, &b.Assigned, &b.Delivered, &b.Canceled, &b.Partial,
		&b.Return, &b.ReceivingPart, &b.HandToHand, &b.Unknown,
	}
}

type ChannelTotal struct {
	Channel Channel         `json:"channel"`
	Count   int             `json:"count"`
	Amount  decimal.Decimal `json:"amount"`
}

type FeeTotals struct {
	HoldFees          decimal.Decimal `json:"hold_fees"`
	ExtraFees         decimal.Decimal `json:"extra_fees"`
	AdminDeliveryFees decimal.Decimal `json:"admin_delivery_fees"`
	AdjustedTotal     decimal.Decimal `json:"adjusted_total"`
}

type ReportScope struct {
	CourierID       string `json:"courier_id,omitempty"`
	CourierScoped   bool   `json:"courier_scoped"`
	IncludeHoldFees bool   `json:"include_hold_fees"`
}

// FoldsPending reports whether pending orders are shown as assigned.
func (s ReportScope) FoldsPending() bool {
	return s.CourierScoped || s.CourierID != ""
}

type ReconciliationReport struct {
	Scope ReportScope `json:"scope"`

	TotalOrders int             `json:"total_orders"`
	TotalValue  decimal.Decimal `json:"total_value"`

	Statuses StatusBreakdown          `json:"statuses"`
	Channels map[Channel]ChannelTotal `json:"channels"`

	TotalCashOnDelivery   ChannelTotal    `json:"total_cash_on_delivery"`
	TotalHandToAccounting decimal.Decimal `json:"total_hand_to_accounting"`
	AccountingDifference  decimal.Decimal `json:"accounting_difference"`

	Fees FeeTotals `json:"fees"`

	DataQuality DataQuality `json:"data_quality"`
	SourceError string      `json:"source_error,omitempty"`
}

type HoldLedger struct {
	Active       []Order         `json:"active"`
	Removed      []Order         `json:"removed"`
	ActiveTotal  decimal.Decimal `json:"active_total"`
	RemovedTotal decimal.Decimal `json:"removed_total"`
	SourceError  string          `json:"source_error,omitempty"`
}
