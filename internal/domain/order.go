package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending       OrderStatus = "pending"
	StatusAssigned      OrderStatus = "assigned"
	StatusDelivered     OrderStatus = "delivered"
	StatusCanceled      OrderStatus = "canceled"
	StatusPartial       OrderStatus = "partial"
	StatusReturn        OrderStatus = "return"
	StatusReceivingPart OrderStatus = "receiving_part"
	StatusHandToHand    OrderStatus = "hand_to_hand"
)

// KnownStatuses lists every status the report has a bucket for, in display order.
var KnownStatuses = []OrderStatus{
	StatusPending,
	StatusAssigned,
	StatusDelivered,
	StatusCanceled,
	StatusPartial,
	StatusReturn,
	StatusReceivingPart,
	StatusHandToHand,
}

// NormalizeStatus trims and lower-cases a raw status value.
func NormalizeStatus(s string) OrderStatus {
	return OrderStatus(strings.ToLower(strings.TrimSpace(s)))
}

func (s OrderStatus) Known() bool {
	n := NormalizeStatus(string(s))
	for _, k := range KnownStatuses {
		if n == k {
			return true
		}
	}
	return false
}

// SplitPaymentSubType marks an order settled through several sub-payments.
// The spelling matches what the order database stores.
const SplitPaymentSubType = "onther"

type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`

	TotalOrderFees    Amount `json:"total_order_fees"`
	DeliveryFee       Amount `json:"delivery_fee"`
	PartialPaidAmount Amount `json:"partial_paid_amount"`
	HoldFee           Amount `json:"hold_fee"`
	AdminDeliveryFee  Amount `json:"admin_delivery_fee"`
	ExtraFee          Amount `json:"extra_fee"`

	Status         OrderStatus   `json:"status"`
	PaymentMethod  string        `json:"payment_method"`
	PaymentSubType string        `json:"payment_sub_type,omitempty"`
	CollectedBy    string        `json:"collected_by,omitempty"`
	OtherPayments  OtherPayments `json:"other_payments"`

	HoldFeeAmount    Amount     `json:"hold_fee_amount"`
	HoldFeeComment   string     `json:"hold_fee_comment,omitempty"`
	HoldFeeCreatedBy string     `json:"hold_fee_created_by,omitempty"`
	HoldFeeCreatedAt *time.Time `json:"hold_fee_created_at,omitempty"`
	HoldFeeAddedAt   *time.Time `json:"hold_fee_added_at,omitempty"`
	HoldFeeRemovedAt *time.Time `json:"hold_fee_removed_at,omitempty"`

	AssignedCourierID string     `json:"assigned_courier_id,omitempty"`
	AssignedAt        *time.Time `json:"assigned_at,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
}

func (o *Order) NormalizedStatus() OrderStatus {
	return NormalizeStatus(string(o.Status))
}

func (o *Order) IsSplitPayment() bool {
	return strings.ToLower(strings.TrimSpace(o.PaymentSubType)) == SplitPaymentSubType
}

func (o *Order) HasActiveHold() bool {
	return o.HoldFee.IsPositive()
}

// HasHoldActivity reports whether a hold was ever added or removed.
func (o *Order) HasHoldActivity() bool {
	return o.HoldFeeAddedAt != nil || o.HoldFeeRemovedAt != nil
}

// HasHoldHistory reports whether the order belongs in the hold-fee ledger.
func (o *Order) HasHoldHistory() bool {
	return o.HasActiveHold() ||
		o.HoldFeeCreatedAt != nil ||
		o.HoldFeeAddedAt != nil ||
		o.HoldFeeRemovedAt != nil
}

// HoldEventDate is the timestamp the ledger files a hold under. Removal wins
// over addition, which wins over creation.
func (o *Order) HoldEventDate() *time.Time {
	switch {
	case o.HoldFeeRemovedAt != nil:
		return o.HoldFeeRemovedAt
	case o.HoldFeeAddedAt != nil:
		return o.HoldFeeAddedAt
	default:
		return o.HoldFeeCreatedAt
	}
}

// ApplyHoldFee applies a hold-fee change to the order. Clearing requires an
// active hold; the last amount and its author are kept for the ledger.
func (o *Order) ApplyHoldFee(u HoldFeeUpdate) error {
	at := u.At
	if u.Amount != nil && u.Amount.IsNegative() {
		return ErrInvalidHoldAmount
	}

	if u.Clears() {
		if !o.HasActiveHold() {
			return ErrNoActiveHold
		}
		o.HoldFee = Amount{}
		o.HoldFeeRemovedAt = &at
	} else {
		o.HoldFee = NewAmount(*u.Amount)
		o.HoldFeeAmount = NewAmount(*u.Amount)
		o.HoldFeeCreatedBy = u.ActorID
		if o.HoldFeeCreatedAt == nil {
			o.HoldFeeCreatedAt = &at
		}
		o.HoldFeeAddedAt = &at
		o.HoldFeeRemovedAt = nil
	}
	if u.Comment != "" {
		o.HoldFeeComment = u.Comment
	}
	o.UpdatedAt = &at
	return nil
}
