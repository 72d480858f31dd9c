package reconciliation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierdesk/ledger/internal/domain"
)

func TestExpandPayments_SplitScenario(t *testing.T) {
	o := domain.Order{
		ID:             "o-split",
		Status:         domain.StatusDelivered,
		PaymentSubType: "onther",
		OtherPayments:  domain.RawOtherPayments(`[{"method":"cash","amount":"30"},{"method":"wallet","amount":"20"}]`),
		DeliveryFee:    amt(0),
	}

	items := ExpandPayments([]domain.Order{o}, ExpandOptions{IncludeHoldFees: true}, nil)
	require.Len(t, items, 2)

	byChannel := map[domain.Channel]string{}
	for _, it := range items {
		assert.True(t, it.Split)
		assert.Equal(t, "o-split", it.OrderID)
		byChannel[it.Channel] = it.Amount.String()
	}
	assert.Equal(t, map[domain.Channel]string{domain.ChannelCash: "30", domain.ChannelWallet: "20"}, byChannel)

	base, ok := splitBaseAmount(&o)
	require.True(t, ok)
	assertDec(t, "50", base)
}

func TestExpandPayments_SplitSkipsNonPositiveSubPayments(t *testing.T) {
	o := domain.Order{
		ID:             "o1",
		PaymentSubType: "onther",
		OtherPayments:  domain.RawOtherPayments(`[{"method":"cash","amount":0},{"method":"instapay","amount":"-5"},{"method":"valu","amount":"15"}]`),
	}
	items := ExpandPayments([]domain.Order{o}, ExpandOptions{IncludeHoldFees: true}, nil)
	require.Len(t, items, 1)
	assert.Equal(t, domain.ChannelValu, items[0].Channel)
}

func TestExpandPayments_MalformedSplitDoesNotFailBatch(t *testing.T) {
	orders := []domain.Order{
		{ID: "bad", PaymentSubType: "onther", OtherPayments: domain.RawOtherPayments(`[{"method":`)},
		{ID: "good", Status: domain.StatusDelivered, TotalOrderFees: amt(100), PaymentMethod: "cash"},
	}
	var dq domain.DataQuality
	items := ExpandPayments(orders, ExpandOptions{IncludeHoldFees: true}, &dq)

	require.Len(t, items, 1)
	assert.Equal(t, "good", items[0].OrderID)
	assert.Equal(t, []string{"bad"}, dq.MalformedSplitPayments)
}

func TestExpandPayments_SourceMethodPriority(t *testing.T) {
	tests := []struct {
		name  string
		order domain.Order
		want  domain.Channel
	}{
		{"sub type wins", domain.Order{PaymentSubType: "instapay", CollectedBy: "wallet", PaymentMethod: "cash"}, domain.ChannelInstapay},
		{"collected by next", domain.Order{CollectedBy: "wallet", PaymentMethod: "cash"}, domain.ChannelWallet},
		{"payment method last", domain.Order{PaymentMethod: "paymob"}, domain.ChannelPaymob},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.order
			o.Status = domain.StatusDelivered
			o.TotalOrderFees = amt(10)
			items := ExpandPayments([]domain.Order{o}, ExpandOptions{IncludeHoldFees: true}, nil)
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Channel)
		})
	}
}

func TestExpandPayments_ZeroAmounts(t *testing.T) {
	orders := []domain.Order{
		{ID: "cash-zero", Status: domain.StatusAssigned, PaymentMethod: "cash"},
		{ID: "hand-zero", Status: domain.StatusAssigned, PaymentMethod: "on_hand"},
		{ID: "hand-negative", Status: domain.StatusReturn, PaymentMethod: "Emad", HoldFee: amt(15)},
	}
	items := ExpandPayments(orders, ExpandOptions{IncludeHoldFees: true}, nil)
	require.Len(t, items, 2)
	assert.Equal(t, "hand-zero", items[0].OrderID)
	assert.Equal(t, "hand-negative", items[1].OrderID)
	assertDec(t, "-15", items[1].Amount)
}

func TestExpandPayments_HoldFeeToggle(t *testing.T) {
	added := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		{ID: "held", Status: domain.StatusDelivered, TotalOrderFees: amt(100), PaymentMethod: "cash", HoldFee: amt(10), HoldFeeAddedAt: &added},
		{ID: "removed", Status: domain.StatusDelivered, TotalOrderFees: amt(100), PaymentMethod: "cash", HoldFeeRemovedAt: &added},
		{ID: "plain", Status: domain.StatusDelivered, TotalOrderFees: amt(100), PaymentMethod: "cash"},
	}

	without := ExpandPayments(orders, ExpandOptions{IncludeHoldFees: false}, nil)
	require.Len(t, without, 1)
	assert.Equal(t, "plain", without[0].OrderID)

	with := ExpandPayments(orders, ExpandOptions{IncludeHoldFees: true}, nil)
	assert.Len(t, with, 3)
}

func TestExpandPayments_RecordsUnrecognizedMethods(t *testing.T) {
	orders := []domain.Order{
		{ID: "a", Status: domain.StatusDelivered, TotalOrderFees: amt(10), PaymentMethod: "bank transfer"},
		{ID: "b", Status: domain.StatusDelivered, TotalOrderFees: amt(10), PaymentMethod: "bank transfer"},
		{ID: "c", Status: domain.StatusDelivered, TotalOrderFees: amt(10), PaymentMethod: ""},
	}
	var dq domain.DataQuality
	items := ExpandPayments(orders, ExpandOptions{IncludeHoldFees: true}, &dq)
	require.Len(t, items, 3)
	for _, it := range items {
		assert.Equal(t, domain.ChannelOther, it.Channel)
	}
	assert.Equal(t, map[string]int{"bank transfer": 2}, dq.UnrecognizedMethods)
}

func TestExpandPayments_OrderIndependentTotals(t *testing.T) {
	orders := []domain.Order{
		{ID: "1", Status: domain.StatusDelivered, TotalOrderFees: amt(100), PaymentMethod: "cash"},
		{ID: "2", Status: domain.StatusDelivered, TotalOrderFees: amt(40), PaymentMethod: "wallet"},
		{ID: "3", PaymentSubType: "onther", OtherPayments: domain.RawOtherPayments(`[{"method":"cash","amount":5},{"method":"wallet","amount":7}]`)},
	}
	reversed := []domain.Order{orders[2], orders[1], orders[0]}

	a := TotalsByChannel(ExpandPayments(orders, ExpandOptions{IncludeHoldFees: true}, nil))
	b := TotalsByChannel(ExpandPayments(reversed, ExpandOptions{IncludeHoldFees: true}, nil))

	for _, c := range domain.Channels {
		assert.Equal(t, a[c].Count, b[c].Count, c)
		assert.True(t, a[c].Amount.Equal(b[c].Amount), c)
	}
	assertDec(t, "105", a[domain.ChannelCash].Amount)
	assertDec(t, "47", a[domain.ChannelWallet].Amount)
	assert.Equal(t, 2, a[domain.ChannelCash].Count)
	assert.Len(t, a, len(domain.Channels))
}
