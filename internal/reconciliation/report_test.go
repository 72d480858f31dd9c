package reconciliation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierdesk/ledger/internal/domain"
)

func reportFixture() []domain.Order {
	added := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	return []domain.Order{
		{ID: "d1", Status: domain.StatusDelivered, TotalOrderFees: amt(200), DeliveryFee: amt(20), PaymentMethod: "cash"},
		{ID: "d2", Status: domain.StatusDelivered, TotalOrderFees: amt(100), PaymentMethod: "visa_machine", ExtraFee: amt(5)},
		{ID: "d3", Status: domain.StatusDelivered, TotalOrderFees: amt(80), PaymentMethod: "cash", CollectedBy: "Emad",
			HoldFee: amt(10), HoldFeeAmount: amt(10), HoldFeeAddedAt: &added, HoldFeeCreatedAt: &added},
		{ID: "p1", Status: domain.StatusPartial, TotalOrderFees: amt(100), PartialPaidAmount: amt(-40), DeliveryFee: amt(10), HoldFee: amt(5), PaymentMethod: "wallet"},
		{ID: "a1", Status: domain.StatusAssigned, TotalOrderFees: amt(60), DeliveryFee: amt(15), PaymentMethod: "instapay"},
		{ID: "pe1", Status: domain.StatusPending, TotalOrderFees: amt(40), PaymentMethod: "cash"},
		{ID: "c1", Status: domain.StatusCanceled, TotalOrderFees: amt(90), AdminDeliveryFee: amt(3), PaymentMethod: "paymob"},
		{ID: "s1", Status: domain.StatusDelivered, TotalOrderFees: amt(50), PaymentSubType: "onther",
			OtherPayments: domain.RawOtherPayments(`[{"method":"cash","amount":"30"},{"method":"wallet","amount":"20"}]`)},
	}
}

func TestComputeReport_Totals(t *testing.T) {
	r := ComputeReport(reportFixture(), domain.ReportScope{IncludeHoldFees: true})

	assert.Equal(t, 8, r.TotalOrders)
	assertDec(t, "720", r.TotalValue)

	assert.Equal(t, 4, r.Statuses.Delivered.Count)
	assertDec(t, "430", r.Statuses.Delivered.OriginalValue)
	// 220 + 95 + 70 + 50
	assertDec(t, "435", r.Statuses.Delivered.Collected)
	assertDec(t, "45", r.Statuses.Partial.Collected)
	assertDec(t, "-3", r.Statuses.Canceled.Collected)
	assert.Equal(t, 1, r.Statuses.Pending.Count, "pending is kept for an admin-wide view")

	assertDec(t, "250", r.Channels[domain.ChannelCash].Amount) // d1 220 + s1 30
	assert.Equal(t, 2, r.Channels[domain.ChannelCash].Count)
	assertDec(t, "95", r.Channels[domain.ChannelVisaMachine].Amount)
	assertDec(t, "70", r.Channels[domain.ChannelOnHand].Amount)
	assertDec(t, "65", r.Channels[domain.ChannelWallet].Amount) // p1 45 + s1 20
	assertDec(t, "15", r.Channels[domain.ChannelInstapay].Amount)
	assert.Equal(t, 0, r.Channels[domain.ChannelPaymob].Count, "canceled paymob order nets negative")

	assertDec(t, "245", r.TotalCashOnDelivery.Amount)
	assert.Equal(t, 5, r.TotalCashOnDelivery.Count)
	assertDec(t, "70", r.TotalHandToAccounting)

	// assigned 15 - (435 + 45 - 3)
	assertDec(t, "-462", r.AccountingDifference)

	assertDec(t, "15", r.Fees.HoldFees)
	assertDec(t, "5", r.Fees.ExtraFees)
	assertDec(t, "3", r.Fees.AdminDeliveryFees)
	assertDec(t, "697", r.Fees.AdjustedTotal)

	assert.Equal(t, []string{"p1"}, r.DataQuality.NegativePartialAmounts)
	assert.Empty(t, r.DataQuality.Warnings)
}

func TestComputeReport_CourierScopeFoldsPending(t *testing.T) {
	orders := append(ordersWithStatus(domain.StatusPending, 3, 10), ordersWithStatus(domain.StatusAssigned, 2, 10)...)

	r := ComputeReport(orders, domain.ReportScope{CourierID: "courier-7"})
	assert.Equal(t, 0, r.Statuses.Pending.Count)
	assert.Equal(t, 5, r.Statuses.Assigned.Count)

	r = ComputeReport(orders, domain.ReportScope{CourierScoped: true})
	assert.Equal(t, 5, r.Statuses.Assigned.Count)

	r = ComputeReport(orders, domain.ReportScope{})
	assert.Equal(t, 3, r.Statuses.Pending.Count)
	assert.Equal(t, 2, r.Statuses.Assigned.Count)
}

func TestComputeReport_HoldFeeToggleOnlyAffectsChannels(t *testing.T) {
	orders := reportFixture()
	with := ComputeReport(orders, domain.ReportScope{IncludeHoldFees: true})
	without := ComputeReport(orders, domain.ReportScope{IncludeHoldFees: false})

	assert.Equal(t, with.TotalOrders, without.TotalOrders)
	assert.True(t, with.Statuses.Delivered.Collected.Equal(without.Statuses.Delivered.Collected))
	assertDec(t, "70", with.Channels[domain.ChannelOnHand].Amount)
	assert.True(t, without.Channels[domain.ChannelOnHand].Amount.IsZero())
}

func TestComputeReport_EmptySnapshot(t *testing.T) {
	r := ComputeReport(nil, domain.ReportScope{})

	assert.Equal(t, 0, r.TotalOrders)
	assert.True(t, r.TotalValue.IsZero())
	assert.True(t, r.AccountingDifference.IsZero())
	assert.True(t, r.Fees.AdjustedTotal.IsZero())
	assert.Len(t, r.Channels, len(domain.Channels))
	assert.NotNil(t, r.Statuses.Delivered.Orders)
	assert.True(t, r.DataQuality.Clean())

	_, err := json.Marshal(r)
	require.NoError(t, err)
}

func TestComputeReport_MalformedOrdersDegrade(t *testing.T) {
	var orders []domain.Order
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":"m1","status":"delivered","total_order_fees":"abc","delivery_fee":"5","payment_method":"??"},
		{"id":"m2","status":"teleported","total_order_fees":12,"payment_method":"cash"},
		{"id":"m3","status":"delivered","payment_sub_type":"onther","other_payments":"{broken","total_order_fees":7}
	]`), &orders))

	r := ComputeReport(orders, domain.ReportScope{IncludeHoldFees: true})

	assert.Equal(t, 3, r.TotalOrders)
	assertDec(t, "19", r.TotalValue)
	assert.Equal(t, 1, r.Statuses.Unknown.Count)
	assert.Equal(t, map[string]int{"teleported": 1}, r.DataQuality.UnknownStatuses)
	assert.Equal(t, []string{"m3"}, r.DataQuality.MalformedSplitPayments)
	assert.Equal(t, map[string]int{"??": 1}, r.DataQuality.UnrecognizedMethods)
	assertDec(t, "5", r.Channels[domain.ChannelOther].Amount)
	assert.Empty(t, r.DataQuality.Warnings)
}

func TestComputeReport_Idempotent(t *testing.T) {
	orders := reportFixture()
	a, err := json.Marshal(ComputeReport(orders, domain.ReportScope{CourierID: "c1", IncludeHoldFees: true}))
	require.NoError(t, err)
	b, err := json.Marshal(ComputeReport(orders, domain.ReportScope{CourierID: "c1", IncludeHoldFees: true}))
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}
