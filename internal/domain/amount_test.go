package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      string
	}{
		{"number", `12.5`, true, "12.5"},
		{"negative number", `-40`, true, "-40"},
		{"numeric string", `"30"`, true, "30"},
		{"padded string", `" 7.25 "`, true, "7.25"},
		{"null", `null`, false, "0"},
		{"empty string", `""`, false, "0"},
		{"garbage string", `"n/a"`, false, "0"},
		{"bool", `true`, false, "0"},
		{"object", `{"x":1}`, false, "0"},
		{"tiny exponent string", `"1e-400000000"`, false, "0"},
		{"huge exponent number", `1e400000000`, false, "0"},
		{"scientific in range", `1.5e2`, true, "150"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, a.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.wantValid, a.Valid())
			assert.True(t, a.Dec().Equal(decimal.RequireFromString(tt.want)), "got %s", a.Dec())
		})
	}
}

func TestAmount_InsideStructNeverFailsDecode(t *testing.T) {
	var o Order
	err := json.Unmarshal([]byte(`{"id":"o1","total_order_fees":"abc","delivery_fee":15,"hold_fee":null}`), &o)
	require.NoError(t, err)
	assert.False(t, o.TotalOrderFees.Valid())
	assert.True(t, o.DeliveryFee.Dec().Equal(decimal.NewFromInt(15)))
	assert.False(t, o.HoldFee.Valid())
}

func TestAmount_ExtremeExponentDoesNotStallSums(t *testing.T) {
	var orders []Order
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"a","total_order_fees":"1e-400000000","delivery_fee":5}]`), &orders))
	require.Len(t, orders, 1)
	assert.False(t, orders[0].TotalOrderFees.Valid())

	total := orders[0].TotalOrderFees.Dec().Add(orders[0].DeliveryFee.Dec())
	assert.True(t, total.Equal(decimal.NewFromInt(5)))
}

func TestAmount_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}{A: AmountFromFloat(10.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":10.5,"b":null}`, string(b))
}

func TestAmount_ScanValue(t *testing.T) {
	var a Amount
	require.NoError(t, a.Scan([]byte("99.90")))
	assert.True(t, a.Dec().Equal(decimal.RequireFromString("99.9")))

	v, err := a.Value()
	require.NoError(t, err)
	assert.Equal(t, "99.9", v)

	require.NoError(t, a.Scan(nil))
	assert.False(t, a.Valid())
	v, err = a.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, a.Scan(int64(3)))
	assert.True(t, a.Dec().Equal(decimal.NewFromInt(3)))

	assert.Error(t, a.Scan(struct{}{}))
}

func TestAmount_Abs(t *testing.T) {
	assert.True(t, AmountFromFloat(-40).Abs().Equal(decimal.NewFromInt(40)))
	assert.True(t, Amount{}.Abs().IsZero())
}
