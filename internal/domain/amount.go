package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/courierdesk/ledger/internal/money"
)

// Amount is a nullable monetary field. Decoding never fails: numbers and
// numeric strings are kept, anything else (including values with an extreme
// exponent) is treated as absent.
type Amount struct {
	value decimal.Decimal
	valid bool
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{value: d, valid: true}
}

func AmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

func ParseAmount(s string) Amount {
	d, ok := money.Parse(s)
	if !ok {
		return Amount{}
	}
	return NewAmount(d)
}

// Valid reports whether the field carried a usable number.
func (a Amount) Valid() bool { return a.valid }

// Dec returns the value, or zero when absent.
func (a Amount) Dec() decimal.Decimal {
	if !a.valid {
		return decimal.Zero
	}
	return a.value
}

func (a Amount) Abs() decimal.Decimal { return a.Dec().Abs() }

func (a Amount) IsPositive() bool { return a.Dec().IsPositive() }

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.valid {
		return []byte("null"), nil
	}
	return []byte(a.value.String()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*a = ParseAmount(s)
		return nil
	}
	if d, err := decimal.NewFromString(string(b)); err == nil && money.InRange(d) {
		*a = NewAmount(d)
	}
	return nil
}

func (a *Amount) Scan(src any) error {
	*a = Amount{}
	switch v := src.(type) {
	case nil:
	case []byte:
		*a = ParseAmount(string(v))
	case string:
		*a = ParseAmount(v)
	case float64:
		*a = AmountFromFloat(v)
	case int64:
		*a = NewAmount(decimal.NewFromInt(v))
	default:
		return fmt.Errorf("scan amount: unsupported type %T", src)
	}
	return nil
}

// Value stores amounts as text so no precision is lost in sqlite.
func (a Amount) Value() (driver.Value, error) {
	if !a.valid {
		return nil, nil
	}
	return a.value.String(), nil
}
