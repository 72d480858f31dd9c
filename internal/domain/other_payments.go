package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/courierdesk/ledger/internal/money"
)

type OtherPayment struct {
	Method string `json:"method"`
	Amount Amount `json:"amount"`
}

// OtherPayments holds the split-payment payload exactly as the order database
// stored it: either a JSON array or a string containing one.
type OtherPayments struct {
	raw json.RawMessage
}

func NewOtherPayments(items []OtherPayment) OtherPayments {
	b, _ := json.Marshal(items)
	return OtherPayments{raw: b}
}

func RawOtherPayments(s string) OtherPayments {
	s = strings.TrimSpace(s)
	if s == "" {
		return OtherPayments{}
	}
	if !json.Valid([]byte(s)) {
		// Keep unparseable text as a JSON string so it round-trips.
		b, _ := json.Marshal(s)
		return OtherPayments{raw: b}
	}
	return OtherPayments{raw: json.RawMessage(s)}
}

func (p OtherPayments) IsEmpty() bool {
	t := bytes.TrimSpace(p.raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func (p OtherPayments) Raw() string { return string(p.raw) }

// Items normalizes the payload into a typed list. ok is false when the
// payload is absent or cannot be read as a list; the list is then empty.
// Entries that are not objects, or whose amount is not numeric, count as 0.
func (p OtherPayments) Items() ([]OtherPayment, bool) {
	if p.IsEmpty() {
		return nil, false
	}
	data := bytes.TrimSpace(p.raw)
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, false
		}
		data = bytes.TrimSpace([]byte(inner))
		if len(data) == 0 {
			return nil, false
		}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, false
	}

	items := make([]OtherPayment, 0, len(elems))
	for _, e := range elems {
		items = append(items, decodeOtherPayment(e))
	}
	return items, true
}

func decodeOtherPayment(e json.RawMessage) OtherPayment {
	dec := json.NewDecoder(bytes.NewReader(e))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return OtherPayment{Amount: NewAmount(decimal.Zero)}
	}
	var item OtherPayment
	if s, ok := m["method"].(string); ok {
		item.Method = s
	}
	switch v := m["amount"].(type) {
	case json.Number:
		item.Amount = ParseAmount(v.String())
	default:
		item.Amount = NewAmount(money.Coerce(v))
	}
	if !item.Amount.Valid() {
		item.Amount = NewAmount(decimal.Zero)
	}
	return item
}

func (p OtherPayments) MarshalJSON() ([]byte, error) {
	if p.IsEmpty() {
		return []byte("null"), nil
	}
	return p.raw, nil
}

func (p *OtherPayments) UnmarshalJSON(b []byte) error {
	p.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (p *OtherPayments) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = OtherPayments{}
	case []byte:
		*p = RawOtherPayments(string(v))
	case string:
		*p = RawOtherPayments(v)
	default:
		return fmt.Errorf("scan other payments: unsupported type %T", src)
	}
	return nil
}

func (p OtherPayments) Value() (driver.Value, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	return p.Raw(), nil
}
