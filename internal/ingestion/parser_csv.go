package ingestion

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/courierdesk/ledger/internal/domain"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseOrdersCSV parses a spreadsheet export of orders. Columns are matched
// by header name, so their order does not matter and unknown columns are
// ignored. The delimiter is a comma unless the header line uses pipes.
//
// Required header: id. Recognized: every snake_case order field, with
// other_payments holding the JSON list as text.
func ParseOrdersCSV(data []byte) ([]domain.Order, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	if first, _, _ := bytes.Cut(data, []byte("\n")); bytes.Count(first, []byte("|")) > bytes.Count(first, []byte(",")) {
		reader.Comma = '|'
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("header has no id column")
	}

	var orders []domain.Order
	lineNum := 1

	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		id := get("id")
		if id == "" {
			continue
		}

		o := domain.Order{
			ID:                id,
			OrderNumber:       get("order_number"),
			TotalOrderFees:    domain.ParseAmount(get("total_order_fees")),
			DeliveryFee:       domain.ParseAmount(get("delivery_fee")),
			PartialPaidAmount: domain.ParseAmount(get("partial_paid_amount")),
			HoldFee:           domain.ParseAmount(get("hold_fee")),
			AdminDeliveryFee:  domain.ParseAmount(get("admin_delivery_fee")),
			ExtraFee:          domain.ParseAmount(get("extra_fee")),
			Status:            domain.OrderStatus(get("status")),
			PaymentMethod:     get("payment_method"),
			PaymentSubType:    get("payment_sub_type"),
			CollectedBy:       get("collected_by"),
			HoldFeeAmount:     domain.ParseAmount(get("hold_fee_amount")),
			HoldFeeComment:    get("hold_fee_comment"),
			HoldFeeCreatedBy:  get("hold_fee_created_by"),
			AssignedCourierID: get("assigned_courier_id"),
		}
		if raw := get("other_payments"); raw != "" {
			o.OtherPayments = domain.RawOtherPayments(raw)
		}

		stamps := []struct {
			column string
			dst    **time.Time
		}{
			{"hold_fee_created_at", &o.HoldFeeCreatedAt},
			{"hold_fee_added_at", &o.HoldFeeAddedAt},
			{"hold_fee_removed_at", &o.HoldFeeRemovedAt},
			{"assigned_at", &o.AssignedAt},
			{"updated_at", &o.UpdatedAt},
			{"created_at", &o.CreatedAt},
		}
		for _, s := range stamps {
			v := get(s.column)
			if v == "" {
				continue
			}
			t, err := parseTimestamp(v)
			if err != nil {
				return nil, fmt.Errorf("line %d %s: %w", lineNum, s.column, err)
			}
			*s.dst = &t
		}

		orders = append(orders, o)
	}

	return orders, nil
}

func parseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
