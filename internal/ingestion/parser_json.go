package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/courierdesk/ledger/internal/domain"
)

// orderExportFile is the wrapped export shape. A bare JSON array of orders is
// accepted as well.
type orderExportFile struct {
	Orders []domain.Order `json:"orders"`
}

// ParseOrdersJSON parses an order export. Amounts and other_payments decode
// leniently; an order without an id is rejected.
func ParseOrdersJSON(data []byte) ([]domain.Order, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty export")
	}

	var orders []domain.Order
	if data[0] == '[' {
		if err := json.Unmarshal(data, &orders); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
	} else {
		var file orderExportFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		orders = file.Orders
	}

	for i := range orders {
		if orders[i].ID == "" {
			return nil, fmt.Errorf("order %d: missing id", i)
		}
	}
	return orders, nil
}
