package reconciliation

import "github.com/courierdesk/ledger/internal/domain"

// MergeByID combines order batches fetched through different strategies.
// Each id appears once, at the position it was first seen; when two batches
// disagree, the record with the later updated_at wins.
func MergeByID(batches ...[]domain.Order) []domain.Order {
	index := make(map[string]int)
	var merged []domain.Order
	for _, batch := range batches {
		for _, o := range batch {
			pos, seen := index[o.ID]
			if !seen {
				index[o.ID] = len(merged)
				merged = append(merged, o)
				continue
			}
			if newer(o, merged[pos]) {
				merged[pos] = o
			}
		}
	}
	return merged
}

func newer(a, b domain.Order) bool {
	if a.UpdatedAt == nil {
		return false
	}
	return b.UpdatedAt == nil || a.UpdatedAt.After(*b.UpdatedAt)
}
