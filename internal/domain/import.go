package domain

import "time"

// OrderImport records one imported order export. FileHash makes re-imports of
// the same bytes a no-op.
type OrderImport struct {
	ID          string    `json:"id"`
	Format      string    `json:"format"`
	FileHash    string    `json:"file_hash"`
	RecordCount int       `json:"record_count"`
	ImportedAt  time.Time `json:"imported_at"`
}
