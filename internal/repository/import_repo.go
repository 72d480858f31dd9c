package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/courierdesk/ledger/internal/domain"
)

type ImportRepo struct {
	db *sql.DB
}

func NewImportRepo(db *sql.DB) *ImportRepo {
	return &ImportRepo{db: db}
}

// ExistsByHash checks whether an export with the given file hash has already
// been imported.
func (r *ImportRepo) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM order_imports WHERE file_hash = ?", hash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check import hash: %w", err)
	}
	return count > 0, nil
}

func (r *ImportRepo) Insert(ctx context.Context, imp *domain.OrderImport) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_imports (id, format, file_hash, record_count, imported_at)
		VALUES (?,?,?,?,?)`,
		imp.ID, imp.Format, imp.FileHash, imp.RecordCount, formatTime(imp.ImportedAt),
	)
	if err != nil {
		return fmt.Errorf("insert import %s: %w", imp.ID, err)
	}
	return nil
}
