package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/courierdesk/ledger/internal/domain"
)

const orderColumns = `id, order_number, total_order_fees, delivery_fee, partial_paid_amount,
	hold_fee, admin_delivery_fee, extra_fee, status, payment_method, payment_sub_type,
	collected_by, other_payments, hold_fee_amount, hold_fee_comment, hold_fee_created_by,
	hold_fee_created_at, hold_fee_added_at, hold_fee_removed_at, assigned_courier_id,
	assigned_at, updated_at, created_at`

var upsertOrderSQL = buildUpsertSQL()

func buildUpsertSQL() string {
	cols := strings.Split(orderColumns, ",")
	set := make([]string, 0, len(cols)-1)
	for _, c := range cols {
		c = strings.TrimSpace(c)
		if c == "id" {
			continue
		}
		set = append(set, c+" = excluded."+c)
	}
	return "INSERT INTO orders (" + orderColumns + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",") +
		") ON CONFLICT(id) DO UPDATE SET " + strings.Join(set, ", ")
}

// OrderRepo is the sqlite order store. It serves order snapshots to the
// reconciliation service and applies hold-fee changes.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Upsert inserts the order or replaces every column of the stored one.
func (r *OrderRepo) Upsert(ctx context.Context, o *domain.Order) error {
	if _, err := r.db.ExecContext(ctx, upsertOrderSQL, orderArgs(o)...); err != nil {
		return fmt.Errorf("upsert order %s: %w", o.ID, err)
	}
	return nil
}

// BulkUpsert writes all orders in one transaction and returns how many rows
// were written.
func (r *OrderRepo) BulkUpsert(ctx context.Context, orders []domain.Order) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertOrderSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	written := 0
	for i := range orders {
		if _, err := stmt.ExecContext(ctx, orderArgs(&orders[i])...); err != nil {
			return 0, fmt.Errorf("upsert row %d: %w", i, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return written, nil
}

func (r *OrderRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	return count, err
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, nil
}

// List returns one page of orders matching the filter and the total match count.
func (r *OrderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int, error) {
	where, args := buildOrderWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	query := "SELECT " + orderColumns + " FROM orders" + where +
		" ORDER BY " + dateColumn(f.DateField) + " DESC, id LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	orders, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// FetchOrders returns every order matching the courier and date range of the
// filter. Pagination fields are ignored.
func (r *OrderRepo) FetchOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	where, args := buildOrderWhere(f)
	query := "SELECT " + orderColumns + " FROM orders" + where + " ORDER BY " + dateColumn(f.DateField) + ", id"
	return r.queryOrders(ctx, query, args...)
}

// FetchHoldFeeHistory returns every order that has or had a hold fee, for one
// courier or, with an empty id, for all couriers.
func (r *OrderRepo) FetchHoldFeeHistory(ctx context.Context, courierID string) ([]domain.Order, error) {
	query := "SELECT " + orderColumns + ` FROM orders
		WHERE (hold_fee IS NOT NULL
			OR hold_fee_created_at IS NOT NULL
			OR hold_fee_added_at IS NOT NULL
			OR hold_fee_removed_at IS NOT NULL)`
	var args []any
	if courierID != "" {
		query += " AND assigned_courier_id = ?"
		args = append(args, courierID)
	}
	return r.queryOrders(ctx, query+" ORDER BY id", args...)
}

// UpdateHoldFee applies the change to the stored order inside a transaction
// and returns the updated order.
func (r *OrderRepo) UpdateHoldFee(ctx context.Context, id string, u domain.HoldFeeUpdate) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	o, err := scanOrder(tx.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}

	if err := o.ApplyHoldFee(u); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE orders SET
		hold_fee = ?, hold_fee_amount = ?, hold_fee_comment = ?, hold_fee_created_by = ?,
		hold_fee_created_at = ?, hold_fee_added_at = ?, hold_fee_removed_at = ?, updated_at = ?
		WHERE id = ?`,
		o.HoldFee, o.HoldFeeAmount, nullString(o.HoldFeeComment), nullString(o.HoldFeeCreatedBy),
		formatNullableTime(o.HoldFeeCreatedAt), formatNullableTime(o.HoldFeeAddedAt),
		formatNullableTime(o.HoldFeeRemovedAt), formatNullableTime(o.UpdatedAt),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update hold fee: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// --- helpers ---

func dateColumn(f domain.DateField) string {
	if f == domain.DateFieldUpdatedAt {
		return "updated_at"
	}
	return "assigned_at"
}

func buildOrderWhere(f domain.OrderFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.CourierID != "" {
		clauses = append(clauses, "assigned_courier_id = ?")
		args = append(args, f.CourierID)
	}
	if f.Status != "" {
		clauses = append(clauses, "LOWER(TRIM(status)) = ?")
		args = append(args, string(domain.NormalizeStatus(f.Status)))
	}
	col := dateColumn(f.DateField)
	if f.Start != nil {
		clauses = append(clauses, col+" >= ?")
		args = append(args, formatTime(*f.Start))
	}
	if f.End != nil {
		clauses = append(clauses, col+" <= ?")
		args = append(args, formatTime(*f.End))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderArgs(o *domain.Order) []any {
	return []any{
		o.ID, o.OrderNumber, o.TotalOrderFees, o.DeliveryFee, o.PartialPaidAmount,
		o.HoldFee, o.AdminDeliveryFee, o.ExtraFee, string(o.Status), o.PaymentMethod,
		nullString(o.PaymentSubType), nullString(o.CollectedBy), o.OtherPayments,
		o.HoldFeeAmount, nullString(o.HoldFeeComment), nullString(o.HoldFeeCreatedBy),
		formatNullableTime(o.HoldFeeCreatedAt), formatNullableTime(o.HoldFeeAddedAt),
		formatNullableTime(o.HoldFeeRemovedAt), nullString(o.AssignedCourierID),
		formatNullableTime(o.AssignedAt), formatNullableTime(o.UpdatedAt),
		formatNullableTime(o.CreatedAt),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var status string
	var subType, collectedBy, comment, createdBy, courierID sql.NullString
	var holdCreated, holdAdded, holdRemoved, assignedAt, updatedAt, createdAt sql.NullString

	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.TotalOrderFees, &o.DeliveryFee, &o.PartialPaidAmount,
		&o.HoldFee, &o.AdminDeliveryFee, &o.ExtraFee, &status, &o.PaymentMethod,
		&subType, &collectedBy, &o.OtherPayments,
		&o.HoldFeeAmount, &comment, &createdBy,
		&holdCreated, &holdAdded, &holdRemoved, &courierID,
		&assignedAt, &updatedAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	o.Status = domain.OrderStatus(status)
	o.PaymentSubType = subType.String
	o.CollectedBy = collectedBy.String
	o.HoldFeeComment = comment.String
	o.HoldFeeCreatedBy = createdBy.String
	o.AssignedCourierID = courierID.String
	o.HoldFeeCreatedAt = parseNullableTime(holdCreated)
	o.HoldFeeAddedAt = parseNullableTime(holdAdded)
	o.HoldFeeRemovedAt = parseNullableTime(holdRemoved)
	o.AssignedAt = parseNullableTime(assignedAt)
	o.UpdatedAt = parseNullableTime(updatedAt)
	o.CreatedAt = parseNullableTime(createdAt)
	return &o, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// timeLayout keeps nanoseconds at a fixed width so stored timestamps sort
// lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}
