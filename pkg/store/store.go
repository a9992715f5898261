// Package store owns the persistent payment collection: it is the
// single source of truth for ids and soft-delete state, and the only
// layer that speaks SQL.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"pagto/pkg/db"
	"pagto/pkg/filter"
	"pagto/pkg/model"
)

const paymentColumns = "id, category, payee, payment_date, account, amount_cents, owed_to, pending, deleted, receipt_ref, note"

// PaymentStore provides CRUD, filtered listing, and aggregation over
// the payments table.
type PaymentStore struct {
	conn *db.Connection
}

// New creates a PaymentStore on an open connection.
func New(conn *db.Connection) *PaymentStore {
	return &PaymentStore{conn: conn}
}

// Insert persists a new record and returns the assigned id. The id is
// always one greater than the largest id ever issued, independent of
// the current row count. Deleted is forced to false at creation.
func (s *PaymentStore) Insert(p model.Payment) (int64, error) {
	res, err := s.conn.Exec(`
		INSERT INTO payments
			(category, payee, payment_date, account, amount_cents, owed_to, pending, deleted, receipt_ref, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		p.Category, p.Payee, p.Date, p.Account, toCents(p.Amount),
		p.OwedTo, boolToInt(p.Pending), p.ReceiptRef, p.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read assigned id: %w", err)
	}
	return id, nil
}

// Update applies only the fields present in u. The id itself is never
// mutable. It returns false when no record with that id exists, and an
// update carrying zero fields is a no-op that also returns false.
func (s *PaymentStore) Update(id int64, u model.FieldUpdate) (bool, error) {
	if u.Empty() {
		return false, nil
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if u.Category != nil {
		set("category", *u.Category)
	}
	if u.Payee != nil {
		set("payee", *u.Payee)
	}
	if u.Date != nil {
		set("payment_date", *u.Date)
	}
	if u.Account != nil {
		set("account", *u.Account)
	}
	if u.Amount != nil {
		set("amount_cents", toCents(*u.Amount))
	}
	if u.OwedTo != nil {
		set("owed_to", *u.OwedTo)
	}
	if u.Pending != nil {
		set("pending", boolToInt(*u.Pending))
	}
	if u.ReceiptRef != nil {
		set("receipt_ref", *u.ReceiptRef)
	}
	if u.Note != nil {
		set("note", *u.Note)
	}

	args = append(args, id)
	res, err := s.conn.Exec("UPDATE payments SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("failed to update payment %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// SoftDelete marks a record as deleted. It returns false when the id
// does not exist; marking an already-deleted record again succeeds at
// this level (the lifecycle layer reports "already deleted" by
// checking first).
func (s *PaymentStore) SoftDelete(id int64) (bool, error) {
	res, err := s.conn.Exec("UPDATE payments SET deleted = 1 WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete payment %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// GetByID retrieves a record regardless of its deleted flag. The
// second return value is false when no such id exists.
func (s *PaymentStore) GetByID(id int64) (model.Payment, bool, error) {
	row := s.conn.QueryRow("SELECT "+paymentColumns+" FROM payments WHERE id = ?", id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return model.Payment{}, false, nil
	}
	if err != nil {
		return model.Payment{}, false, fmt.Errorf("failed to get payment %d: %w", id, err)
	}
	return p, true, nil
}

// List returns records matching the predicate set in the order given
// by the sort directive. Soft-deleted records are excluded unless
// includeDeleted is set. An empty result is a normal outcome.
func (s *PaymentStore) List(includeDeleted bool, preds *filter.Predicates, sort filter.Sort) ([]model.Payment, error) {
	conds, args := preds.SQL()
	if !includeDeleted {
		conds = append([]string{"deleted = 0"}, conds...)
	}
	return s.listWhere(conds, args, sort)
}

// ListDeleted returns only soft-deleted records, subject to the same
// predicates and ordering as List.
func (s *PaymentStore) ListDeleted(preds *filter.Predicates, sort filter.Sort) ([]model.Payment, error) {
	conds, args := preds.SQL()
	conds = append([]string{"deleted = 1"}, conds...)
	return s.listWhere(conds, args, sort)
}

func (s *PaymentStore) listWhere(conds []string, args []any, sort filter.Sort) ([]model.Payment, error) {
	query := "SELECT " + paymentColumns + " FROM payments"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + sort.OrderBy()

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// CategoryTotal is one row of the per-category aggregation.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// AggregateByCategory sums amounts per category over the records that
// match the predicates. Soft-deleted records never contribute, and the
// result is ordered by category name ascending.
func (s *PaymentStore) AggregateByCategory(preds *filter.Predicates) ([]CategoryTotal, error) {
	conds, args := preds.SQL()
	conds = append([]string{"deleted = 0"}, conds...)

	query := "SELECT category, SUM(amount_cents) FROM payments WHERE " +
		strings.Join(conds, " AND ") +
		" GROUP BY category ORDER BY category ASC"

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by category: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var category string
		var cents int64
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, CategoryTotal{Category: category, Total: fromCents(cents)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}
	return totals, nil
}

// Stats summarizes the collection.
type Stats struct {
	Active     int
	Pending    int
	Deleted    int
	Categories int
	Total      decimal.Decimal
	LastID     int64
}

// GetStats retrieves collection statistics. The total covers active
// (non-deleted) records only.
func (s *PaymentStore) GetStats() (*Stats, error) {
	var stats Stats
	var totalCents sql.NullInt64
	var lastID sql.NullInt64

	err := s.conn.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE deleted = 0),
			COUNT(*) FILTER (WHERE deleted = 0 AND pending = 1),
			COUNT(*) FILTER (WHERE deleted = 1),
			COUNT(DISTINCT CASE WHEN deleted = 0 THEN category END),
			SUM(CASE WHEN deleted = 0 THEN amount_cents END),
			MAX(id)
		FROM payments`,
	).Scan(&stats.Active, &stats.Pending, &stats.Deleted, &stats.Categories, &totalCents, &lastID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	stats.Total = fromCents(totalCents.Int64)
	stats.LastID = lastID.Int64
	return &stats, nil
}

// GetMetadata retrieves a metadata value; missing keys yield "".
func (s *PaymentStore) GetMetadata(key string) (string, error) {
	var value string
	err := s.conn.QueryRow("SELECT value FROM pagto_metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}
	return value, nil
}

// SetMetadata sets a metadata value, overwriting any previous one.
func (s *PaymentStore) SetMetadata(key, value string) error {
	_, err := s.conn.Exec(`
		INSERT INTO pagto_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(sc scanner) (model.Payment, error) {
	var p model.Payment
	var cents int64
	var pending, deleted int
	err := sc.Scan(&p.ID, &p.Category, &p.Payee, &p.Date, &p.Account,
		&cents, &p.OwedTo, &pending, &deleted, &p.ReceiptRef, &p.Note)
	if err != nil {
		return model.Payment{}, err
	}
	p.Amount = fromCents(cents)
	p.Pending = pending == 1
	p.Deleted = deleted == 1
	return p, nil
}

// toCents converts a decimal amount to integer cents, rounding any
// precision beyond two fractional digits.
func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
