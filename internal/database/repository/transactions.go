package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionFilters defines list filters. Zero values mean no filter.
type TransactionFilters struct {
	Bank       string
	CategoryID string
	From       *time.Time
	To         *time.Time
	Search     string
}

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const transactionCols = `id, date, amount, description, bank, category_id,
 original_amount, original_currency, conversion_rate, dedup_key, created_at`

// InsertTx inserts a transaction within an existing database transaction.
// Commit inserts go through here so the dedup lookup and the insert share
// one unit of work.
func (r *TransactionRepo) InsertTx(ctx context.Context, tx *sql.Tx, t Transaction) error {
	var origAmount, origCurrency, rate any
	if t.OriginalAmount != nil {
		origAmount = t.OriginalAmount.String()
	}
	if t.OriginalCurrency != nil {
		origCurrency = *t.OriginalCurrency
	}
	if t.ConversionRate != nil {
		rate = t.ConversionRate.String()
	}
	_, err := tx.ExecContext(ctx, `
	INSERT INTO transactions(
	 id, date, amount, description, bank, category_id,
	 original_amount, original_currency, conversion_rate, dedup_key, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`,
		t.ID, t.Date.Format(time.DateOnly), t.Amount.String(), t.Description, t.Bank,
		t.CategoryID, origAmount, origCurrency, rate, t.DedupKey)
	return err
}

// ExistingDedupKeysTx returns the subset of keys already persisted, queried
// in bulk (chunked IN lists) within the given database transaction.
func (r *TransactionRepo) ExistingDedupKeysTx(ctx context.Context, tx *sql.Tx, keys []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	const chunk = 500
	for start := 0; start < len(keys); start += chunk {
		end := start + chunk
		if end > len(keys) {
			end = len(keys)
		}
		part := keys[start:end]
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(part)), ",")
		args := make([]any, len(part))
		for i, k := range part {
			args[i] = k
		}
		rows, err := tx.QueryContext(ctx,
			`SELECT dedup_key FROM transactions WHERE dedup_key IN (`+placeholders+`)`, args...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var k string
			if err := rows.Scan(&k); err != nil {
				rows.Close()
				return nil, err
			}
			out[k] = struct{}{}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionCols+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	var where []string
	var args []any

	if f.Bank != "" {
		where = append(where, "bank = ?")
		args = append(args, f.Bank)
	}
	if f.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.From != nil {
		where = append(where, "date >= ?")
		args = append(args, f.From.Format(time.DateOnly))
	}
	if f.To != nil {
		where = append(where, "date <= ?")
		args = append(args, f.To.Format(time.DateOnly))
	}
	if f.Search != "" {
		where = append(where, "description LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}

	query := `SELECT ` + transactionCols + ` FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC, id"

	return r.queryTransactions(ctx, query, args...)
}

// ListUncategorized returns every transaction without a category, oldest first.
func (r *TransactionRepo) ListUncategorized(ctx context.Context) ([]Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionCols+` FROM transactions WHERE category_id IS NULL ORDER BY date, id`)
}

func (r *TransactionRepo) CountUncategorized(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id IS NULL`).Scan(&n)
	return n, err
}

// UpdateCategory sets or clears the category of one transaction. Returns
// false when the transaction does not exist.
func (r *TransactionRepo) UpdateCategory(ctx context.Context, id string, categoryID *string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category_id = ? WHERE id = ?`, categoryID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AssignCategoryTx bulk-assigns a category to the given transaction ids
// within an existing database transaction. The NULL guard means rule
// application can never overwrite a manual or earlier assignment.
func (r *TransactionRepo) AssignCategoryTx(ctx context.Context, tx *sql.Tx, categoryID string, ids []string) (int64, error) {
	var total int64
	const chunk = 500
	for start := 0; start < len(ids); start += chunk {
		end := start + chunk
		if end > len(ids) {
			end = len(ids)
		}
		part := ids[start:end]
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(part)), ",")
		args := make([]any, 0, len(part)+1)
		args = append(args, categoryID)
		for _, id := range part {
			args = append(args, id)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE transactions SET category_id = ? WHERE id IN (`+placeholders+`) AND category_id IS NULL`,
			args...)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (r *TransactionRepo) queryTransactions(ctx context.Context, query string, args ...any) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// scanner covers both Row and Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var date, amount string
	var category, origAmount, origCurrency, rate sql.NullString
	if err := row.Scan(&t.ID, &date, &amount, &t.Description, &t.Bank, &category,
		&origAmount, &origCurrency, &rate, &t.DedupKey, &t.CreatedAt); err != nil {
		return Transaction{}, err
	}
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	t.Date = d
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if category.Valid {
		t.CategoryID = &category.String
	}
	if origAmount.Valid {
		v, err := decimal.NewFromString(origAmount.String)
		if err != nil {
			return Transaction{}, fmt.Errorf("parse original_amount %q: %w", origAmount.String, err)
		}
		t.OriginalAmount = &v
	}
	if origCurrency.Valid {
		t.OriginalCurrency = &origCurrency.String
	}
	if rate.Valid {
		v, err := decimal.NewFromString(rate.String)
		if err != nil {
			return Transaction{}, fmt.Errorf("parse conversion_rate %q: %w", rate.String, err)
		}
		t.ConversionRate = &v
	}
	return t, nil
}
