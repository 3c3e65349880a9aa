package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andy/beatbooks/internal/db"
	"github.com/andy/beatbooks/internal/domain"
)

// TransactionRepo is a SQLite implementation of TransactionRepository
type TransactionRepo struct {
	db *db.DB
}

// NewTransactionRepo creates a new TransactionRepo
func NewTransactionRepo(database *db.DB) *TransactionRepo {
	return &TransactionRepo{db: database}
}

// Create inserts a new transaction into the ledger
func (r *TransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	query := `
		INSERT INTO transactions (type, amount, category, description, date, invoice_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var invoiceID interface{}
	if tx.InvoiceID != nil {
		invoiceID = *tx.InvoiceID
	}

	result, err := r.db.ExecContext(ctx, query,
		string(tx.Type),
		tx.Amount,
		tx.Category,
		tx.Description,
		tx.Date.Format(dateLayout),
		invoiceID,
		tx.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get transaction ID: %w", err)
	}

	tx.ID = id
	return nil
}

// GetByID retrieves a transaction. A missing id returns (nil, nil).
func (r *TransactionRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := `
		SELECT id, type, amount, category, description, date, invoice_id, created_at
		FROM transactions
		WHERE id = ?
	`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// List retrieves transactions matching the filter, ordered by date then
// creation order, most recent first. Nil filter members match everything.
func (r *TransactionRepo) List(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error) {
	query := `
		SELECT id, type, amount, category, description, date, invoice_id, created_at
		FROM transactions
		WHERE 1=1
	`
	args := make([]interface{}, 0)

	if filter.Type != nil {
		query += " AND type = ?"
		args = append(args, string(*filter.Type))
	}
	if filter.Category != nil {
		query += " AND category = ?"
		args = append(args, *filter.Category)
	}
	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, filter.StartDate.Format(dateLayout))
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, filter.EndDate.Format(dateLayout))
	}

	query += " ORDER BY date DESC, id DESC"

	return r.queryTransactions(ctx, query, args...)
}

// Recent retrieves the most recent transactions up to limit
func (r *TransactionRepo) Recent(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, type, amount, category, description, date, invoice_id, created_at
		FROM transactions
		ORDER BY date DESC, id DESC
		LIMIT ?
	`
	return r.queryTransactions(ctx, query, limit)
}

// Update applies a partial update to a transaction
func (r *TransactionRepo) Update(ctx context.Context, id int64, patch TransactionPatch) error {
	updates := make([]string, 0)
	args := make([]interface{}, 0)

	if patch.Type != nil {
		updates = append(updates, "type = ?")
		args = append(args, string(*patch.Type))
	}
	if patch.Amount != nil {
		updates = append(updates, "amount = ?")
		args = append(args, *patch.Amount)
	}
	if patch.Category != nil {
		updates = append(updates, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Description != nil {
		updates = append(updates, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Date != nil {
		updates = append(updates, "date = ?")
		args = append(args, patch.Date.Format(dateLayout))
	}

	if len(updates) == 0 {
		return ErrNoFields
	}

	args = append(args, id)
	query := "UPDATE transactions SET " + joinUpdates(updates) + " WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return requireRows(result)
}

// Delete removes a transaction. Deleting an invoice-linked entry does not
// touch the invoice: the invoice drives the ledger, never the reverse.
func (r *TransactionRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireRows(result)
}

// DeleteByInvoice removes the transaction(s) linked to an invoice
func (r *TransactionRepo) DeleteByInvoice(ctx context.Context, invoiceID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE invoice_id = ?", invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete linked transactions: %w", err)
	}
	return nil
}

// SumByType sums amounts of the given type with dates in [start, end]
func (r *TransactionRepo) SumByType(ctx context.Context, txType domain.TransactionType, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = ? AND date BETWEEN ? AND ?",
		string(txType), start.Format(dateLayout), end.Format(dateLayout),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

// SumByCategory returns per-category sums of the given type with dates in
// [start, end], sorted by total descending
func (r *TransactionRepo) SumByCategory(ctx context.Context, txType domain.TransactionType, start, end time.Time) ([]CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE type = ? AND date BETWEEN ? AND ?
		GROUP BY category
		ORDER BY total DESC
	`

	rows, err := r.db.QueryContext(ctx, query,
		string(txType), start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to sum by category: %w", err)
	}
	defer rows.Close()

	totals := make([]CategoryTotal, 0)
	for rows.Next() {
		var ct CategoryTotal
		var category sql.NullString
		if err := rows.Scan(&category, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		ct.Category = category.String
		totals = append(totals, ct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}

	return totals, nil
}

func (r *TransactionRepo) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]*domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}

// scanTransaction parses one transaction row
func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	tx := &domain.Transaction{}
	var txType, date string
	var category, description, createdAt sql.NullString
	var invoiceID sql.NullInt64

	err := row.Scan(
		&tx.ID,
		&txType,
		&tx.Amount,
		&category,
		&description,
		&date,
		&invoiceID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Type = domain.TransactionType(txType)
	tx.Category = category.String
	tx.Description = description.String

	if tx.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}
	if invoiceID.Valid {
		tx.InvoiceID = &invoiceID.Int64
	}
	if createdAt.Valid {
		if tx.CreatedAt, err = parseTime(createdAt.String); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
	}

	return tx, nil
}
