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

// InvoiceRepo is a SQLite implementation of InvoiceRepository
type InvoiceRepo struct {
	db *db.DB
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(database *db.DB) *InvoiceRepo {
	return &InvoiceRepo{db: database}
}

const invoiceColumns = `
	i.id, i.invoice_number, i.client_id, i.status, i.due_date, i.created_date,
	i.tax_rate, i.subtotal, i.tax_amount, i.total, i.notes, i.terms,
	i.paid_at, i.created_at, c.name, c.email
`

// Create inserts a new invoice into the database
func (r *InvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return fmt.Errorf("invalid invoice: %w", err)
	}

	query := `
		INSERT INTO invoices (
			invoice_number, client_id, status, due_date, created_date,
			tax_rate, subtotal, tax_amount, total, notes, terms, paid_at, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		invoice.InvoiceNumber,
		invoice.ClientID,
		string(invoice.Status),
		nullDate(invoice.DueDate),
		invoice.CreatedDate.Format(dateLayout),
		invoice.TaxRate,
		invoice.Subtotal,
		invoice.TaxAmount,
		invoice.Total,
		invoice.Notes,
		invoice.Terms,
		nullTime(invoice.PaidAt),
		invoice.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get invoice ID: %w", err)
	}

	invoice.ID = id
	return nil
}

// GetByID retrieves an invoice with its client's name and email.
// A missing id returns (nil, nil).
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		LEFT JOIN clients c ON i.client_id = c.id
		WHERE i.id = ?
	`

	invoice, err := r.scanInvoiceRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return invoice, nil
}

// List retrieves invoices with optional filters, most recent first
func (r *InvoiceRepo) List(ctx context.Context, status *domain.InvoiceStatus, clientID *int64) ([]*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		LEFT JOIN clients c ON i.client_id = c.id
		WHERE 1=1
	`
	args := make([]interface{}, 0)

	if status != nil {
		query += " AND i.status = ?"
		args = append(args, string(*status))
	}

	if clientID != nil {
		query += " AND i.client_id = ?"
		args = append(args, *clientID)
	}

	query += " ORDER BY i.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0)
	for rows.Next() {
		invoice, err := r.scanInvoiceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	return invoices, nil
}

// Update applies a partial update to invoice fields. Status and paid_at
// are lifecycle-owned and not reachable from here.
func (r *InvoiceRepo) Update(ctx context.Context, id int64, patch InvoicePatch) error {
	updates := make([]string, 0)
	args := make([]interface{}, 0)

	if patch.ClientID != nil {
		updates = append(updates, "client_id = ?")
		args = append(args, *patch.ClientID)
	}
	if patch.DueDate != nil {
		updates = append(updates, "due_date = ?")
		args = append(args, patch.DueDate.Format(dateLayout))
	}
	if patch.TaxRate != nil {
		updates = append(updates, "tax_rate = ?")
		args = append(args, *patch.TaxRate)
	}
	if patch.Notes != nil {
		updates = append(updates, "notes = ?")
		args = append(args, *patch.Notes)
	}
	if patch.Terms != nil {
		updates = append(updates, "terms = ?")
		args = append(args, *patch.Terms)
	}

	if len(updates) == 0 {
		return ErrNoFields
	}

	args = append(args, id)
	query := "UPDATE invoices SET " + joinUpdates(updates) + " WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return requireRows(result)
}

// SetStatus updates the stored status and paid_at timestamp
func (r *InvoiceRepo) SetStatus(ctx context.Context, id int64, status domain.InvoiceStatus, paidAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE invoices SET status = ?, paid_at = ? WHERE id = ?",
		string(status), nullTime(paidAt), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set invoice status: %w", err)
	}
	return requireRows(result)
}

// SetTotals persists the three derived total fields together
func (r *InvoiceRepo) SetTotals(ctx context.Context, id int64, subtotal, taxAmount, total float64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE invoices SET subtotal = ?, tax_amount = ?, total = ? WHERE id = ?",
		subtotal, taxAmount, total, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set invoice totals: %w", err)
	}
	return requireRows(result)
}

// Delete removes the invoice, its items, and any linked ledger transaction
// inside a single database transaction so no orphans survive a partial
// failure.
func (r *InvoiceRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM invoice_items WHERE invoice_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete invoice items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE invoice_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete linked transactions: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if err := requireRows(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invoice delete: %w", err)
	}
	return nil
}

// AddItem adds a line item to an invoice
func (r *InvoiceRepo) AddItem(ctx context.Context, item *domain.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (invoice_id, description, quantity, unit_price, total, product_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var productID interface{}
	if item.ProductID != nil {
		productID = *item.ProductID
	}

	result, err := r.db.ExecContext(ctx, query,
		item.InvoiceID,
		item.Description,
		item.Quantity,
		item.UnitPrice,
		item.Total,
		productID,
	)
	if err != nil {
		return fmt.Errorf("failed to add invoice item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get item ID: %w", err)
	}

	item.ID = id
	return nil
}

// GetItem retrieves a single line item. A missing id returns (nil, nil).
func (r *InvoiceRepo) GetItem(ctx context.Context, itemID int64) (*domain.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, total, product_id
		FROM invoice_items
		WHERE id = ?
	`

	item := &domain.InvoiceItem{}
	var productID sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID,
		&item.InvoiceID,
		&item.Description,
		&item.Quantity,
		&item.UnitPrice,
		&item.Total,
		&productID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice item: %w", err)
	}

	if productID.Valid {
		item.ProductID = &productID.Int64
	}
	return item, nil
}

// GetItems retrieves all line items for an invoice in insertion order
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID int64) ([]*domain.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, total, product_id
		FROM invoice_items
		WHERE invoice_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.InvoiceItem, 0)
	for rows.Next() {
		item := &domain.InvoiceItem{}
		var productID sql.NullInt64

		err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.Total,
			&productID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}

		if productID.Valid {
			item.ProductID = &productID.Int64
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice items: %w", err)
	}

	return items, nil
}

// UpdateItem applies a partial update to a line item, rederiving the item
// total when quantity or unit price changes.
func (r *InvoiceRepo) UpdateItem(ctx context.Context, itemID int64, patch ItemPatch) error {
	updates := make([]string, 0)
	args := make([]interface{}, 0)

	if patch.Description != nil {
		updates = append(updates, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Quantity != nil {
		updates = append(updates, "quantity = ?")
		args = append(args, *patch.Quantity)
	}
	if patch.UnitPrice != nil {
		updates = append(updates, "unit_price = ?")
		args = append(args, *patch.UnitPrice)
	}

	if len(updates) == 0 {
		return ErrNoFields
	}

	if patch.Quantity != nil || patch.UnitPrice != nil {
		current, err := r.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrNotFound
		}

		quantity := current.Quantity
		if patch.Quantity != nil {
			quantity = *patch.Quantity
		}
		unitPrice := current.UnitPrice
		if patch.UnitPrice != nil {
			unitPrice = *patch.UnitPrice
		}

		updates = append(updates, "total = ?")
		args = append(args, float64(quantity)*unitPrice)
	}

	args = append(args, itemID)
	query := "UPDATE invoice_items SET " + joinUpdates(updates) + " WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update invoice item: %w", err)
	}
	return requireRows(result)
}

// DeleteItem removes a line item
func (r *InvoiceRepo) DeleteItem(ctx context.Context, itemID int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invoice_items WHERE id = ?", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice item: %w", err)
	}
	return requireRows(result)
}

// NextNumber generates the next invoice number in format "PREFIX-YEAR-NNN"
func (r *InvoiceRepo) NextNumber(ctx context.Context, prefix string, year int) (string, error) {
	// Find the highest sequence number for the given prefix and year
	query := `
		SELECT invoice_number
		FROM invoices
		WHERE invoice_number LIKE ?
		ORDER BY invoice_number DESC
		LIMIT 1
	`

	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	var lastNumber string

	err := r.db.QueryRowContext(ctx, query, pattern).Scan(&lastNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No existing invoices for this year, start at 001
			return fmt.Sprintf("%s-%d-001", prefix, year), nil
		}
		return "", fmt.Errorf("failed to get last invoice number: %w", err)
	}

	// Parse the sequence number from the last invoice
	// Format: PREFIX-YEAR-SEQUENCE (e.g., "INV-2026-005")
	var lastSeq int
	_, err = fmt.Sscanf(lastNumber, prefix+"-%d-%d", &year, &lastSeq)
	if err != nil {
		// Fallback: start at 001 if we can't parse
		return fmt.Sprintf("%s-%d-001", prefix, year), nil
	}

	// Increment and format
	nextSeq := lastSeq + 1
	return fmt.Sprintf("%s-%d-%03d", prefix, year, nextSeq), nil
}

// CountByStatus returns invoice counts per stored status
func (r *InvoiceRepo) CountByStatus(ctx context.Context) (map[domain.InvoiceStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM invoices GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.InvoiceStatus]int)
	for _, status := range domain.InvoiceStatuses {
		counts[status] = 0
	}

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[domain.InvoiceStatus(status)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	return counts, nil
}

// OutstandingTotal sums the totals of sent invoices
func (r *InvoiceRepo) OutstandingTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status = ?",
		string(domain.InvoiceStatusSent),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum outstanding invoices: %w", err)
	}
	return total, nil
}

// PaidTotalSince sums the totals of invoices paid on or after the given day
func (r *InvoiceRepo) PaidTotalSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status = ? AND DATE(paid_at) >= ?",
		string(domain.InvoiceStatusPaid), since.Format(dateLayout),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum paid invoices: %w", err)
	}
	return total, nil
}

// OverdueCount counts sent invoices whose due date has passed
func (r *InvoiceRepo) OverdueCount(ctx context.Context, today time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM invoices WHERE status = ? AND due_date < ?",
		string(domain.InvoiceStatusSent), today.Format(dateLayout),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue invoices: %w", err)
	}
	return count, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanInvoiceRow parses one invoice row including the joined client columns
func (r *InvoiceRepo) scanInvoiceRow(row rowScanner) (*domain.Invoice, error) {
	invoice := &domain.Invoice{}
	var status, createdDate string
	var dueDate, notes, terms, paidAt, createdAt, clientName, clientEmail sql.NullString

	err := row.Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&invoice.ClientID,
		&status,
		&dueDate,
		&createdDate,
		&invoice.TaxRate,
		&invoice.Subtotal,
		&invoice.TaxAmount,
		&invoice.Total,
		&notes,
		&terms,
		&paidAt,
		&createdAt,
		&clientName,
		&clientEmail,
	)
	if err != nil {
		return nil, err
	}

	invoice.Status = domain.InvoiceStatus(status)
	invoice.Notes = notes.String
	invoice.Terms = terms.String
	invoice.ClientName = clientName.String
	invoice.ClientEmail = clientEmail.String

	if invoice.CreatedDate, err = parseDate(createdDate); err != nil {
		return nil, fmt.Errorf("failed to parse created_date: %w", err)
	}
	if invoice.DueDate, err = scanNullDate(dueDate); err != nil {
		return nil, fmt.Errorf("failed to parse due_date: %w", err)
	}
	if invoice.PaidAt, err = scanNullTime(paidAt); err != nil {
		return nil, fmt.Errorf("failed to parse paid_at: %w", err)
	}
	if createdAt.Valid {
		if invoice.CreatedAt, err = parseTime(createdAt.String); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
	}

	return invoice, nil
}
