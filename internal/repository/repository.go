package repository

import (
	"context"
	"errors"
	"time"

	"github.com/andy/beatbooks/internal/domain"
)

var (
	// ErrNoFields is returned by patch updates that carry no recognized fields.
	ErrNoFields = errors.New("no fields to update")
	// ErrNotFound is returned by updates and deletes that affect no rows.
	// Lookups for a missing id return (nil, nil) instead.
	ErrNotFound = errors.New("not found")
)

// ProductPatch carries optional product field updates. Nil fields are left
// untouched.
type ProductPatch struct {
	Title       *string
	Kind        *domain.ProductKind
	Price       *float64
	Description *string
	IsActive    *bool
}

// InvoicePatch carries optional invoice field updates. Status and paid_at
// are excluded: those move only through the lifecycle's SetStatus.
type InvoicePatch struct {
	ClientID *int64
	DueDate  *time.Time
	TaxRate  *float64
	Notes    *string
	Terms    *string
}

// ItemPatch carries optional line item field updates. The item total is
// rederived whenever quantity or unit price changes.
type ItemPatch struct {
	Description *string
	Quantity    *int64
	UnitPrice   *float64
}

// TransactionPatch carries optional transaction field updates.
type TransactionPatch struct {
	Type        *domain.TransactionType
	Amount      *float64
	Category    *string
	Description *string
	Date        *time.Time
}

// TransactionFilter narrows List results; nil members match everything.
type TransactionFilter struct {
	Type      *domain.TransactionType
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

// CategoryTotal is a per-category sum used by revenue breakdowns.
type CategoryTotal struct {
	Category string
	Total    float64
}

// ProductRepository manages the catalog
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) error
	Deactivate(ctx context.Context, id int64) error
}

// ClientRepository manages client persistence
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context, search string) ([]*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id int64) error
}

// InvoiceRepository manages invoices and their line items
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	List(ctx context.Context, status *domain.InvoiceStatus, clientID *int64) ([]*domain.Invoice, error)
	Update(ctx context.Context, id int64, patch InvoicePatch) error
	SetStatus(ctx context.Context, id int64, status domain.InvoiceStatus, paidAt *time.Time) error
	SetTotals(ctx context.Context, id int64, subtotal, taxAmount, total float64) error
	// Delete removes the invoice, its items, and any linked transaction
	// in a single database transaction.
	Delete(ctx context.Context, id int64) error

	AddItem(ctx context.Context, item *domain.InvoiceItem) error
	GetItem(ctx context.Context, itemID int64) (*domain.InvoiceItem, error)
	GetItems(ctx context.Context, invoiceID int64) ([]*domain.InvoiceItem, error)
	UpdateItem(ctx context.Context, itemID int64, patch ItemPatch) error
	DeleteItem(ctx context.Context, itemID int64) error

	// NextNumber returns the next invoice number for the year in
	// PREFIX-YEAR-NNN form, starting at 001.
	NextNumber(ctx context.Context, prefix string, year int) (string, error)

	// Read-side aggregates for the statistics engine
	CountByStatus(ctx context.Context) (map[domain.InvoiceStatus]int, error)
	OutstandingTotal(ctx context.Context) (float64, error)
	PaidTotalSince(ctx context.Context, since time.Time) (float64, error)
	OverdueCount(ctx context.Context, today time.Time) (int, error)
}

// TransactionRepository manages the income/expense ledger
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error)
	Recent(ctx context.Context, limit int) ([]*domain.Transaction, error)
	Update(ctx context.Context, id int64, patch TransactionPatch) error
	Delete(ctx context.Context, id int64) error
	DeleteByInvoice(ctx context.Context, invoiceID int64) error

	// Read-side aggregates for goal progress and revenue stats
	SumByType(ctx context.Context, txType domain.TransactionType, start, end time.Time) (float64, error)
	SumByCategory(ctx context.Context, txType domain.TransactionType, start, end time.Time) ([]CategoryTotal, error)
}

// GoalRepository manages business goals
type GoalRepository interface {
	// Upsert inserts a goal or updates the target of the goal already
	// covering (type, start date).
	Upsert(ctx context.Context, goal *domain.BusinessGoal) error
	GetByPeriod(ctx context.Context, goalType domain.GoalType, startDate time.Time) (*domain.BusinessGoal, error)
}
