package domain

import (
	"errors"
	"time"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// SalesCategory is the income category assigned to ledger entries created
// automatically when an invoice is marked paid.
const SalesCategory = "Beat Sales"

// IncomeCategories is the conventional category list for income entries.
// Category remains a free string; these only seed pickers.
var IncomeCategories = []string{
	"Beat Sales",
	"Exclusive Sales",
	"Services",
	"Royalties",
	"Other Income",
}

// ExpenseCategories is the conventional category list for expense entries.
var ExpenseCategories = []string{
	"Studio Gear",
	"Software/Plugins",
	"Subscriptions",
	"Marketing",
	"Distribution",
	"Other Expense",
}

// Transaction is a dated income or expense ledger entry. InvoiceID is set
// only on the entry auto-generated when that invoice became paid; at most
// one transaction carries a given invoice reference at any time.
type Transaction struct {
	ID          int64
	Type        TransactionType
	Amount      float64
	Category    string
	Description string
	Date        time.Time
	InvoiceID   *int64
	CreatedAt   time.Time
}

// NewTransaction creates a transaction dated today by default
func NewTransaction(txType TransactionType, amount float64, category, description string, date time.Time) *Transaction {
	if date.IsZero() {
		date = time.Now()
	}
	return &Transaction{
		Type:        txType,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
		CreatedAt:   time.Now(),
	}
}

// Validate returns an error if the transaction is invalid
func (t *Transaction) Validate() error {
	if t.Type != TransactionTypeIncome && t.Type != TransactionTypeExpense {
		return errors.New("transaction type must be income or expense")
	}
	if t.Amount <= 0 {
		return errors.New("transaction amount must be greater than zero")
	}
	if t.Date.IsZero() {
		return errors.New("transaction date is required")
	}
	return nil
}
