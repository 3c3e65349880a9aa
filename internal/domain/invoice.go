package domain

import (
	"errors"
	"time"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceStatuses lists every storable status. Overdue is intentionally
// absent: it is derived at query time from sent invoices past their due
// date and never written to the database.
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPaid,
	InvoiceStatusCancelled,
}

// ValidStatus reports whether s is a storable invoice status.
func ValidStatus(s InvoiceStatus) bool {
	for _, known := range InvoiceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Invoice struct {
	ID            int64
	InvoiceNumber string
	ClientID      int64
	Status        InvoiceStatus
	CreatedDate   time.Time
	DueDate       *time.Time
	TaxRate       float64 // percentage, e.g. 10 for 10%
	Subtotal      float64
	TaxAmount     float64
	Total         float64
	PaidAt        *time.Time
	Notes         string
	Terms         string
	CreatedAt     time.Time

	// Related data (populated by repository)
	Items       []*InvoiceItem
	ClientName  string
	ClientEmail string
}

type InvoiceItem struct {
	ID          int64
	InvoiceID   int64
	Description string
	Quantity    int64
	UnitPrice   float64
	Total       float64 // quantity * unit price, derived
	ProductID   *int64
}

// NewInvoice creates a new draft invoice
func NewInvoice(invoiceNumber string, clientID int64, dueDate *time.Time, taxRate float64) *Invoice {
	now := time.Now()
	return &Invoice{
		InvoiceNumber: invoiceNumber,
		ClientID:      clientID,
		Status:        InvoiceStatusDraft,
		CreatedDate:   now,
		DueDate:       dueDate,
		TaxRate:       taxRate,
		CreatedAt:     now,
		Items:         make([]*InvoiceItem, 0),
	}
}

// NewInvoiceItem creates a line item with its derived total
func NewInvoiceItem(invoiceID int64, description string, quantity int64, unitPrice float64, productID *int64) *InvoiceItem {
	return &InvoiceItem{
		InvoiceID:   invoiceID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       float64(quantity) * unitPrice,
		ProductID:   productID,
	}
}

// CanEdit returns true if line items may still be attached or changed.
// Paid and cancelled invoices are frozen.
func (i *Invoice) CanEdit() bool {
	return i.Status == InvoiceStatusDraft || i.Status == InvoiceStatusSent
}

// IsOverdue reports whether the invoice is sent and past its due date.
// This is a display condition, never a stored status. The comparison is
// by calendar day, so an invoice is not overdue on its due date.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.Status != InvoiceStatusSent || i.DueDate == nil {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, i.DueDate.Location())
	return i.DueDate.Before(today)
}

// CalculateTotals recomputes subtotal, tax, and total from line items.
// The three fields are derived, never authored.
func (i *Invoice) CalculateTotals() {
	i.Subtotal = 0
	for _, item := range i.Items {
		i.Subtotal += item.Total
	}
	i.TaxAmount = i.Subtotal * (i.TaxRate / 100)
	i.Total = i.Subtotal + i.TaxAmount
}

// Validate returns an error if the invoice is invalid
func (i *Invoice) Validate() error {
	if i.InvoiceNumber == "" {
		return errors.New("invoice number is required")
	}
	if i.ClientID <= 0 {
		return errors.New("client ID is required")
	}
	if !ValidStatus(i.Status) {
		return errors.New("invalid invoice status")
	}
	if i.TaxRate < 0 {
		return errors.New("tax rate cannot be negative")
	}
	return nil
}
