package domain

import (
	"math"
	"testing"
	"time"
)

func TestCalculateTotals(t *testing.T) {
	inv := NewInvoice("INV-2026-001", 1, nil, 10)
	inv.Items = []*InvoiceItem{
		NewInvoiceItem(1, "WAV Lease", 2, 25.00, nil),
		NewInvoiceItem(1, "Mixing", 1, 10.00, nil),
	}

	inv.CalculateTotals()

	if inv.Subtotal != 60.00 {
		t.Errorf("subtotal = %v, want 60.00", inv.Subtotal)
	}
	if math.Abs(inv.TaxAmount-6.00) > 1e-9 {
		t.Errorf("tax amount = %v, want 6.00", inv.TaxAmount)
	}
	if math.Abs(inv.Total-66.00) > 1e-9 {
		t.Errorf("total = %v, want 66.00", inv.Total)
	}
}

func TestCalculateTotalsNoItems(t *testing.T) {
	inv := NewInvoice("INV-2026-002", 1, nil, 19)
	inv.Subtotal, inv.TaxAmount, inv.Total = 99, 9, 108 // stale values

	inv.CalculateTotals()

	if inv.Subtotal != 0 || inv.TaxAmount != 0 || inv.Total != 0 {
		t.Errorf("empty invoice totals = %v/%v/%v, want zeros", inv.Subtotal, inv.TaxAmount, inv.Total)
	}
}

func TestItemTotalDerived(t *testing.T) {
	item := NewInvoiceItem(1, "MP3 Lease", 3, 29.99, nil)
	want := 3 * 29.99
	if math.Abs(item.Total-want) > 1e-9 {
		t.Errorf("item total = %v, want %v", item.Total, want)
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)
	dueToday := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status InvoiceStatus
		due    *time.Time
		want   bool
	}{
		{"sent past due", InvoiceStatusSent, &past, true},
		{"sent due today", InvoiceStatusSent, &dueToday, false},
		{"sent not yet due", InvoiceStatusSent, &future, false},
		{"sent without due date", InvoiceStatusSent, nil, false},
		{"draft past due", InvoiceStatusDraft, &past, false},
		{"paid past due", InvoiceStatusPaid, &past, false},
	}

	for _, tt := range tests {
		inv := &Invoice{Status: tt.status, DueDate: tt.due}
		if got := inv.IsOverdue(now); got != tt.want {
			t.Errorf("%s: IsOverdue = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInvoiceValidate(t *testing.T) {
	inv := NewInvoice("INV-2026-001", 1, nil, 0)
	if err := inv.Validate(); err != nil {
		t.Errorf("valid invoice rejected: %v", err)
	}

	inv.TaxRate = -1
	if err := inv.Validate(); err == nil {
		t.Error("negative tax rate accepted")
	}

	inv.TaxRate = 0
	inv.Status = "overdue" // display-only condition, never storable
	if err := inv.Validate(); err == nil {
		t.Error("overdue accepted as stored status")
	}
}

func TestCanEdit(t *testing.T) {
	inv := NewInvoice("INV-2026-001", 1, nil, 0)
	for status, want := range map[InvoiceStatus]bool{
		InvoiceStatusDraft:     true,
		InvoiceStatusSent:      true,
		InvoiceStatusPaid:      false,
		InvoiceStatusCancelled: false,
	} {
		inv.Status = status
		if got := inv.CanEdit(); got != want {
			t.Errorf("CanEdit(%s) = %v, want %v", status, got, want)
		}
	}
}
