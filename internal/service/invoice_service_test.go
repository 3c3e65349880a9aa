package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andy/beatbooks/internal/domain"
	"github.com/andy/beatbooks/internal/repository"
)

func newTestInvoiceService() (InvoiceService, *mockInvoiceRepo, *mockProductRepo, *mockLedger) {
	invoiceRepo := newMockInvoiceRepo()
	productRepo := newMockProductRepo()
	ledger := &mockLedger{}
	svc := NewInvoiceService(invoiceRepo, productRepo, &mockClientRepo{}, ledger, "INV")
	return svc, invoiceRepo, productRepo, ledger
}

func TestCreateDraft(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	invoice, err := svc.CreateDraft(ctx, 1, nil, 10.0, "thanks", "net 30")
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	if invoice.InvoiceNumber != "INV-2026-001" {
		t.Errorf("expected number INV-2026-001, got %s", invoice.InvoiceNumber)
	}
	if invoice.Status != domain.InvoiceStatusDraft {
		t.Errorf("expected draft status, got %s", invoice.Status)
	}
	if invoice.Total != 0 {
		t.Errorf("expected zero total on fresh draft, got %f", invoice.Total)
	}
	if invoice.ClientName != "Lil Test" {
		t.Errorf("expected client name attached, got %q", invoice.ClientName)
	}
}

func TestCreateDraftUnknownClient(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()

	_, err := svc.CreateDraft(context.Background(), 0, nil, 0, "", "")
	if !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestAddItemRecalculatesTotals(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	invoice, err := svc.CreateDraft(ctx, 1, nil, 10.0, "", "")
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	if _, err := svc.AddItem(ctx, invoice.ID, "MP3 Lease", 2, 25.00); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := svc.AddItem(ctx, invoice.ID, "Mixing", 1, 10.00); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	got, err := svc.GetInvoice(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if got.Subtotal != 60.00 {
		t.Errorf("expected subtotal 60.00, got %f", got.Subtotal)
	}
	if got.TaxAmount != 6.00 {
		t.Errorf("expected tax 6.00, got %f", got.TaxAmount)
	}
	if got.Total != 66.00 {
		t.Errorf("expected total 66.00, got %f", got.Total)
	}
	if len(got.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(got.Items))
	}
}

func TestRemoveItemRecalculatesTotals(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	invoice, _ := svc.CreateDraft(ctx, 1, nil, 0, "", "")
	item, _ := svc.AddItem(ctx, invoice.ID, "WAV Lease", 1, 49.99)
	if _, err := svc.AddItem(ctx, invoice.ID, "Exclusive", 1, 500.00); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if err := svc.RemoveItem(ctx, item.ID); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}

	got, _ := svc.GetInvoice(ctx, invoice.ID)
	if got.Total != 500.00 {
		t.Errorf("expected total 500.00 after removal, got %f", got.Total)
	}
}

func TestUpdateItemRederivesLineTotal(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	invoice, _ := svc.CreateDraft(ctx, 1, nil, 0, "", "")
	item, _ := svc.AddItem(ctx, invoice.ID, "Stems", 1, 50.00)

	qty := int64(3)
	if err := svc.UpdateItem(ctx, item.ID, repository.ItemPatch{Quantity: &qty}); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	got, _ := svc.GetInvoice(ctx, invoice.ID)
	if got.Items[0].Total != 150.00 {
		t.Errorf("expected line total 150.00, got %f", got.Items[0].Total)
	}
	if got.Subtotal != 150.00 {
		t.Errorf("expected subtotal 150.00, got %f", got.Subtotal)
	}
}

func TestAddProductItemCopiesProduct(t *testing.T) {
	svc, _, productRepo, _ := newTestInvoiceService()
	ctx := context.Background()

	product := domain.NewProduct("Trackout/Stems", domain.ProductKindLicense, 99.99, "")
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("product create failed: %v", err)
	}

	invoice, _ := svc.CreateDraft(ctx, 1, nil, 0, "", "")
	item, err := svc.AddProductItem(ctx, invoice.ID, product.ID, 2)
	if err != nil {
		t.Fatalf("AddProductItem failed: %v", err)
	}

	if item.Description != "Trackout/Stems" {
		t.Errorf("expected copied title, got %q", item.Description)
	}
	if item.UnitPrice != 99.99 {
		t.Errorf("expected copied price 99.99, got %f", item.UnitPrice)
	}
	if item.ProductID == nil || *item.ProductID != product.ID {
		t.Error("expected item linked to product")
	}

	// Later price changes must not touch the recorded item
	newPrice := 149.99
	if err := productRepo.Update(ctx, product.ID, repository.ProductPatch{Price: &newPrice}); err != nil {
		t.Fatalf("product update failed: %v", err)
	}
	got, _ := svc.GetInvoice(ctx, invoice.ID)
	if got.Items[0].UnitPrice != 99.99 {
		t.Errorf("item price changed after product update: %f", got.Items[0].UnitPrice)
	}
}

func TestItemEditsRejectedWhenNotEditable(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	invoice, _ := svc.CreateDraft(ctx, 1, nil, 0, "", "")
	item, _ := svc.AddItem(ctx, invoice.ID, "Beat", 1, 100.00)

	if err := svc.SetStatus(ctx, invoice.ID, domain.InvoiceStatusPaid); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	if _, err := svc.AddItem(ctx, invoice.ID, "Extra", 1, 10.00); !errors.Is(err, ErrInvoiceNotEditable) {
		t.Errorf("AddItem on paid invoice: expected ErrInvoiceNotEditable, got %v", err)
	}
	qty := int64(2)
	if err := svc.UpdateItem(ctx, item.ID, repository.ItemPatch{Quantity: &qty}); !errors.Is(err, ErrInvoiceNotEditable) {
		t.Errorf("UpdateItem on paid invoice: expected ErrInvoiceNotEditable, got %v", err)
	}
	if err := svc.RemoveItem(ctx, item.ID); !errors.Is(err, ErrInvoiceNotEditable) {
		t.Errorf("RemoveItem on paid invoice: expected ErrInvoiceNotEditable, got %v", err)
	}
}

func TestSetStatusPaidFiresLedgerEvent(t *testing.T) {
	svc, _, _, ledger := newTestInvoiceService()
	ctx := context.Background()

	invoice, _ := svc.CreateDraft(ctx, 1, nil, 10.0, "", "")
	svc.AddItem(ctx, invoice.ID, "MP3 Lease", 2, 25.00)
	svc.AddItem(ctx, invoice.ID, "Mixing", 1, 10.00)

	if err := svc.SetStatus(ctx, invoice.ID, domain.InvoiceStatusPaid); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	if len(ledger.paidEvents) != 1 {
		t.Fatalf("expected 1 paid event, got %d", len(ledger.paidEvents))
	}
	if ledger.paidEvents[0].Total != 66.00 {
		t.Errorf("expected event total 66.00, got %f", ledger.paidEvents[0].Total)
	}

	got, _ := svc.GetInvoice(ctx, invoice.ID)
	if got.PaidAt == nil {
		t.Error("expected paid_at stamped")
	}
}

func TestSetStatusPaidIdempotent(t *testing.T) {
	svc, _, _, ledger := newTestInvoiceService()
	ctx := context.Background()

	invoice, _ := svc.CreateDraft(ctx, 1, nil, 0, "", "")
	svc.AddItem(ctx, invoice.ID, "Beat", 1, 100.00)

	if err := svc.SetStatus(ctx, invoice.ID, domain.InvoiceStatusPaid); err != nil {
		t.Fatalf("first SetStatus failed: %v", err)
	}
	firstPaidAt, _ := svc.GetInvoice(ctx, invoice.ID)

	if err := svc.SetStatus(ctx, invoice.ID, domain.InvoiceStatusPaid); err != nil {
		t.Fatalf("second SetStatus failed: %v", err)
	}

	if len(ledger.paidEvents) != 1 {
		t.Errorf("repeated paid call fired %d events, want 1", len(ledger.paidEvents))
	}
	got, _ := svc.GetInvoice(ctx, invoice.ID)
	if got.PaidAt == nil || !got.PaidAt.Equal(*firstPaidAt.PaidAt) {
		t.Error("repeated paid call should preserve the original paid_at")
	}
}

func TestSetStatusLeavingPaidRemovesLedgerEntry(t *testing.T) {
	svc, _, _, ledger := newTestInvoiceService()
	ctx := context.Background()

	invoice, _ := svc.CreateDraft(ctx, 1, nil, 0, "", "")
	svc.AddItem(ctx, invoice.ID, "Beat", 1, 100.00)

	svc.SetStatus(ctx, invoice.ID, domain.InvoiceStatusPaid)
	if err := svc.SetStatus(ctx, invoice.ID, domain.InvoiceStatusSent); err != nil {
		t.Fatalf("SetStatus back to sent failed: %v", err)
	}

	if len(ledger.unpaidEvents) != 1 {
		t.Fatalf("expected 1 unpaid event, got %d", len(ledger.unpaidEvents))
	}
	if ledger.unpaidEvents[0] != invoice.ID {
		t.Errorf("unpaid event for invoice %d, want %d", ledger.unpaidEvents[0], invoice.ID)
	}

	got, _ := svc.GetInvoice(ctx, invoice.ID)
	if got.PaidAt != nil {
		t.Error("expected paid_at cleared after leaving paid")
	}
	if got.Status != domain.InvoiceStatusSent {
		t.Errorf("expected sent status, got %s", got.Status)
	}
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	invoice, _ := svc.CreateDraft(ctx, 1, nil, 0, "", "")

	for _, status := range []domain.InvoiceStatus{"overdue", "void", ""} {
		if err := svc.SetStatus(ctx, invoice.ID, status); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("status %q: expected ErrInvalidStatus, got %v", status, err)
		}
	}
}

func TestUpdateInvoiceRecalculatesTotals(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	invoice, _ := svc.CreateDraft(ctx, 1, nil, 10.0, "", "")
	svc.AddItem(ctx, invoice.ID, "Beat", 1, 100.00)

	newRate := 20.0
	if err := svc.UpdateInvoice(ctx, invoice.ID, repository.InvoicePatch{TaxRate: &newRate}); err != nil {
		t.Fatalf("UpdateInvoice failed: %v", err)
	}

	got, _ := svc.GetInvoice(ctx, invoice.ID)
	if got.TaxAmount != 20.00 {
		t.Errorf("expected tax 20.00 after rate change, got %f", got.TaxAmount)
	}
	if got.Total != 120.00 {
		t.Errorf("expected total 120.00 after rate change, got %f", got.Total)
	}
}

func TestUpdateInvoiceNotFound(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()

	rate := 5.0
	err := svc.UpdateInvoice(context.Background(), 999, repository.InvoicePatch{TaxRate: &rate})
	if !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestDeleteInvoice(t *testing.T) {
	svc, invoiceRepo, _, _ := newTestInvoiceService()
	ctx := context.Background()

	invoice, _ := svc.CreateDraft(ctx, 1, nil, 0, "", "")
	svc.AddItem(ctx, invoice.ID, "Beat", 1, 100.00)
	svc.SetStatus(ctx, invoice.ID, domain.InvoiceStatusPaid)

	if err := svc.DeleteInvoice(ctx, invoice.ID); err != nil {
		t.Fatalf("DeleteInvoice failed: %v", err)
	}

	if len(invoiceRepo.deleted) != 1 || invoiceRepo.deleted[0] != invoice.ID {
		t.Error("expected invoice handed to repository delete")
	}
	got, _ := svc.GetInvoice(ctx, invoice.ID)
	if got != nil {
		t.Error("expected invoice gone after delete")
	}
}

func TestGetInvoiceMissing(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()

	got, err := svc.GetInvoice(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing invoice")
	}
}

func TestListInvoicesFilterByStatus(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	a, _ := svc.CreateDraft(ctx, 1, nil, 0, "", "")
	b, _ := svc.CreateDraft(ctx, 1, nil, 0, "", "")
	_ = a
	svc.SetStatus(ctx, b.ID, domain.InvoiceStatusSent)

	sent := domain.InvoiceStatusSent
	list, err := svc.ListInvoices(ctx, &sent, nil)
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("expected only the sent invoice, got %d results", len(list))
	}
}

func TestOverdueIsDerivedNotStored(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	due := time.Now().AddDate(0, 0, -5)
	invoice, _ := svc.CreateDraft(ctx, 1, &due, 0, "", "")
	svc.SetStatus(ctx, invoice.ID, domain.InvoiceStatusSent)

	got, _ := svc.GetInvoice(ctx, invoice.ID)
	if got.Status != domain.InvoiceStatusSent {
		t.Errorf("stored status must stay sent, got %s", got.Status)
	}
	if !got.IsOverdue(time.Now()) {
		t.Error("expected invoice reported overdue")
	}
}
