package service

import (
	"context"
	"testing"
	"time"

	"github.com/andy/beatbooks/internal/domain"
)

func TestRevenueStats(t *testing.T) {
	txRepo := &mockTransactionRepo{}
	svc := NewStatsService(newMockInvoiceRepo(), txRepo)
	ctx := context.Background()

	day := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	txRepo.Create(ctx, domain.NewTransaction(domain.TransactionTypeIncome, 300, "Beat Sales", "", day))
	txRepo.Create(ctx, domain.NewTransaction(domain.TransactionTypeIncome, 100, "Mixing Services", "", day))
	txRepo.Create(ctx, domain.NewTransaction(domain.TransactionTypeExpense, 150, "Software/Plugins", "", day))

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	stats, err := svc.RevenueStats(ctx, &start, &end)
	if err != nil {
		t.Fatalf("RevenueStats failed: %v", err)
	}

	if stats.TotalIncome != 400 {
		t.Errorf("expected income 400, got %f", stats.TotalIncome)
	}
	if stats.TotalExpenses != 150 {
		t.Errorf("expected expenses 150, got %f", stats.TotalExpenses)
	}
	if stats.NetProfit != 250 {
		t.Errorf("expected net 250, got %f", stats.NetProfit)
	}
	if len(stats.IncomeByCategory) != 2 {
		t.Errorf("expected 2 income categories, got %d", len(stats.IncomeByCategory))
	}
	if len(stats.ExpenseByCategory) != 1 {
		t.Errorf("expected 1 expense category, got %d", len(stats.ExpenseByCategory))
	}
}

func TestRevenueStatsExcludesOutOfRange(t *testing.T) {
	txRepo := &mockTransactionRepo{}
	svc := NewStatsService(newMockInvoiceRepo(), txRepo)
	ctx := context.Background()

	txRepo.Create(ctx, domain.NewTransaction(domain.TransactionTypeIncome, 300, "Beat Sales", "", time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)))
	txRepo.Create(ctx, domain.NewTransaction(domain.TransactionTypeIncome, 99, "Beat Sales", "", time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)))

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	stats, err := svc.RevenueStats(ctx, &start, &end)
	if err != nil {
		t.Fatalf("RevenueStats failed: %v", err)
	}
	if stats.TotalIncome != 99 {
		t.Errorf("expected only in-range income, got %f", stats.TotalIncome)
	}
}

func TestInvoiceStats(t *testing.T) {
	invoiceRepo := newMockInvoiceRepo()
	svc := NewStatsService(invoiceRepo, &mockTransactionRepo{})
	ctx := context.Background()

	pastDue := time.Now().AddDate(0, 0, -3)
	now := time.Now()

	draft := domain.NewInvoice("INV-2026-001", 1, nil, 0)
	invoiceRepo.Create(ctx, draft)

	sent := domain.NewInvoice("INV-2026-002", 1, &pastDue, 0)
	sent.Status = domain.InvoiceStatusSent
	sent.Total = 120.00
	invoiceRepo.Create(ctx, sent)

	paid := domain.NewInvoice("INV-2026-003", 1, nil, 0)
	paid.Status = domain.InvoiceStatusPaid
	paid.Total = 500.00
	paid.PaidAt = &now
	invoiceRepo.Create(ctx, paid)

	stats, err := svc.InvoiceStats(ctx)
	if err != nil {
		t.Fatalf("InvoiceStats failed: %v", err)
	}

	if stats.StatusCounts[domain.InvoiceStatusDraft] != 1 {
		t.Errorf("expected 1 draft, got %d", stats.StatusCounts[domain.InvoiceStatusDraft])
	}
	if stats.StatusCounts[domain.InvoiceStatusSent] != 1 {
		t.Errorf("expected 1 sent, got %d", stats.StatusCounts[domain.InvoiceStatusSent])
	}
	if stats.OutstandingTotal != 120.00 {
		t.Errorf("expected outstanding 120.00, got %f", stats.OutstandingTotal)
	}
	if stats.PaidThisMonth != 500.00 {
		t.Errorf("expected paid this month 500.00, got %f", stats.PaidThisMonth)
	}
	if stats.OverdueCount != 1 {
		t.Errorf("expected 1 overdue, got %d", stats.OverdueCount)
	}
}
