package service

import (
	"context"
	"time"

	"github.com/andy/beatbooks/internal/domain"
	"github.com/andy/beatbooks/internal/repository"
)

// RevenueStats aggregates the ledger over a date range
type RevenueStats struct {
	TotalIncome       float64
	TotalExpenses     float64
	NetProfit         float64
	IncomeByCategory  []repository.CategoryTotal // sorted by total descending
	ExpenseByCategory []repository.CategoryTotal
	StartDate         time.Time
	EndDate           time.Time
}

// InvoiceStats aggregates invoice state for reporting
type InvoiceStats struct {
	StatusCounts     map[domain.InvoiceStatus]int
	OutstandingTotal float64 // sent invoices
	PaidThisMonth    float64
	OverdueCount     int // sent invoices past their due date
}

// StatsService is the read-side aggregation layer over invoices and the
// ledger; it holds no state of its own
type StatsService interface {
	// RevenueStats aggregates income and expenses over [start, end].
	// Nil bounds default to the first of the current month and today.
	RevenueStats(ctx context.Context, start, end *time.Time) (*RevenueStats, error)

	// InvoiceStats reports counts per status, outstanding and paid totals,
	// and the derived overdue count
	InvoiceStats(ctx context.Context) (*InvoiceStats, error)
}

type statsService struct {
	invoiceRepo repository.InvoiceRepository
	txRepo      repository.TransactionRepository
}

// NewStatsService creates a new stats service
func NewStatsService(invoiceRepo repository.InvoiceRepository, txRepo repository.TransactionRepository) StatsService {
	return &statsService{
		invoiceRepo: invoiceRepo,
		txRepo:      txRepo,
	}
}

func (s *statsService) RevenueStats(ctx context.Context, start, end *time.Time) (*RevenueStats, error) {
	now := time.Now()

	var rangeStart, rangeEnd time.Time
	if start != nil {
		rangeStart = *start
	} else {
		rangeStart, _ = domain.MonthBounds(now)
	}
	if end != nil {
		rangeEnd = *end
	} else {
		rangeEnd = now
	}

	income, err := s.txRepo.SumByType(ctx, domain.TransactionTypeIncome, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	expenses, err := s.txRepo.SumByType(ctx, domain.TransactionTypeExpense, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	incomeByCategory, err := s.txRepo.SumByCategory(ctx, domain.TransactionTypeIncome, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	expenseByCategory, err := s.txRepo.SumByCategory(ctx, domain.TransactionTypeExpense, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	return &RevenueStats{
		TotalIncome:       income,
		TotalExpenses:     expenses,
		NetProfit:         income - expenses,
		IncomeByCategory:  incomeByCategory,
		ExpenseByCategory: expenseByCategory,
		StartDate:         rangeStart,
		EndDate:           rangeEnd,
	}, nil
}

func (s *statsService) InvoiceStats(ctx context.Context) (*InvoiceStats, error) {
	now := time.Now()

	counts, err := s.invoiceRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.invoiceRepo.OutstandingTotal(ctx)
	if err != nil {
		return nil, err
	}

	monthStart, _ := domain.MonthBounds(now)
	paidThisMonth, err := s.invoiceRepo.PaidTotalSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	overdue, err := s.invoiceRepo.OverdueCount(ctx, now)
	if err != nil {
		return nil, err
	}

	return &InvoiceStats{
		StatusCounts:     counts,
		OutstandingTotal: outstanding,
		PaidThisMonth:    paidThisMonth,
		OverdueCount:     overdue,
	}, nil
}
