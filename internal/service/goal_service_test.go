package service

import (
	"context"
	"testing"
	"time"

	"github.com/andy/beatbooks/internal/domain"
)

func TestSetMonthlyGoal(t *testing.T) {
	goalRepo := newMockGoalRepo()
	svc := NewGoalService(goalRepo, &mockTransactionRepo{})
	ctx := context.Background()

	goal, err := svc.SetMonthlyGoal(ctx, 2000, "2026-06")
	if err != nil {
		t.Fatalf("SetMonthlyGoal failed: %v", err)
	}
	if goal.StartDate.Day() != 1 || goal.StartDate.Month() != time.June {
		t.Errorf("expected start 2026-06-01, got %s", goal.StartDate.Format("2006-01-02"))
	}
	if goal.EndDate.Day() != 30 {
		t.Errorf("expected end on June 30, got %s", goal.EndDate.Format("2006-01-02"))
	}
}

func TestSetMonthlyGoalReplacesTarget(t *testing.T) {
	goalRepo := newMockGoalRepo()
	svc := NewGoalService(goalRepo, &mockTransactionRepo{})
	ctx := context.Background()

	first, _ := svc.SetMonthlyGoal(ctx, 1000, "2026-06")
	second, err := svc.SetMonthlyGoal(ctx, 2500, "2026-06")
	if err != nil {
		t.Fatalf("second SetMonthlyGoal failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected same goal row updated, got ids %d and %d", first.ID, second.ID)
	}
	got, _ := svc.GetMonthlyGoal(ctx, "2026-06")
	if got.TargetAmount != 2500 {
		t.Errorf("expected target 2500 after replace, got %f", got.TargetAmount)
	}
}

func TestSetMonthlyGoalBadMonth(t *testing.T) {
	svc := NewGoalService(newMockGoalRepo(), &mockTransactionRepo{})

	if _, err := svc.SetMonthlyGoal(context.Background(), 1000, "June 2026"); err == nil {
		t.Error("expected malformed month rejected")
	}
}

func TestGetProgress(t *testing.T) {
	goalRepo := newMockGoalRepo()
	txRepo := &mockTransactionRepo{}
	svc := NewGoalService(goalRepo, txRepo)
	ctx := context.Background()

	if _, err := svc.SetMonthlyGoal(ctx, 2000, "2026-06"); err != nil {
		t.Fatalf("SetMonthlyGoal failed: %v", err)
	}

	june := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	txRepo.Create(ctx, domain.NewTransaction(domain.TransactionTypeIncome, 400, "Beat Sales", "", june))
	txRepo.Create(ctx, domain.NewTransaction(domain.TransactionTypeIncome, 100, "Mixing Services", "", june))
	// Expenses and out-of-month income must not count
	txRepo.Create(ctx, domain.NewTransaction(domain.TransactionTypeExpense, 300, "Marketing/Promo", "", june))
	txRepo.Create(ctx, domain.NewTransaction(domain.TransactionTypeIncome, 900, "Beat Sales", "", june.AddDate(0, 1, 0)))

	progress, err := svc.GetProgress(ctx, "2026-06")
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}

	if !progress.HasGoal {
		t.Fatal("expected HasGoal")
	}
	if progress.Current != 500 {
		t.Errorf("expected current 500, got %f", progress.Current)
	}
	if progress.Percentage != 25 {
		t.Errorf("expected 25%%, got %f", progress.Percentage)
	}
}

func TestGetProgressClampedAtHundred(t *testing.T) {
	goalRepo := newMockGoalRepo()
	txRepo := &mockTransactionRepo{}
	svc := NewGoalService(goalRepo, txRepo)
	ctx := context.Background()

	svc.SetMonthlyGoal(ctx, 1000, "2026-06")
	june := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	txRepo.Create(ctx, domain.NewTransaction(domain.TransactionTypeIncome, 1500, "Beat Sales", "", june))

	progress, err := svc.GetProgress(ctx, "2026-06")
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if progress.Percentage != 100 {
		t.Errorf("expected clamp at 100, got %f", progress.Percentage)
	}
	if progress.Current != 1500 {
		t.Errorf("current should stay unclamped, got %f", progress.Current)
	}
}

func TestGetProgressNoGoal(t *testing.T) {
	svc := NewGoalService(newMockGoalRepo(), &mockTransactionRepo{})

	progress, err := svc.GetProgress(context.Background(), "2026-06")
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if progress.HasGoal {
		t.Error("expected HasGoal false with no goal set")
	}
	if progress.Percentage != 0 || progress.Current != 0 {
		t.Error("expected zero progress with no goal set")
	}
}
