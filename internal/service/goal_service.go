package service

import (
	"context"
	"time"

	"github.com/andy/beatbooks/internal/domain"
	"github.com/andy/beatbooks/internal/repository"
)

// GoalProgress reports how the period's income measures against its goal.
// When no goal exists for the period, HasGoal is false and all amounts
// are zero.
type GoalProgress struct {
	HasGoal    bool
	Target     float64
	Current    float64
	Percentage float64 // clamped to [0, 100]
	StartDate  time.Time
	EndDate    time.Time
}

// GoalService manages monthly income goals and progress against them
type GoalService interface {
	// SetMonthlyGoal upserts the income goal for a month given as
	// "YYYY-MM", defaulting to the current calendar month when empty.
	SetMonthlyGoal(ctx context.Context, amount float64, month string) (*domain.BusinessGoal, error)

	// GetMonthlyGoal returns the goal for the month, or nil when none is set
	GetMonthlyGoal(ctx context.Context, month string) (*domain.BusinessGoal, error)

	// GetProgress measures period income against the month's goal
	GetProgress(ctx context.Context, month string) (*GoalProgress, error)
}

type goalService struct {
	goalRepo repository.GoalRepository
	txRepo   repository.TransactionRepository
}

// NewGoalService creates a new goal service
func NewGoalService(goalRepo repository.GoalRepository, txRepo repository.TransactionRepository) GoalService {
	return &goalService{
		goalRepo: goalRepo,
		txRepo:   txRepo,
	}
}

func (s *goalService) SetMonthlyGoal(ctx context.Context, amount float64, month string) (*domain.BusinessGoal, error) {
	start, end, err := resolveMonth(month)
	if err != nil {
		return nil, err
	}

	goal := &domain.BusinessGoal{
		Type:         domain.GoalTypeMonthly,
		TargetAmount: amount,
		StartDate:    start,
		EndDate:      end,
	}
	if err := s.goalRepo.Upsert(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *goalService) GetMonthlyGoal(ctx context.Context, month string) (*domain.BusinessGoal, error) {
	start, _, err := resolveMonth(month)
	if err != nil {
		return nil, err
	}
	return s.goalRepo.GetByPeriod(ctx, domain.GoalTypeMonthly, start)
}

func (s *goalService) GetProgress(ctx context.Context, month string) (*GoalProgress, error) {
	goal, err := s.GetMonthlyGoal(ctx, month)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return &GoalProgress{}, nil
	}

	current, err := s.txRepo.SumByType(ctx, domain.TransactionTypeIncome, goal.StartDate, goal.EndDate)
	if err != nil {
		return nil, err
	}

	percentage := 0.0
	if goal.TargetAmount > 0 {
		percentage = current / goal.TargetAmount * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	return &GoalProgress{
		HasGoal:    true,
		Target:     goal.TargetAmount,
		Current:    current,
		Percentage: percentage,
		StartDate:  goal.StartDate,
		EndDate:    goal.EndDate,
	}, nil
}

// resolveMonth maps an optional "YYYY-MM" string to calendar-month bounds,
// defaulting to the current month
func resolveMonth(month string) (start, end time.Time, err error) {
	if month == "" {
		start, end = domain.MonthBounds(time.Now())
		return start, end, nil
	}
	return domain.ParseMonth(month)
}
