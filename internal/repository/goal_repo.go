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

// GoalRepo is a SQLite implementation of GoalRepository
type GoalRepo struct {
	db *db.DB
}

// NewGoalRepo creates a new GoalRepo
func NewGoalRepo(database *db.DB) *GoalRepo {
	return &GoalRepo{db: database}
}

// Upsert inserts a goal, or updates the target amount in place when a goal
// already covers the same (type, start date) period.
func (r *GoalRepo) Upsert(ctx context.Context, goal *domain.BusinessGoal) error {
	if err := goal.Validate(); err != nil {
		return fmt.Errorf("invalid goal: %w", err)
	}

	var existingID int64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM business_goals WHERE type = ? AND start_date = ?",
		string(goal.Type), goal.StartDate.Format(dateLayout),
	).Scan(&existingID)

	switch {
	case err == nil:
		_, err = r.db.ExecContext(ctx,
			"UPDATE business_goals SET target_amount = ? WHERE id = ?",
			goal.TargetAmount, existingID,
		)
		if err != nil {
			return fmt.Errorf("failed to update goal: %w", err)
		}
		goal.ID = existingID
		return nil

	case errors.Is(err, sql.ErrNoRows):
		result, err := r.db.ExecContext(ctx,
			"INSERT INTO business_goals (type, target_amount, start_date, end_date) VALUES (?, ?, ?, ?)",
			string(goal.Type),
			goal.TargetAmount,
			goal.StartDate.Format(dateLayout),
			goal.EndDate.Format(dateLayout),
		)
		if err != nil {
			return fmt.Errorf("failed to create goal: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get goal ID: %w", err)
		}
		goal.ID = id
		return nil

	default:
		return fmt.Errorf("failed to look up goal: %w", err)
	}
}

// GetByPeriod retrieves the goal covering the period starting at startDate.
// A missing period returns (nil, nil).
func (r *GoalRepo) GetByPeriod(ctx context.Context, goalType domain.GoalType, startDate time.Time) (*domain.BusinessGoal, error) {
	query := `
		SELECT id, type, target_amount, start_date, end_date
		FROM business_goals
		WHERE type = ? AND start_date = ?
	`

	goal := &domain.BusinessGoal{}
	var gType, start, end string

	err := r.db.QueryRowContext(ctx, query,
		string(goalType), startDate.Format(dateLayout),
	).Scan(&goal.ID, &gType, &goal.TargetAmount, &start, &end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	goal.Type = domain.GoalType(gType)
	if goal.StartDate, err = parseDate(start); err != nil {
		return nil, fmt.Errorf("failed to parse start_date: %w", err)
	}
	if goal.EndDate, err = parseDate(end); err != nil {
		return nil, fmt.Errorf("failed to parse end_date: %w", err)
	}

	return goal, nil
}
