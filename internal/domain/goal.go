package domain

import (
	"errors"
	"fmt"
	"time"
)

type GoalType string

const (
	// GoalTypeMonthly is currently the only goal period type.
	GoalTypeMonthly GoalType = "monthly"
)

// BusinessGoal is a target income amount for a period. Period boundaries
// are inclusive calendar-day bounds. At most one goal exists per
// (type, start date) pair; setting a goal for an existing period updates
// it in place.
type BusinessGoal struct {
	ID           int64
	Type         GoalType
	TargetAmount float64
	StartDate    time.Time
	EndDate      time.Time
}

// Validate returns an error if the goal is invalid
func (g *BusinessGoal) Validate() error {
	if g.Type != GoalTypeMonthly {
		return errors.New("goal type must be monthly")
	}
	if g.TargetAmount < 0 {
		return errors.New("goal target cannot be negative")
	}
	if g.StartDate.IsZero() || g.EndDate.IsZero() {
		return errors.New("goal period is required")
	}
	if g.EndDate.Before(g.StartDate) {
		return errors.New("goal period end must not precede start")
	}
	return nil
}

// MonthBounds returns the first and last calendar day of the month
// containing t. December rolls over to January of the next year.
func MonthBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, -1)
	return start, end
}

// ParseMonth parses a "YYYY-MM" month string into its calendar bounds.
func ParseMonth(month string) (start, end time.Time, err error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	start, end = MonthBounds(t)
	return start, end, nil
}
