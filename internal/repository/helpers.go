package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// timeLayout is the RFC3339 format for storing timestamps in SQLite
const timeLayout = time.RFC3339

// dateLayout is the calendar-day format for due dates, transaction dates,
// and goal periods
const dateLayout = "2006-01-02"

// parseTime parses a timestamp string in RFC3339 format
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// parseDate parses a calendar-day string
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// nullDate formats an optional date for binding, passing NULL when nil
func nullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

// nullTime formats an optional timestamp for binding, passing NULL when nil
func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(timeLayout)
}

// scanNullDate converts a nullable date column into *time.Time
func scanNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// joinUpdates builds the SET clause of a patch update
func joinUpdates(updates []string) string {
	return strings.Join(updates, ", ")
}

// requireRows converts a zero-rows-affected result into ErrNotFound
func requireRows(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// scanNullTime converts a nullable timestamp column into *time.Time
func scanNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
