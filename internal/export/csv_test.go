package export

import (
	"strings"
	"testing"
	"time"

	"github.com/andy/beatbooks/internal/domain"
)

func TestWriteTransactionsCSV(t *testing.T) {
	june := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	txns := []*domain.Transaction{
		domain.NewTransaction(domain.TransactionTypeIncome, 66.00, "Beat Sales", "Invoice INV-2026-001 - Lil Test", june),
		domain.NewTransaction(domain.TransactionTypeExpense, 19.99, "Software/Plugins", "Serum upgrade", june.AddDate(0, 0, 1)),
	}

	var buf strings.Builder
	if err := WriteTransactionsCSV(&buf, txns); err != nil {
		t.Fatalf("WriteTransactionsCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Type,Category,Description,Amount" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "2026-06-15,income,Beat Sales,Invoice INV-2026-001 - Lil Test,66.00" {
		t.Errorf("unexpected income row %q", lines[1])
	}
	if lines[2] != "2026-06-16,expense,Software/Plugins,Serum upgrade,-19.99" {
		t.Errorf("expected negated expense row, got %q", lines[2])
	}
}

func TestWriteTransactionsCSVEscapesCommas(t *testing.T) {
	txns := []*domain.Transaction{
		domain.NewTransaction(domain.TransactionTypeIncome, 100, "Beat Sales", "mix, master, and stems", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)),
	}

	var buf strings.Builder
	if err := WriteTransactionsCSV(&buf, txns); err != nil {
		t.Fatalf("WriteTransactionsCSV failed: %v", err)
	}

	if !strings.Contains(buf.String(), "mix; master; and stems") {
		t.Errorf("expected commas replaced in description, got %q", buf.String())
	}
}

func TestWriteTransactionsCSVEmpty(t *testing.T) {
	var buf strings.Builder
	if err := WriteTransactionsCSV(&buf, nil); err != nil {
		t.Fatalf("WriteTransactionsCSV failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "Date,Type,Category,Description,Amount" {
		t.Errorf("expected header only, got %q", buf.String())
	}
}
