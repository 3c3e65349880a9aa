package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/andy/beatbooks/internal/domain"
)

// WriteTransactionsCSV serialises ledger entries for spreadsheet import.
// Expense amounts come out negative so a sum over the Amount column yields
// net profit. Commas in descriptions become semicolons to keep each
// description a single cell in naive consumers.
func WriteTransactionsCSV(w io.Writer, txns []*domain.Transaction) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Date", "Type", "Category", "Description", "Amount"}); err != nil {
		return err
	}

	for _, tx := range txns {
		amount := tx.Amount
		if tx.Type == domain.TransactionTypeExpense {
			amount = -amount
		}

		record := []string{
			tx.Date.Format("2006-01-02"),
			string(tx.Type),
			tx.Category,
			strings.ReplaceAll(tx.Description, ",", ";"),
			formatAmount(amount),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
