package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/andy/beatbooks/internal/export"
	"github.com/andy/beatbooks/internal/repository"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger to CSV",
	Long: `Export ledger transactions to CSV for spreadsheets or tax prep.
Expense amounts are written as negatives so the Amount column sums to net profit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var filter repository.TransactionFilter
		if cmd.Flags().Changed("from") {
			fromStr, _ := cmd.Flags().GetString("from")
			from, err := parseDate(fromStr)
			if err != nil {
				return fmt.Errorf("invalid from date: %w", err)
			}
			filter.StartDate = &from
		}
		if cmd.Flags().Changed("to") {
			toStr, _ := cmd.Flags().GetString("to")
			to, err := parseDate(toStr)
			if err != nil {
				return fmt.Errorf("invalid to date: %w", err)
			}
			filter.EndDate = &to
		}

		txns, err := appInstance.LedgerService.ListTransactions(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}

		out := os.Stdout
		outPath, _ := cmd.Flags().GetString("output")
		if outPath != "" {
			file, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer file.Close()
			out = file
		}

		if err := export.WriteTransactionsCSV(out, txns); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}

		if outPath != "" {
			fmt.Printf("✓ Exported %d transaction(s) to %s\n", len(txns), outPath)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("output", "", "Output file (defaults to stdout)")
	exportCmd.Flags().String("from", "", "Start date filter")
	exportCmd.Flags().String("to", "", "End date filter")
}
