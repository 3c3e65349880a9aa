package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/andy/beatbooks/internal/domain"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show revenue and invoice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var start, end *time.Time
		if cmd.Flags().Changed("from") {
			fromStr, _ := cmd.Flags().GetString("from")
			from, err := parseDate(fromStr)
			if err != nil {
				return fmt.Errorf("invalid from date: %w", err)
			}
			start = &from
		}
		if cmd.Flags().Changed("to") {
			toStr, _ := cmd.Flags().GetString("to")
			to, err := parseDate(toStr)
			if err != nil {
				return fmt.Errorf("invalid to date: %w", err)
			}
			end = &to
		}

		revenue, err := appInstance.StatsService.RevenueStats(ctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to get revenue stats: %w", err)
		}

		fmt.Printf("Period: %s to %s\n",
			revenue.StartDate.Format("2006-01-02"),
			revenue.EndDate.Format("2006-01-02"),
		)
		fmt.Println()
		fmt.Printf("Income:   $%.2f\n", revenue.TotalIncome)
		fmt.Printf("Expenses: $%.2f\n", revenue.TotalExpenses)
		fmt.Printf("Net:      $%.2f\n", revenue.NetProfit)

		if len(revenue.IncomeByCategory) > 0 {
			fmt.Println("\nIncome by category:")
			for _, ct := range revenue.IncomeByCategory {
				fmt.Printf("  %-25s $%.2f\n", ct.Category, ct.Total)
			}
		}
		if len(revenue.ExpenseByCategory) > 0 {
			fmt.Println("\nExpenses by category:")
			for _, ct := range revenue.ExpenseByCategory {
				fmt.Printf("  %-25s $%.2f\n", ct.Category, ct.Total)
			}
		}

		invoices, err := appInstance.StatsService.InvoiceStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to get invoice stats: %w", err)
		}

		fmt.Println("\nInvoices:")
		for _, status := range domain.InvoiceStatuses {
			fmt.Printf("  %-10s %d\n", status, invoices.StatusCounts[status])
		}
		fmt.Printf("\nOutstanding: $%.2f\n", invoices.OutstandingTotal)
		fmt.Printf("Paid this month: $%.2f\n", invoices.PaidThisMonth)
		if invoices.OverdueCount > 0 {
			fmt.Printf("Overdue: %d invoice(s)\n", invoices.OverdueCount)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("from", "", "Start date (defaults to first of the month)")
	statsCmd.Flags().String("to", "", "End date (defaults to today)")
}
