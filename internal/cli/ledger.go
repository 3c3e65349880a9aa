package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/andy/beatbooks/internal/domain"
	"github.com/andy/beatbooks/internal/repository"
	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Manage the income and expense ledger",
	Long:  `Record and review income and expense transactions.`,
}

var ledgerAddCmd = &cobra.Command{
	Use:   "add [type] [amount] [category]",
	Short: "Record a transaction",
	Long: `Record an income or expense transaction.

Examples:
  beatbooks ledger add income 250.00 "Beat Sales" --description "Exclusive to J.Cold"
  beatbooks ledger add expense 19.99 "Software/Plugins" --description "Serum rent-to-own"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}

		date := time.Now()
		if cmd.Flags().Changed("date") {
			dateStr, _ := cmd.Flags().GetString("date")
			date, err = parseDate(dateStr)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}
		}

		description, _ := cmd.Flags().GetString("description")

		tx, err := appInstance.LedgerService.Add(ctx, domain.TransactionType(args[0]), amount, args[2], description, date)
		if err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}

		fmt.Printf("✓ Recorded %s of $%.2f in %s (#%d)\n", tx.Type, tx.Amount, tx.Category, tx.ID)
		return nil
	},
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var filter repository.TransactionFilter
		if cmd.Flags().Changed("type") {
			typeStr, _ := cmd.Flags().GetString("type")
			txType := domain.TransactionType(typeStr)
			filter.Type = &txType
		}
		if cmd.Flags().Changed("category") {
			category, _ := cmd.Flags().GetString("category")
			filter.Category = &category
		}
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
			return fmt.Errorf("failed to list transactions: %w", err)
		}

		if len(txns) == 0 {
			fmt.Println("No transactions found")
			return nil
		}

		// Print table header
		fmt.Printf("%-5s %-12s %-8s %-22s %-32s %s\n", "ID", "Date", "Type", "Category", "Description", "Amount")
		fmt.Println("---------------------------------------------------------------------------------------------")

		var income, expenses float64
		for _, tx := range txns {
			fmt.Printf("%-5d %-12s %-8s %-22s %-32s $%.2f\n",
				tx.ID,
				tx.Date.Format("2006-01-02"),
				tx.Type,
				truncate(tx.Category, 22),
				truncate(tx.Description, 32),
				tx.Amount,
			)
			if tx.Type == domain.TransactionTypeIncome {
				income += tx.Amount
			} else {
				expenses += tx.Amount
			}
		}

		fmt.Printf("\nIncome: $%.2f  Expenses: $%.2f  Net: $%.2f\n", income, expenses, income-expenses)
		return nil
	},
}

var ledgerDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid transaction ID: %w", err)
		}

		if err := appInstance.LedgerService.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}

		fmt.Printf("✓ Transaction #%d deleted\n", id)
		return nil
	},
}

var ledgerCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List suggested categories",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Income categories:")
		for _, c := range domain.IncomeCategories {
			fmt.Printf("  %s\n", c)
		}
		fmt.Println()
		fmt.Println("Expense categories:")
		for _, c := range domain.ExpenseCategories {
			fmt.Printf("  %s\n", c)
		}
	},
}

func init() {
	ledgerCmd.AddCommand(ledgerAddCmd)
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerDeleteCmd)
	ledgerCmd.AddCommand(ledgerCategoriesCmd)

	ledgerAddCmd.Flags().String("description", "", "Transaction description")
	ledgerAddCmd.Flags().String("date", "", "Transaction date (defaults to today)")

	ledgerListCmd.Flags().String("type", "", "Filter by type (income or expense)")
	ledgerListCmd.Flags().String("category", "", "Filter by category")
	ledgerListCmd.Flags().String("from", "", "Start date")
	ledgerListCmd.Flags().String("to", "", "End date")
}
