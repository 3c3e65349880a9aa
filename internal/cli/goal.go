package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage the monthly income goal",
	Long:  `Set a monthly income target and track progress against ledger income.`,
}

var goalSetCmd = &cobra.Command{
	Use:   "set [amount]",
	Short: "Set the income goal for a month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}

		month, _ := cmd.Flags().GetString("month")

		goal, err := appInstance.GoalService.SetMonthlyGoal(ctx, amount, month)
		if err != nil {
			return fmt.Errorf("failed to set goal: %w", err)
		}

		fmt.Printf("✓ Goal set: $%.2f for %s\n", goal.TargetAmount, goal.StartDate.Format("January 2006"))
		return nil
	},
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show progress toward the monthly goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		month, _ := cmd.Flags().GetString("month")

		progress, err := appInstance.GoalService.GetProgress(ctx, month)
		if err != nil {
			return fmt.Errorf("failed to get progress: %w", err)
		}

		if !progress.HasGoal {
			fmt.Println("No goal set for this month. Set one with: beatbooks goal set <amount>")
			return nil
		}

		fmt.Printf("Goal for %s: $%.2f\n", progress.StartDate.Format("January 2006"), progress.Target)
		fmt.Printf("Income so far: $%.2f\n", progress.Current)

		// Simple progress bar
		width := 40
		filled := int(progress.Percentage / 100 * float64(width))
		if filled > width {
			filled = width
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
		fmt.Printf("[%s] %.1f%%\n", bar, progress.Percentage)

		if progress.Current >= progress.Target {
			fmt.Println("✓ Goal reached!")
		} else {
			fmt.Printf("$%.2f to go\n", progress.Target-progress.Current)
		}
		return nil
	},
}

func init() {
	goalCmd.AddCommand(goalSetCmd)
	goalCmd.AddCommand(goalProgressCmd)

	goalSetCmd.Flags().String("month", "", "Month as YYYY-MM (defaults to current month)")
	goalProgressCmd.Flags().String("month", "", "Month as YYYY-MM (defaults to current month)")
}
