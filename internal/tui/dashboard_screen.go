package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/beatbooks/internal/app"
	"github.com/andy/beatbooks/internal/domain"
	"github.com/andy/beatbooks/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DashboardModel represents the dashboard home screen
type DashboardModel struct {
	app *app.App

	// Data
	revenue    *service.RevenueStats
	invoices   *service.InvoiceStats
	goal       *service.GoalProgress
	recentTxns []*domain.Transaction

	loading bool
	err     error
}

type dashboardDataMsg struct {
	revenue    *service.RevenueStats
	invoices   *service.InvoiceStats
	goal       *service.GoalProgress
	recentTxns []*domain.Transaction
	err        error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	return &DashboardModel{
		app:     a,
		loading: true,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg dashboardDataMsg

		revenue, err := m.app.StatsService.RevenueStats(ctx, nil, nil)
		if err != nil {
			msg.err = fmt.Errorf("revenue stats: %w", err)
			return msg
		}
		msg.revenue = revenue

		invoices, err := m.app.StatsService.InvoiceStats(ctx)
		if err != nil {
			msg.err = fmt.Errorf("invoice stats: %w", err)
			return msg
		}
		msg.invoices = invoices

		goal, err := m.app.GoalService.GetProgress(ctx, "")
		if err != nil {
			msg.err = fmt.Errorf("goal progress: %w", err)
			return msg
		}
		msg.goal = goal

		// Last activity, newest first
		msg.recentTxns, _ = m.app.LedgerService.RecentTransactions(ctx, 5)

		return msg
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.revenue = msg.revenue
		m.invoices = msg.invoices
		m.goal = msg.goal
		m.recentTxns = msg.recentTxns
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()
	}
	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %s", m.err)
	}

	var b strings.Builder

	// This month box
	month := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("This Month (%s)", m.revenue.StartDate.Format("January 2006"))),
		"",
		fmt.Sprintf("Income    %s", incomeStyle.Render(formatMoney(m.revenue.TotalIncome))),
		fmt.Sprintf("Expenses  %s", expenseStyle.Render(formatMoney(m.revenue.TotalExpenses))),
		fmt.Sprintf("Net       %s", formatMoney(m.revenue.NetProfit)),
	))

	// Invoice box
	invoiceLines := []string{
		titleStyle.Render("Invoices"),
		"",
		fmt.Sprintf("Outstanding  %s", formatMoney(m.invoices.OutstandingTotal)),
		fmt.Sprintf("Paid (month) %s", formatMoney(m.invoices.PaidThisMonth)),
	}
	if m.invoices.OverdueCount > 0 {
		invoiceLines = append(invoiceLines,
			lipgloss.NewStyle().Foreground(warningColor).Render(
				fmt.Sprintf("Overdue      %d", m.invoices.OverdueCount)))
	}
	invoiceBox := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, invoiceLines...))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, month, " ", invoiceBox))
	b.WriteString("\n")

	// Goal progress
	if m.goal.HasGoal {
		width := 30
		filled := int(m.goal.Percentage / 100 * float64(width))
		if filled > width {
			filled = width
		}
		bar := goalBarStyle.Render(strings.Repeat("█", filled)) +
			subtitleStyle.Render(strings.Repeat("░", width-filled))
		b.WriteString(fmt.Sprintf("\n%s %s / %s  [%s] %.0f%%\n",
			titleStyle.Render("Goal"),
			formatMoney(m.goal.Current),
			formatMoney(m.goal.Target),
			bar,
			m.goal.Percentage,
		))
	} else {
		b.WriteString(subtitleStyle.Render("\nNo income goal set for this month\n"))
	}

	// Recent transactions
	if len(m.recentTxns) > 0 {
		b.WriteString("\n" + titleStyle.Render("Recent Activity") + "\n")
		for _, tx := range m.recentTxns {
			amount := incomeStyle.Render("+" + formatMoney(tx.Amount))
			if tx.Type == domain.TransactionTypeExpense {
				amount = expenseStyle.Render("-" + formatMoney(tx.Amount))
			}
			desc := tx.Description
			if desc == "" {
				desc = tx.Category
			}
			b.WriteString(fmt.Sprintf("  %s  %-36s %s\n",
				tx.Date.Format("Jan 02"),
				truncateStr(desc, 36),
				amount,
			))
		}
	}

	b.WriteString(helpStyle.Render("\nPress i for invoices, l for ledger, c for catalog"))
	return b.String()
}
