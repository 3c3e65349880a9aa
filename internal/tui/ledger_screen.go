package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andy/beatbooks/internal/app"
	"github.com/andy/beatbooks/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type ledgerViewMode int

const (
	ledgerViewList ledgerViewMode = iota
	ledgerViewForm                // Adding a transaction
)

const ledgerFormFields = 3 // amount, category, description

// LedgerModel displays and records ledger transactions
type LedgerModel struct {
	app    *app.App
	mode   ledgerViewMode
	txns   []*domain.Transaction
	cursor int

	// Add form state
	formType   domain.TransactionType
	formInputs []textinput.Model
	formFocus  int

	loading   bool
	err       error
	statusMsg string
}

// IsCapturingInput returns true while the add form is open
func (m *LedgerModel) IsCapturingInput() bool {
	return m.mode == ledgerViewForm
}

type ledgerDataMsg struct {
	txns []*domain.Transaction
	err  error
}

type ledgerSavedMsg struct {
	tx  *domain.Transaction
	err error
}

// NewLedgerModel creates a new ledger screen model
func NewLedgerModel(a *app.App) tea.Model {
	return &LedgerModel{
		app:     a,
		mode:    ledgerViewList,
		loading: true,
	}
}

func (m *LedgerModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *LedgerModel) loadData() tea.Cmd {
	return func() tea.Msg {
		txns, err := m.app.LedgerService.RecentTransactions(context.Background(), 50)
		if err != nil {
			return ledgerDataMsg{err: err}
		}
		return ledgerDataMsg{txns: txns}
	}
}

func (m *LedgerModel) openForm() {
	amount := textinput.New()
	amount.Placeholder = "0.00"
	amount.CharLimit = 12
	amount.Width = 14
	amount.Focus()

	category := textinput.New()
	category.Placeholder = domain.SalesCategory
	category.CharLimit = 40
	category.Width = 30

	description := textinput.New()
	description.Placeholder = "optional"
	description.CharLimit = 120
	description.Width = 40

	m.formType = domain.TransactionTypeIncome
	m.formInputs = []textinput.Model{amount, category, description}
	m.formFocus = 0
	m.mode = ledgerViewForm
}

func (m *LedgerModel) submitForm() tea.Cmd {
	amountStr := strings.TrimSpace(m.formInputs[0].Value())
	category := strings.TrimSpace(m.formInputs[1].Value())
	description := strings.TrimSpace(m.formInputs[2].Value())
	txType := m.formType

	return func() tea.Msg {
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			return ledgerSavedMsg{err: fmt.Errorf("invalid amount %q", amountStr)}
		}

		tx, err := m.app.LedgerService.Add(context.Background(), txType, amount, category, description, time.Now())
		if err != nil {
			return ledgerSavedMsg{err: err}
		}
		return ledgerSavedMsg{tx: tx}
	}
}

func (m *LedgerModel) deleteSelected() tea.Cmd {
	if len(m.txns) == 0 {
		return nil
	}
	id := m.txns[m.cursor].ID
	return func() tea.Msg {
		if err := m.app.LedgerService.DeleteTransaction(context.Background(), id); err != nil {
			return ledgerSavedMsg{err: err}
		}
		return ledgerSavedMsg{}
	}
}

func (m *LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgerDataMsg:
		m.loading = false
		m.err = msg.err
		m.txns = msg.txns
		if m.cursor >= len(m.txns) {
			m.cursor = 0
		}
		return m, nil

	case ledgerSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.tx != nil {
			m.statusMsg = fmt.Sprintf("Recorded %s of %s", msg.tx.Type, formatMoney(msg.tx.Amount))
		}
		m.mode = ledgerViewList
		return m, m.loadData()

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case tea.KeyMsg:
		if m.mode == ledgerViewForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *LedgerModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.txns)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.New):
		m.openForm()
	case key.Matches(msg, DefaultKeyMap.Delete):
		return m, m.deleteSelected()
	}
	return m, nil
}

func (m *LedgerModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.mode = ledgerViewList
		return m, nil

	case msg.Type == tea.KeyEnter:
		if m.formFocus < ledgerFormFields-1 {
			m.formInputs[m.formFocus].Blur()
			m.formFocus++
			m.formInputs[m.formFocus].Focus()
			return m, nil
		}
		return m, m.submitForm()

	case msg.Type == tea.KeyTab:
		m.formInputs[m.formFocus].Blur()
		m.formFocus = (m.formFocus + 1) % ledgerFormFields
		m.formInputs[m.formFocus].Focus()
		return m, nil

	case msg.Type == tea.KeyCtrlT:
		// Toggle income/expense
		if m.formType == domain.TransactionTypeIncome {
			m.formType = domain.TransactionTypeExpense
		} else {
			m.formType = domain.TransactionTypeIncome
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *LedgerModel) View() string {
	if m.loading {
		return "Loading ledger..."
	}

	if m.mode == ledgerViewForm {
		return m.viewForm()
	}
	return m.viewList()
}

func (m *LedgerModel) viewList() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(fmt.Sprintf("Error: %s\n\n", m.err))
	}

	if len(m.txns) == 0 {
		b.WriteString(subtitleStyle.Render("No transactions yet. Press n to record one."))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%-10s %-8s %-20s %-30s %s\n", "Date", "Type", "Category", "Description", "Amount"))
	b.WriteString(strings.Repeat("─", 82) + "\n")

	for i, tx := range m.txns {
		amount := "+" + formatMoney(tx.Amount)
		if tx.Type == domain.TransactionTypeExpense {
			amount = "-" + formatMoney(tx.Amount)
		}
		line := fmt.Sprintf("%-10s %-8s %-20s %-30s %s",
			tx.Date.Format("2006-01-02"),
			tx.Type,
			truncateStr(tx.Category, 20),
			truncateStr(tx.Description, 30),
			amount,
		)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(helpStyle.Render("\nn: new  d: delete  ↑/↓: move"))
	if m.statusMsg != "" {
		b.WriteString("\n" + incomeStyle.Render(m.statusMsg))
	}
	return b.String()
}

func (m *LedgerModel) viewForm() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("New Transaction") + "\n\n")
	b.WriteString(fmt.Sprintf("Type: %s %s\n\n", m.formType, subtitleStyle.Render("(ctrl+t to toggle)")))
	b.WriteString("Amount:      " + m.formInputs[0].View() + "\n")
	b.WriteString("Category:    " + m.formInputs[1].View() + "\n")
	b.WriteString("Description: " + m.formInputs[2].View() + "\n")

	if m.err != nil {
		b.WriteString("\n" + expenseStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString(helpStyle.Render("\nenter: next/save  tab: next field  esc: cancel"))
	return b.String()
}
