package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andy/beatbooks/internal/app"
	"github.com/andy/beatbooks/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type invoiceViewMode int

const (
	invoiceViewList   invoiceViewMode = iota
	invoiceViewDetail                 // Viewing a single invoice
)

// InvoicesModel displays invoices in list and detail views
type InvoicesModel struct {
	app      *app.App
	mode     invoiceViewMode
	invoices []*domain.Invoice
	cursor   int
	selected *domain.Invoice

	loading   bool
	err       error
	statusMsg string
}

type invoicesDataMsg struct {
	invoices []*domain.Invoice
	err      error
}

type invoiceDetailMsg struct {
	invoice *domain.Invoice
	err     error
}

type invoiceStatusChangedMsg struct {
	status domain.InvoiceStatus
	err    error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	return &InvoicesModel{
		app:     a,
		mode:    invoiceViewList,
		loading: true,
	}
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	return func() tea.Msg {
		invoices, err := m.app.InvoiceService.ListInvoices(context.Background(), nil, nil)
		if err != nil {
			return invoicesDataMsg{err: err}
		}
		return invoicesDataMsg{invoices: invoices}
	}
}

func (m *InvoicesModel) loadDetail(id int64) tea.Cmd {
	return func() tea.Msg {
		invoice, err := m.app.InvoiceService.GetInvoice(context.Background(), id)
		if err != nil {
			return invoiceDetailMsg{err: err}
		}
		return invoiceDetailMsg{invoice: invoice}
	}
}

func (m *InvoicesModel) setStatus(id int64, status domain.InvoiceStatus) tea.Cmd {
	return func() tea.Msg {
		err := m.app.InvoiceService.SetStatus(context.Background(), id, status)
		return invoiceStatusChangedMsg{status: status, err: err}
	}
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case invoicesDataMsg:
		m.loading = false
		m.err = msg.err
		m.invoices = msg.invoices
		if m.cursor >= len(m.invoices) {
			m.cursor = 0
		}
		return m, nil

	case invoiceDetailMsg:
		m.err = msg.err
		if msg.invoice != nil {
			m.selected = msg.invoice
			m.mode = invoiceViewDetail
		}
		return m, nil

	case invoiceStatusChangedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Invoice marked %s", msg.status)
		if m.selected != nil {
			return m, tea.Batch(m.loadDetail(m.selected.ID), m.loadInvoices())
		}
		return m, m.loadInvoices()

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadInvoices()

	case tea.KeyMsg:
		m.statusMsg = ""
		switch m.mode {
		case invoiceViewList:
			return m.updateList(msg)
		case invoiceViewDetail:
			return m.updateDetail(msg)
		}
	}
	return m, nil
}

func (m *InvoicesModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.invoices)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Select):
		if len(m.invoices) > 0 {
			return m, m.loadDetail(m.invoices[m.cursor].ID)
		}
	}
	return m, nil
}

func (m *InvoicesModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.mode = invoiceViewList
		m.selected = nil
		return m, m.loadInvoices()

	case msg.String() == "s":
		if m.selected != nil {
			return m, m.setStatus(m.selected.ID, domain.InvoiceStatusSent)
		}
	case msg.String() == "p":
		if m.selected != nil {
			return m, m.setStatus(m.selected.ID, domain.InvoiceStatusPaid)
		}
	case msg.String() == "x":
		if m.selected != nil {
			return m, m.setStatus(m.selected.ID, domain.InvoiceStatusCancelled)
		}
	}
	return m, nil
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return "Loading invoices..."
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %s", m.err)
	}

	if m.mode == invoiceViewDetail && m.selected != nil {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m *InvoicesModel) viewList() string {
	var b strings.Builder

	if len(m.invoices) == 0 {
		b.WriteString(subtitleStyle.Render("No invoices yet. Create one with: beatbooks invoices create"))
		return b.String()
	}

	now := time.Now()
	b.WriteString(fmt.Sprintf("%-15s %-22s %-12s %-12s %s\n", "Number", "Client", "Total", "Status", "Due"))
	b.WriteString(strings.Repeat("─", 72) + "\n")

	for i, inv := range m.invoices {
		due := "-"
		if inv.DueDate != nil {
			due = inv.DueDate.Format("2006-01-02")
		}
		statusLabel := string(inv.Status)
		if inv.IsOverdue(now) {
			statusLabel = "overdue"
		}

		line := fmt.Sprintf("%-15s %-22s %-12s %-12s %s",
			inv.InvoiceNumber,
			truncateStr(inv.ClientName, 22),
			formatMoney(inv.Total),
			statusLabel,
			due,
		)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(helpStyle.Render("\nenter: view  ↑/↓: move"))
	if m.statusMsg != "" {
		b.WriteString("\n" + incomeStyle.Render(m.statusMsg))
	}
	return b.String()
}

func (m *InvoicesModel) viewDetail() string {
	inv := m.selected
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Invoice %s", inv.InvoiceNumber)) + "\n\n")
	b.WriteString(fmt.Sprintf("Client: %s\n", inv.ClientName))
	b.WriteString(fmt.Sprintf("Status: %s\n", inv.Status))
	if inv.DueDate != nil {
		b.WriteString(fmt.Sprintf("Due: %s\n", inv.DueDate.Format("2006-01-02")))
	}
	if inv.PaidAt != nil {
		b.WriteString(fmt.Sprintf("Paid: %s\n", inv.PaidAt.Format("2006-01-02")))
	}

	if len(inv.Items) > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-40s %6s %12s %12s\n", "Description", "Qty", "Price", "Amount"))
		b.WriteString(strings.Repeat("─", 72) + "\n")
		for _, item := range inv.Items {
			b.WriteString(fmt.Sprintf("%-40s %6d %12s %12s\n",
				truncateStr(item.Description, 40),
				item.Quantity,
				formatMoney(item.UnitPrice),
				formatMoney(item.Total),
			))
		}
		b.WriteString(strings.Repeat("─", 72) + "\n")
	}

	b.WriteString(fmt.Sprintf("\nSubtotal: %s\n", formatMoney(inv.Subtotal)))
	if inv.TaxRate > 0 {
		b.WriteString(fmt.Sprintf("Tax (%.2f%%): %s\n", inv.TaxRate, formatMoney(inv.TaxAmount)))
	}
	b.WriteString(fmt.Sprintf("Total: %s\n", formatMoney(inv.Total)))

	b.WriteString(helpStyle.Render("\ns: mark sent  p: mark paid  x: cancel  esc: back"))
	if m.statusMsg != "" {
		b.WriteString("\n" + incomeStyle.Render(m.statusMsg))
	}
	return b.String()
}
