package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/beatbooks/internal/app"
	"github.com/andy/beatbooks/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// CatalogModel lists the product catalog
type CatalogModel struct {
	app      *app.App
	products []*domain.Product
	cursor   int

	loading   bool
	err       error
	statusMsg string
}

type catalogDataMsg struct {
	products []*domain.Product
	err      error
}

type catalogChangedMsg struct {
	err error
}

// NewCatalogModel creates a new catalog screen model
func NewCatalogModel(a *app.App) tea.Model {
	return &CatalogModel{
		app:     a,
		loading: true,
	}
}

func (m *CatalogModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *CatalogModel) loadData() tea.Cmd {
	return func() tea.Msg {
		products, err := m.app.CatalogService.ListProducts(context.Background(), true)
		if err != nil {
			return catalogDataMsg{err: err}
		}
		return catalogDataMsg{products: products}
	}
}

func (m *CatalogModel) removeSelected() tea.Cmd {
	if len(m.products) == 0 {
		return nil
	}
	id := m.products[m.cursor].ID
	return func() tea.Msg {
		return catalogChangedMsg{err: m.app.CatalogService.RemoveProduct(context.Background(), id)}
	}
}

func (m *CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogDataMsg:
		m.loading = false
		m.err = msg.err
		m.products = msg.products
		if m.cursor >= len(m.products) {
			m.cursor = 0
		}
		return m, nil

	case catalogChangedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = "Product removed"
		return m, m.loadData()

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case tea.KeyMsg:
		m.statusMsg = ""
		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.products)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			return m, m.removeSelected()
		}
	}
	return m, nil
}

func (m *CatalogModel) View() string {
	if m.loading {
		return "Loading catalog..."
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %s", m.err)
	}

	var b strings.Builder

	if len(m.products) == 0 {
		b.WriteString(subtitleStyle.Render("No active products. Add some with: beatbooks catalog add"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%-30s %-10s %s\n", "Title", "Type", "Price"))
	b.WriteString(strings.Repeat("─", 52) + "\n")

	for i, product := range m.products {
		line := fmt.Sprintf("%-30s %-10s %s",
			truncateStr(product.Title, 30),
			product.Kind,
			formatMoney(product.Price),
		)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(helpStyle.Render("\nd: remove  ↑/↓: move"))
	if m.statusMsg != "" {
		b.WriteString("\n" + incomeStyle.Render(m.statusMsg))
	}
	return b.String()
}
