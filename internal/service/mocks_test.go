package service

import (
	"context"
	"time"

	"github.com/andy/beatbooks/internal/domain"
	"github.com/andy/beatbooks/internal/repository"
)

// mock implementations shared across the service tests

type mockInvoiceRepo struct {
	invoices   map[int64]*domain.Invoice
	items      map[int64][]*domain.InvoiceItem // by invoice ID
	nextNumber string
	nextItemID int64

	totals  map[int64][3]float64 // subtotal, tax, total per invoice
	deleted []int64
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{
		invoices:   make(map[int64]*domain.Invoice),
		items:      make(map[int64][]*domain.InvoiceItem),
		nextNumber: "INV-2026-001",
		totals:     make(map[int64][3]float64),
	}
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	invoice.ID = int64(len(m.invoices) + 1)
	m.invoices[invoice.ID] = invoice
	return nil
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	return m.invoices[id], nil
}

func (m *mockInvoiceRepo) List(ctx context.Context, status *domain.InvoiceStatus, clientID *int64) ([]*domain.Invoice, error) {
	out := make([]*domain.Invoice, 0)
	for _, inv := range m.invoices {
		if status != nil && inv.Status != *status {
			continue
		}
		if clientID != nil && inv.ClientID != *clientID {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (m *mockInvoiceRepo) Update(ctx context.Context, id int64, patch repository.InvoicePatch) error {
	inv, ok := m.invoices[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.ClientID == nil && patch.DueDate == nil && patch.TaxRate == nil && patch.Notes == nil && patch.Terms == nil {
		return repository.ErrNoFields
	}
	if patch.TaxRate != nil {
		inv.TaxRate = *patch.TaxRate
	}
	if patch.DueDate != nil {
		inv.DueDate = patch.DueDate
	}
	if patch.Notes != nil {
		inv.Notes = *patch.Notes
	}
	if patch.Terms != nil {
		inv.Terms = *patch.Terms
	}
	return nil
}

func (m *mockInvoiceRepo) SetStatus(ctx context.Context, id int64, status domain.InvoiceStatus, paidAt *time.Time) error {
	inv, ok := m.invoices[id]
	if !ok {
		return repository.ErrNotFound
	}
	inv.Status = status
	inv.PaidAt = paidAt
	return nil
}

func (m *mockInvoiceRepo) SetTotals(ctx context.Context, id int64, subtotal, taxAmount, total float64) error {
	inv, ok := m.invoices[id]
	if !ok {
		return repository.ErrNotFound
	}
	inv.Subtotal, inv.TaxAmount, inv.Total = subtotal, taxAmount, total
	m.totals[id] = [3]float64{subtotal, taxAmount, total}
	return nil
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.invoices[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.invoices, id)
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockInvoiceRepo) AddItem(ctx context.Context, item *domain.InvoiceItem) error {
	m.nextItemID++
	item.ID = m.nextItemID
	m.items[item.InvoiceID] = append(m.items[item.InvoiceID], item)
	return nil
}

func (m *mockInvoiceRepo) GetItem(ctx context.Context, itemID int64) (*domain.InvoiceItem, error) {
	for _, items := range m.items {
		for _, it := range items {
			if it.ID == itemID {
				return it, nil
			}
		}
	}
	return nil, nil
}

func (m *mockInvoiceRepo) GetItems(ctx context.Context, invoiceID int64) ([]*domain.InvoiceItem, error) {
	items := m.items[invoiceID]
	out := make([]*domain.InvoiceItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *mockInvoiceRepo) UpdateItem(ctx context.Context, itemID int64, patch repository.ItemPatch) error {
	item, _ := m.GetItem(ctx, itemID)
	if item == nil {
		return repository.ErrNotFound
	}
	if patch.Description == nil && patch.Quantity == nil && patch.UnitPrice == nil {
		return repository.ErrNoFields
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		item.UnitPrice = *patch.UnitPrice
	}
	item.Total = float64(item.Quantity) * item.UnitPrice
	return nil
}

func (m *mockInvoiceRepo) DeleteItem(ctx context.Context, itemID int64) error {
	for invID, items := range m.items {
		for i, it := range items {
			if it.ID == itemID {
				m.items[invID] = append(items[:i], items[i+1:]...)
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

func (m *mockInvoiceRepo) NextNumber(ctx context.Context, prefix string, year int) (string, error) {
	return m.nextNumber, nil
}

func (m *mockInvoiceRepo) CountByStatus(ctx context.Context) (map[domain.InvoiceStatus]int, error) {
	counts := make(map[domain.InvoiceStatus]int)
	for _, status := range domain.InvoiceStatuses {
		counts[status] = 0
	}
	for _, inv := range m.invoices {
		counts[inv.Status]++
	}
	return counts, nil
}

func (m *mockInvoiceRepo) OutstandingTotal(ctx context.Context) (float64, error) {
	total := 0.0
	for _, inv := range m.invoices {
		if inv.Status == domain.InvoiceStatusSent {
			total += inv.Total
		}
	}
	return total, nil
}

func (m *mockInvoiceRepo) PaidTotalSince(ctx context.Context, since time.Time) (float64, error) {
	total := 0.0
	for _, inv := range m.invoices {
		if inv.Status == domain.InvoiceStatusPaid && inv.PaidAt != nil && !inv.PaidAt.Before(since) {
			total += inv.Total
		}
	}
	return total, nil
}

func (m *mockInvoiceRepo) OverdueCount(ctx context.Context, today time.Time) (int, error) {
	count := 0
	for _, inv := range m.invoices {
		if inv.IsOverdue(today) {
			count++
		}
	}
	return count, nil
}

type mockTransactionRepo struct {
	txns   []*domain.Transaction
	nextID int64
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	m.nextID++
	tx.ID = m.nextID
	m.txns = append(m.txns, tx)
	return nil
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	for _, tx := range m.txns {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, nil
}

func (m *mockTransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*domain.Transaction, error) {
	out := make([]*domain.Transaction, 0)
	for _, tx := range m.txns {
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.Category != nil && tx.Category != *filter.Category {
			continue
		}
		if filter.StartDate != nil && tx.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && tx.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (m *mockTransactionRepo) Recent(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	if limit > len(m.txns) {
		limit = len(m.txns)
	}
	return m.txns[len(m.txns)-limit:], nil
}

func (m *mockTransactionRepo) Update(ctx context.Context, id int64, patch repository.TransactionPatch) error {
	return nil
}

func (m *mockTransactionRepo) Delete(ctx context.Context, id int64) error {
	for i, tx := range m.txns {
		if tx.ID == id {
			m.txns = append(m.txns[:i], m.txns[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockTransactionRepo) DeleteByInvoice(ctx context.Context, invoiceID int64) error {
	kept := m.txns[:0]
	for _, tx := range m.txns {
		if tx.InvoiceID == nil || *tx.InvoiceID != invoiceID {
			kept = append(kept, tx)
		}
	}
	m.txns = kept
	return nil
}

func (m *mockTransactionRepo) SumByType(ctx context.Context, txType domain.TransactionType, start, end time.Time) (float64, error) {
	total := 0.0
	for _, tx := range m.txns {
		if tx.Type == txType && !tx.Date.Before(start) && !tx.Date.After(end) {
			total += tx.Amount
		}
	}
	return total, nil
}

func (m *mockTransactionRepo) SumByCategory(ctx context.Context, txType domain.TransactionType, start, end time.Time) ([]repository.CategoryTotal, error) {
	byCategory := make(map[string]float64)
	order := make([]string, 0)
	for _, tx := range m.txns {
		if tx.Type != txType || tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		if _, seen := byCategory[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		byCategory[tx.Category] += tx.Amount
	}

	out := make([]repository.CategoryTotal, 0, len(order))
	for _, cat := range order {
		out = append(out, repository.CategoryTotal{Category: cat, Total: byCategory[cat]})
	}
	return out, nil
}

type mockProductRepo struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	m.nextID++
	product.ID = m.nextID
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return m.products[id], nil
}

func (m *mockProductRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0)
	for _, p := range m.products {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductRepo) Update(ctx context.Context, id int64, patch repository.ProductPatch) error {
	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Title == nil && patch.Kind == nil && patch.Price == nil && patch.Description == nil && patch.IsActive == nil {
		return repository.ErrNoFields
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	return nil
}

func (m *mockProductRepo) Deactivate(ctx context.Context, id int64) error {
	inactive := false
	return m.Update(ctx, id, repository.ProductPatch{IsActive: &inactive})
}

type mockClientRepo struct{}

func (m *mockClientRepo) Create(ctx context.Context, client *domain.Client) error { return nil }
func (m *mockClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	if id <= 0 {
		return nil, nil
	}
	return &domain.Client{ID: id, Name: "Lil Test", Email: "lil@test.example"}, nil
}
func (m *mockClientRepo) List(ctx context.Context, search string) ([]*domain.Client, error) {
	return nil, nil
}
func (m *mockClientRepo) Update(ctx context.Context, client *domain.Client) error { return nil }
func (m *mockClientRepo) Delete(ctx context.Context, id int64) error              { return nil }

// mockLedger records lifecycle events without touching a real ledger
type mockLedger struct {
	paidEvents   []*domain.Invoice
	unpaidEvents []int64
}

func (m *mockLedger) InvoiceMarkedPaid(ctx context.Context, invoice *domain.Invoice) error {
	m.paidEvents = append(m.paidEvents, invoice)
	return nil
}

func (m *mockLedger) InvoiceUnmarkedPaid(ctx context.Context, invoiceID int64) error {
	m.unpaidEvents = append(m.unpaidEvents, invoiceID)
	return nil
}

type mockGoalRepo struct {
	goals map[string]*domain.BusinessGoal // keyed by start date
}

func newMockGoalRepo() *mockGoalRepo {
	return &mockGoalRepo{goals: make(map[string]*domain.BusinessGoal)}
}

func (m *mockGoalRepo) Upsert(ctx context.Context, goal *domain.BusinessGoal) error {
	key := goal.StartDate.Format("2006-01-02")
	if existing, ok := m.goals[key]; ok {
		existing.TargetAmount = goal.TargetAmount
		goal.ID = existing.ID
		return nil
	}
	goal.ID = int64(len(m.goals) + 1)
	m.goals[key] = goal
	return nil
}

func (m *mockGoalRepo) GetByPeriod(ctx context.Context, goalType domain.GoalType, startDate time.Time) (*domain.BusinessGoal, error) {
	return m.goals[startDate.Format("2006-01-02")], nil
}
