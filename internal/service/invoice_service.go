package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andy/beatbooks/internal/domain"
	"github.com/andy/beatbooks/internal/repository"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrItemNotFound       = errors.New("invoice item not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrInvoiceNotEditable = errors.New("invoice items cannot be changed in its current status")
	ErrInvalidStatus      = errors.New("invalid invoice status")
)

// LedgerSync is the narrow contract between the invoice lifecycle and the
// transaction ledger. Status transitions drive the ledger through these
// two events; nothing flows the other way.
type LedgerSync interface {
	// InvoiceMarkedPaid records the income entry for an invoice that just
	// entered paid status.
	InvoiceMarkedPaid(ctx context.Context, invoice *domain.Invoice) error
	// InvoiceUnmarkedPaid removes the ledger entry linked to an invoice
	// that just left paid status.
	InvoiceUnmarkedPaid(ctx context.Context, invoiceID int64) error
}

// InvoiceService owns invoice creation, editing, derived totals, and the
// status lifecycle with its ledger side effects
type InvoiceService interface {
	// CreateDraft creates a new draft invoice with an auto-generated number
	CreateDraft(ctx context.Context, clientID int64, dueDate *time.Time, taxRate float64, notes, terms string) (*domain.Invoice, error)

	// GetInvoice retrieves an invoice with its line items
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)

	// ListInvoices lists invoices with optional filters
	ListInvoices(ctx context.Context, status *domain.InvoiceStatus, clientID *int64) ([]*domain.Invoice, error)

	// UpdateInvoice applies field edits and recomputes totals
	UpdateInvoice(ctx context.Context, id int64, patch repository.InvoicePatch) error

	// SetStatus transitions the invoice and synchronizes the ledger
	SetStatus(ctx context.Context, id int64, newStatus domain.InvoiceStatus) error

	// DeleteInvoice hard-deletes an invoice, its items, and any linked
	// ledger transaction
	DeleteInvoice(ctx context.Context, id int64) error

	// AddItem attaches a free-form line item and recomputes totals
	AddItem(ctx context.Context, invoiceID int64, description string, quantity int64, unitPrice float64) (*domain.InvoiceItem, error)

	// AddProductItem attaches a line item copied from a catalog product
	AddProductItem(ctx context.Context, invoiceID, productID, quantity int64) (*domain.InvoiceItem, error)

	// UpdateItem edits a line item and recomputes totals
	UpdateItem(ctx context.Context, itemID int64, patch repository.ItemPatch) error

	// RemoveItem deletes a line item and recomputes totals
	RemoveItem(ctx context.Context, itemID int64) error

	// RecalculateTotals rederives subtotal, tax, and total from line items
	RecalculateTotals(ctx context.Context, invoiceID int64) error
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	productRepo  repository.ProductRepository
	clientRepo   repository.ClientRepository
	ledger       LedgerSync
	numberPrefix string
	logger       zerolog.Logger
}

// NewInvoiceService creates a new invoice service. numberPrefix is the
// invoice number prefix, e.g. "INV".
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	ledger LedgerSync,
	numberPrefix string,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		clientRepo:   clientRepo,
		ledger:       ledger,
		numberPrefix: numberPrefix,
		logger:       log.With().Str("component", "invoices").Logger(),
	}
}

func (s *invoiceService) CreateDraft(
	ctx context.Context,
	clientID int64,
	dueDate *time.Time,
	taxRate float64,
	notes, terms string,
) (*domain.Invoice, error) {
	// Verify client exists
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	// Generate invoice number for the creation year
	year := time.Now().Year()
	invoiceNumber, err := s.invoiceRepo.NextNumber(ctx, s.numberPrefix, year)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice number: %w", err)
	}

	invoice := domain.NewInvoice(invoiceNumber, clientID, dueDate, taxRate)
	invoice.Notes = notes
	invoice.Terms = terms
	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	invoice.ClientName = client.Name
	invoice.ClientEmail = client.Email

	s.logger.Info().Str("number", invoice.InvoiceNumber).Int64("client_id", clientID).Msg("draft invoice created")
	return invoice, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, nil
	}

	items, err := s.invoiceRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return invoice, nil
}

func (s *invoiceService) ListInvoices(
	ctx context.Context,
	status *domain.InvoiceStatus,
	clientID *int64,
) ([]*domain.Invoice, error) {
	return s.invoiceRepo.List(ctx, status, clientID)
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id int64, patch repository.InvoicePatch) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return ErrInvoiceNotFound
	}

	if err := s.invoiceRepo.Update(ctx, id, patch); err != nil {
		return err
	}

	// Field edits can change the tax rate, so totals are always rederived
	return s.RecalculateTotals(ctx, id)
}

// SetStatus always writes the stored status. Entering paid stamps paid_at
// and records the income entry; leaving paid clears paid_at and removes it.
// A same-status call has no ledger effect.
func (s *invoiceService) SetStatus(ctx context.Context, id int64, newStatus domain.InvoiceStatus) error {
	if !domain.ValidStatus(newStatus) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, newStatus)
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return ErrInvoiceNotFound
	}

	oldStatus := invoice.Status

	paidAt := invoice.PaidAt
	if newStatus == domain.InvoiceStatusPaid {
		if oldStatus != domain.InvoiceStatusPaid {
			now := time.Now()
			paidAt = &now
		}
	} else {
		paidAt = nil
	}

	if err := s.invoiceRepo.SetStatus(ctx, id, newStatus, paidAt); err != nil {
		return err
	}

	// Ledger side effects only fire on a real paid boundary crossing
	if newStatus == domain.InvoiceStatusPaid && oldStatus != domain.InvoiceStatusPaid {
		if err := s.ledger.InvoiceMarkedPaid(ctx, invoice); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
	}
	if oldStatus == domain.InvoiceStatusPaid && newStatus != domain.InvoiceStatusPaid {
		if err := s.ledger.InvoiceUnmarkedPaid(ctx, id); err != nil {
			return fmt.Errorf("failed to remove payment record: %w", err)
		}
	}

	s.logger.Info().
		Str("number", invoice.InvoiceNumber).
		Str("from", string(oldStatus)).
		Str("to", string(newStatus)).
		Msg("invoice status changed")
	return nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id int64) error {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("invoice_id", id).Msg("invoice deleted")
	return nil
}

func (s *invoiceService) AddItem(ctx context.Context, invoiceID int64, description string, quantity int64, unitPrice float64) (*domain.InvoiceItem, error) {
	if err := s.requireEditable(ctx, invoiceID); err != nil {
		return nil, err
	}

	item := domain.NewInvoiceItem(invoiceID, description, quantity, unitPrice, nil)
	if err := s.invoiceRepo.AddItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.RecalculateTotals(ctx, invoiceID); err != nil {
		return nil, err
	}
	return item, nil
}

// AddProductItem copies the product's description and current price onto
// the new item, so the item survives later product changes or deletion.
func (s *invoiceService) AddProductItem(ctx context.Context, invoiceID, productID, quantity int64) (*domain.InvoiceItem, error) {
	if err := s.requireEditable(ctx, invoiceID); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %d not found", productID)
	}

	item := domain.NewInvoiceItem(invoiceID, product.Title, quantity, product.Price, &product.ID)
	if err := s.invoiceRepo.AddItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.RecalculateTotals(ctx, invoiceID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *invoiceService) UpdateItem(ctx context.Context, itemID int64, patch repository.ItemPatch) error {
	item, err := s.invoiceRepo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if err := s.requireEditable(ctx, item.InvoiceID); err != nil {
		return err
	}

	if err := s.invoiceRepo.UpdateItem(ctx, itemID, patch); err != nil {
		return err
	}
	return s.RecalculateTotals(ctx, item.InvoiceID)
}

func (s *invoiceService) RemoveItem(ctx context.Context, itemID int64) error {
	item, err := s.invoiceRepo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if err := s.requireEditable(ctx, item.InvoiceID); err != nil {
		return err
	}

	if err := s.invoiceRepo.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	return s.RecalculateTotals(ctx, item.InvoiceID)
}

// RecalculateTotals reads all items, rederives the three total fields, and
// persists them together. Safe to call at any time; the worst failure mode
// elsewhere is a stale total this call corrects.
func (s *invoiceService) RecalculateTotals(ctx context.Context, invoiceID int64) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return ErrInvoiceNotFound
	}

	items, err := s.invoiceRepo.GetItems(ctx, invoiceID)
	if err != nil {
		return err
	}
	invoice.Items = items
	invoice.CalculateTotals()

	return s.invoiceRepo.SetTotals(ctx, invoiceID, invoice.Subtotal, invoice.TaxAmount, invoice.Total)
}

func (s *invoiceService) requireEditable(ctx context.Context, invoiceID int64) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return ErrInvoiceNotFound
	}
	if !invoice.CanEdit() {
		return ErrInvoiceNotEditable
	}
	return nil
}
