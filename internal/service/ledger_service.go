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

var ErrTransactionNotFound = errors.New("transaction not found")

// LedgerService manages the income/expense ledger. It also implements
// LedgerSync so the invoice lifecycle can drive it through the narrow
// event contract.
type LedgerService interface {
	LedgerSync

	// Add records a user-entered income or expense transaction
	Add(ctx context.Context, txType domain.TransactionType, amount float64, category, description string, date time.Time) (*domain.Transaction, error)

	// GetTransaction retrieves a transaction by ID
	GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error)

	// ListTransactions lists entries matching the filter, most recent first
	ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*domain.Transaction, error)

	// RecentTransactions returns the latest entries up to limit
	RecentTransactions(ctx context.Context, limit int) ([]*domain.Transaction, error)

	// UpdateTransaction applies field edits to an entry
	UpdateTransaction(ctx context.Context, id int64, patch repository.TransactionPatch) error

	// DeleteTransaction removes an entry. Removing an invoice-linked entry
	// does not revert the invoice's status.
	DeleteTransaction(ctx context.Context, id int64) error
}

type ledgerService struct {
	txRepo repository.TransactionRepository
	logger zerolog.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(txRepo repository.TransactionRepository) LedgerService {
	return &ledgerService{
		txRepo: txRepo,
		logger: log.With().Str("component", "ledger").Logger(),
	}
}

func (s *ledgerService) Add(
	ctx context.Context,
	txType domain.TransactionType,
	amount float64,
	category, description string,
	date time.Time,
) (*domain.Transaction, error) {
	tx := domain.NewTransaction(txType, amount, category, description, date)
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("type", string(txType)).Float64("amount", amount).Msg("transaction recorded")
	return tx, nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.txRepo.GetByID(ctx, id)
}

func (s *ledgerService) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*domain.Transaction, error) {
	return s.txRepo.List(ctx, filter)
}

func (s *ledgerService) RecentTransactions(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	return s.txRepo.Recent(ctx, limit)
}

func (s *ledgerService) UpdateTransaction(ctx context.Context, id int64, patch repository.TransactionPatch) error {
	return s.txRepo.Update(ctx, id, patch)
}

func (s *ledgerService) DeleteTransaction(ctx context.Context, id int64) error {
	return s.txRepo.Delete(ctx, id)
}

// InvoiceMarkedPaid records the income entry for a freshly paid invoice:
// amount equal to the invoice total, the fixed sales category, dated today,
// linked back to the invoice.
func (s *ledgerService) InvoiceMarkedPaid(ctx context.Context, invoice *domain.Invoice) error {
	clientName := invoice.ClientName
	if clientName == "" {
		clientName = "Unknown"
	}

	tx := domain.NewTransaction(
		domain.TransactionTypeIncome,
		invoice.Total,
		domain.SalesCategory,
		fmt.Sprintf("Invoice %s - %s", invoice.InvoiceNumber, clientName),
		time.Now(),
	)
	tx.InvoiceID = &invoice.ID

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return err
	}

	s.logger.Info().Str("invoice", invoice.InvoiceNumber).Float64("amount", invoice.Total).Msg("payment recorded in ledger")
	return nil
}

// InvoiceUnmarkedPaid removes the ledger entry linked to an invoice that
// left paid status.
func (s *ledgerService) InvoiceUnmarkedPaid(ctx context.Context, invoiceID int64) error {
	if err := s.txRepo.DeleteByInvoice(ctx, invoiceID); err != nil {
		return err
	}

	s.logger.Info().Int64("invoice_id", invoiceID).Msg("payment record removed from ledger")
	return nil
}
