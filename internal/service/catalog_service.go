package service

import (
	"context"
	"errors"

	"github.com/andy/beatbooks/internal/domain"
	"github.com/andy/beatbooks/internal/repository"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogService manages the product/service catalog
type CatalogService interface {
	// AddProduct creates a new catalog entry
	AddProduct(ctx context.Context, title string, kind domain.ProductKind, price float64, description string) (*domain.Product, error)

	// GetProduct retrieves a product by ID
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// ListProducts lists products, optionally including deactivated ones
	ListProducts(ctx context.Context, activeOnly bool) ([]*domain.Product, error)

	// UpdateProduct applies field edits to a product
	UpdateProduct(ctx context.Context, id int64, patch repository.ProductPatch) error

	// RemoveProduct soft-deletes a product; invoice items keep their copied
	// description and price
	RemoveProduct(ctx context.Context, id int64) error

	// EnsureDefaults seeds the preset catalog when no active products exist
	EnsureDefaults(ctx context.Context) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		logger:      log.With().Str("component", "catalog").Logger(),
	}
}

func (s *catalogService) AddProduct(ctx context.Context, title string, kind domain.ProductKind, price float64, description string) (*domain.Product, error) {
	product := domain.NewProduct(title, kind, price, description)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context, activeOnly bool) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, activeOnly)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int64, patch repository.ProductPatch) error {
	return s.productRepo.Update(ctx, id, patch)
}

func (s *catalogService) RemoveProduct(ctx context.Context, id int64) error {
	return s.productRepo.Deactivate(ctx, id)
}

func (s *catalogService) EnsureDefaults(ctx context.Context) error {
	existing, err := s.productRepo.List(ctx, true)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, product := range domain.DefaultProducts() {
		if err := s.productRepo.Create(ctx, product); err != nil {
			return err
		}
	}

	s.logger.Info().Msg("seeded default product catalog")
	return nil
}
