package service

import (
	"context"
	"testing"

	"github.com/andy/beatbooks/internal/domain"
)

func TestEnsureDefaultsSeedsEmptyCatalog(t *testing.T) {
	productRepo := newMockProductRepo()
	svc := NewCatalogService(productRepo)
	ctx := context.Background()

	if err := svc.EnsureDefaults(ctx); err != nil {
		t.Fatalf("EnsureDefaults failed: %v", err)
	}

	products, _ := svc.ListProducts(ctx, true)
	if len(products) != len(domain.DefaultProducts()) {
		t.Fatalf("expected %d seeded products, got %d", len(domain.DefaultProducts()), len(products))
	}

	// Running again must not duplicate the catalog
	if err := svc.EnsureDefaults(ctx); err != nil {
		t.Fatalf("second EnsureDefaults failed: %v", err)
	}
	products, _ = svc.ListProducts(ctx, true)
	if len(products) != len(domain.DefaultProducts()) {
		t.Errorf("seeding ran twice, got %d products", len(products))
	}
}

func TestEnsureDefaultsSkipsPopulatedCatalog(t *testing.T) {
	productRepo := newMockProductRepo()
	svc := NewCatalogService(productRepo)
	ctx := context.Background()

	if _, err := svc.AddProduct(ctx, "Custom Pack", domain.ProductKindLicense, 75.00, ""); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	if err := svc.EnsureDefaults(ctx); err != nil {
		t.Fatalf("EnsureDefaults failed: %v", err)
	}
	products, _ := svc.ListProducts(ctx, true)
	if len(products) != 1 {
		t.Errorf("expected existing catalog untouched, got %d products", len(products))
	}
}

func TestRemoveProductDeactivates(t *testing.T) {
	productRepo := newMockProductRepo()
	svc := NewCatalogService(productRepo)
	ctx := context.Background()

	product, _ := svc.AddProduct(ctx, "MP3 Lease", domain.ProductKindLicense, 29.99, "")
	if err := svc.RemoveProduct(ctx, product.ID); err != nil {
		t.Fatalf("RemoveProduct failed: %v", err)
	}

	active, _ := svc.ListProducts(ctx, true)
	if len(active) != 0 {
		t.Error("expected no active products after removal")
	}
	all, _ := svc.ListProducts(ctx, false)
	if len(all) != 1 {
		t.Error("removed product should remain in the full list")
	}
}
