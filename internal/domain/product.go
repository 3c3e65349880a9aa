package domain

import (
	"errors"
	"strings"
)

type ProductKind string

const (
	ProductKindLicense ProductKind = "license"
	ProductKindService ProductKind = "service"
)

// Product is a reusable priced line-item template. Products are soft
// deleted (IsActive = false) so invoice items keep a valid back-reference.
type Product struct {
	ID          int64
	Title       string
	Kind        ProductKind
	Price       float64
	Description string
	IsActive    bool
}

// NewProduct creates an active product
func NewProduct(title string, kind ProductKind, price float64, description string) *Product {
	return &Product{
		Title:       strings.TrimSpace(title),
		Kind:        kind,
		Price:       price,
		Description: description,
		IsActive:    true,
	}
}

// Validate returns an error if the product is invalid
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("product title is required")
	}
	if p.Kind != ProductKindLicense && p.Kind != ProductKindService {
		return errors.New("product kind must be license or service")
	}
	if p.Price < 0 {
		return errors.New("product price cannot be negative")
	}
	return nil
}

// DefaultProducts returns the preset catalog seeded on first run.
func DefaultProducts() []*Product {
	return []*Product{
		NewProduct("MP3 Lease", ProductKindLicense, 29.99, "MP3 format lease license"),
		NewProduct("WAV Lease", ProductKindLicense, 49.99, "High quality WAV lease license"),
		NewProduct("Trackout/Stems", ProductKindLicense, 99.99, "Full stems/trackout package"),
		NewProduct("Exclusive Rights", ProductKindLicense, 500.00, "Full exclusive ownership"),
		NewProduct("Mixing (2 Track)", ProductKindService, 50.00, "Basic 2-track mixing service"),
		NewProduct("Full Mix & Master", ProductKindService, 150.00, "Complete mixing and mastering"),
		NewProduct("Custom Beat Production", ProductKindService, 300.00, "Custom beat creation"),
	}
}
