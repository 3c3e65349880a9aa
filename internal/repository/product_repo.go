package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/beatbooks/internal/db"
	"github.com/andy/beatbooks/internal/domain"
)

// ProductRepo is a SQLite implementation of ProductRepository
type ProductRepo struct {
	db *db.DB
}

// NewProductRepo creates a new ProductRepo
func NewProductRepo(database *db.DB) *ProductRepo {
	return &ProductRepo{db: database}
}

// Create inserts a new product into the catalog
func (r *ProductRepo) Create(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}

	query := `
		INSERT INTO products (title, type, price, description, is_active)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Title,
		string(product.Kind),
		product.Price,
		product.Description,
		product.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get product ID: %w", err)
	}

	product.ID = id
	return nil
}

// GetByID retrieves a product. A missing id returns (nil, nil).
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, title, type, price, description, is_active
		FROM products
		WHERE id = ?
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// List retrieves products ordered by kind then title
func (r *ProductRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Product, error) {
	query := `
		SELECT id, title, type, price, description, is_active
		FROM products
	`
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY type, title"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Update applies a partial update to a product
func (r *ProductRepo) Update(ctx context.Context, id int64, patch ProductPatch) error {
	updates := make([]string, 0)
	args := make([]interface{}, 0)

	if patch.Title != nil {
		updates = append(updates, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Kind != nil {
		updates = append(updates, "type = ?")
		args = append(args, string(*patch.Kind))
	}
	if patch.Price != nil {
		updates = append(updates, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.Description != nil {
		updates = append(updates, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.IsActive != nil {
		updates = append(updates, "is_active = ?")
		args = append(args, *patch.IsActive)
	}

	if len(updates) == 0 {
		return ErrNoFields
	}

	args = append(args, id)
	query := "UPDATE products SET " + joinUpdates(updates) + " WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireRows(result)
}

// Deactivate soft-deletes a product. Invoice items that copied its
// description and price are unaffected.
func (r *ProductRepo) Deactivate(ctx context.Context, id int64) error {
	inactive := false
	return r.Update(ctx, id, ProductPatch{IsActive: &inactive})
}

// scanProduct parses one product row
func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var kind string
	var description sql.NullString

	err := row.Scan(
		&product.ID,
		&product.Title,
		&kind,
		&product.Price,
		&description,
		&product.IsActive,
	)
	if err != nil {
		return nil, err
	}

	product.Kind = domain.ProductKind(kind)
	product.Description = description.String
	return product, nil
}
