package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/beatbooks/internal/db"
	"github.com/andy/beatbooks/internal/domain"
)

// ClientRepo is a SQLite implementation of ClientRepository
type ClientRepo struct {
	db *db.DB
}

// NewClientRepo creates a new ClientRepo
func NewClientRepo(database *db.DB) *ClientRepo {
	return &ClientRepo{db: database}
}

// Create inserts a new client into the database
func (r *ClientRepo) Create(ctx context.Context, client *domain.Client) error {
	if err := client.Validate(); err != nil {
		return fmt.Errorf("invalid client: %w", err)
	}

	query := `
		INSERT INTO clients (name, email, phone, instagram, twitter, website, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.Instagram,
		client.Twitter,
		client.Website,
		client.Notes,
		client.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get client ID: %w", err)
	}

	client.ID = id
	return nil
}

// GetByID retrieves a client. A missing id returns (nil, nil).
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `
		SELECT id, name, email, phone, instagram, twitter, website, notes, created_at
		FROM clients
		WHERE id = ?
	`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// List retrieves clients ordered by name, optionally filtered by a name
// substring search
func (r *ClientRepo) List(ctx context.Context, search string) ([]*domain.Client, error) {
	query := `
		SELECT id, name, email, phone, instagram, twitter, website, notes, created_at
		FROM clients
	`
	args := make([]interface{}, 0)

	if search != "" {
		query += " WHERE name LIKE ?"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

// Update replaces the editable fields of a client
func (r *ClientRepo) Update(ctx context.Context, client *domain.Client) error {
	if err := client.Validate(); err != nil {
		return fmt.Errorf("invalid client: %w", err)
	}

	query := `
		UPDATE clients
		SET name = ?, email = ?, phone = ?, instagram = ?, twitter = ?, website = ?, notes = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.Instagram,
		client.Twitter,
		client.Website,
		client.Notes,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return requireRows(result)
}

// Delete removes a client
func (r *ClientRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return requireRows(result)
}

// scanClient parses one client row
func scanClient(row rowScanner) (*domain.Client, error) {
	client := &domain.Client{}
	var email, phone, instagram, twitter, website, notes, createdAt sql.NullString

	err := row.Scan(
		&client.ID,
		&client.Name,
		&email,
		&phone,
		&instagram,
		&twitter,
		&website,
		&notes,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	client.Email = email.String
	client.Phone = phone.String
	client.Instagram = instagram.String
	client.Twitter = twitter.String
	client.Website = website.String
	client.Notes = notes.String

	if createdAt.Valid {
		if client.CreatedAt, err = parseTime(createdAt.String); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
	}

	return client, nil
}
