package domain

import (
	"errors"
	"strings"
	"time"
)

type Client struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Instagram string
	Twitter   string
	Website   string
	Notes     string
	CreatedAt time.Time
}

// NewClient creates a new client with required fields
func NewClient(name, email string) *Client {
	return &Client{
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		CreatedAt: time.Now(),
	}
}

// Validate returns an error if the client is invalid
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("client name is required")
	}
	return nil
}
