// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/pointable/receipts/internal/models"
)

// ErrNotFound is returned when no receipt exists for a requested identifier.
var ErrNotFound = errors.New("receipt not found")

// Store defines the interface for receipt storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateReceipt persists a new receipt together with its items and
	// points as a single unit. The receipt.ID field will be populated by
	// the store.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt retrieves a receipt by its ID, including all items.
	// Returns ErrNotFound if no receipt has that ID.
	GetReceipt(ctx context.Context, id string) (*models.Receipt, error)

	// Close releases any resources held by the store.
	Close() error
}
