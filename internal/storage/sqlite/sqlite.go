// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/pointable/receipts/internal/models"
	"github.com/pointable/receipts/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateReceipt persists a receipt and its items in a single transaction.
// Either the receipt, all of its items and its points become visible
// together, or nothing does.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	// Generate ID if not set
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Insert receipt
	_, err = tx.ExecContext(ctx,
		"INSERT INTO receipts (id, retailer, purchase_date, purchase_time, total, points, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		receipt.ID,
		receipt.Retailer,
		receipt.PurchaseDate.Format(models.DateLayout),
		receipt.PurchaseTime.Format(models.TimeLayout),
		receipt.Total.StringFixed(2),
		receipt.Points,
		receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	// Insert items in submission order. Identical items always get their
	// own rows; there is no cross-receipt sharing.
	for i, item := range receipt.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO receipt_items (receipt_id, position, short_description, price) VALUES (?, ?, ?, ?)",
			receipt.ID, i, item.ShortDescription, item.Price.StringFixed(2),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetReceipt retrieves a receipt by ID, including all items.
func (s *SQLiteStore) GetReceipt(ctx context.Context, id string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	var purchaseDate, purchaseTime, total string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, retailer, purchase_date, purchase_time, total, points, created_at FROM receipts WHERE id = ?",
		id,
	).Scan(&receipt.ID, &receipt.Retailer, &purchaseDate, &purchaseTime, &total, &receipt.Points, &receipt.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	if receipt.PurchaseDate, err = time.Parse(models.DateLayout, purchaseDate); err != nil {
		return nil, fmt.Errorf("failed to parse stored purchase date: %w", err)
	}
	if receipt.PurchaseTime, err = time.Parse(models.TimeLayout, purchaseTime); err != nil {
		return nil, fmt.Errorf("failed to parse stored purchase time: %w", err)
	}
	if receipt.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("failed to parse stored total: %w", err)
	}

	// Get items in submission order
	rows, err := s.db.QueryContext(ctx,
		"SELECT short_description, price FROM receipt_items WHERE receipt_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.Item
		var price string
		if err := rows.Scan(&item.ShortDescription, &price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("failed to parse stored price: %w", err)
		}
		receipt.Items = append(receipt.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return receipt, nil
}
