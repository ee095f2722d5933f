package store

import (
	"context"
	"time"

	"github.com/andstyle/storefront/internal/core/catalog"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for storefront entities.
//
// Two implementations exist, selected once at startup: SQLiteStore is
// the live system of record, FixtureStore serves a static sample
// catalog when no database is configured and rejects every write.
type Store interface {
	// Product reads
	//
	// ListPublished returns published products, newest first. A non-empty
	// category other than the catalog.CategoryAll sentinel restricts the
	// result to that category; no match yields an empty slice, not an error.
	ListPublished(ctx context.Context, category string) ([]catalog.Product, error)

	// ListAll returns every product regardless of publication state,
	// newest first.
	ListAll(ctx context.Context) ([]catalog.Product, error)

	// GetProduct returns the product or a StoreError wrapping ErrNotFound.
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)

	// Product writes
	CreateProduct(ctx context.Context, product *catalog.Product) error

	// UpdateProduct merges the set patch fields into the stored record,
	// bumps updated_at, and returns the updated product. A missing id
	// yields ErrNotFound.
	UpdateProduct(ctx context.Context, id string, patch catalog.Patch) (*catalog.Product, error)

	// DeleteProduct removes the record. Deleting a missing id is a
	// silent no-op, not an error.
	DeleteProduct(ctx context.Context, id string) error

	// User operations (admin accounts)
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// Lifecycle
	Close() error
}

// =============================================================================
// User
// =============================================================================

// User is an admin account. Email is unique and stored lowercased.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
