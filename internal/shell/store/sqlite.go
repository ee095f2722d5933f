package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/andstyle/storefront/internal/core/catalog"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout is the storage format for timestamps. The fractional
// second is fixed-width so TEXT-column comparison is chronological -
// RFC3339Nano trims trailing zeros, which would make ".1" sort after
// ".15".
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// =============================================================================
// Executor Interface - Shared by DB and Transaction
// =============================================================================

// executor abstracts database operations that can be performed on both
// a database connection and a transaction.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Product Rows
// =============================================================================

// productRow represents a product row in the database. The sequence
// fields are JSON-serialized TEXT columns; timestamps are fixed-width
// timeLayout strings so lexicographic and chronological order agree.
type productRow struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	Brand        string  `db:"brand"`
	Description  *string `db:"description"`
	Price        int64   `db:"price"`
	Category     string  `db:"category"`
	ImageURL     string  `db:"image_url"`
	SubImageURLs string  `db:"sub_image_urls"`
	Sizes        string  `db:"sizes"`
	Colors       string  `db:"colors"`
	StockStatus  string  `db:"stock_status"`
	Published    bool    `db:"is_published"`
	CreatedAt    string  `db:"created_at"`
	UpdatedAt    string  `db:"updated_at"`
}

func productToRowMap(op string, p *catalog.Product) (map[string]any, error) {
	subImagesJSON, err := json.Marshal(p.SubImageURLs)
	if err != nil {
		return nil, NewStoreError(op, "product", p.ID, "failed to serialize sub image urls", ErrInvalidData)
	}
	sizesJSON, err := json.Marshal(p.Sizes)
	if err != nil {
		return nil, NewStoreError(op, "product", p.ID, "failed to serialize sizes", ErrInvalidData)
	}
	colorsJSON, err := json.Marshal(p.Colors)
	if err != nil {
		return nil, NewStoreError(op, "product", p.ID, "failed to serialize colors", ErrInvalidData)
	}

	return map[string]any{
		"id":             p.ID,
		"name":           p.Name,
		"brand":          p.Brand,
		"description":    p.Description,
		"price":          p.Price,
		"category":       p.Category,
		"image_url":      p.ImageURL,
		"sub_image_urls": string(subImagesJSON),
		"sizes":          string(sizesJSON),
		"colors":         string(colorsJSON),
		"stock_status":   string(p.StockStatus),
		"is_published":   p.Published,
		"created_at":     p.CreatedAt.Format(timeLayout),
		"updated_at":     p.UpdatedAt.Format(timeLayout),
	}, nil
}

func rowToProduct(row *productRow) (*catalog.Product, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return nil, NewStoreError("rowToProduct", "product", row.ID, "invalid created_at", ErrInvalidData)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	if err != nil {
		return nil, NewStoreError("rowToProduct", "product", row.ID, "invalid updated_at", ErrInvalidData)
	}

	subImages := []string{}
	if err := json.Unmarshal([]byte(row.SubImageURLs), &subImages); err != nil {
		return nil, NewStoreError("rowToProduct", "product", row.ID, "invalid sub image urls", ErrInvalidData)
	}
	productSizes := []string{}
	if err := json.Unmarshal([]byte(row.Sizes), &productSizes); err != nil {
		return nil, NewStoreError("rowToProduct", "product", row.ID, "invalid sizes", ErrInvalidData)
	}
	colors := []catalog.Color{}
	if err := json.Unmarshal([]byte(row.Colors), &colors); err != nil {
		return nil, NewStoreError("rowToProduct", "product", row.ID, "invalid colors", ErrInvalidData)
	}

	return &catalog.Product{
		ID:           row.ID,
		Name:         row.Name,
		Brand:        row.Brand,
		Description:  row.Description,
		Price:        row.Price,
		Category:     row.Category,
		ImageURL:     row.ImageURL,
		SubImageURLs: subImages,
		Sizes:        productSizes,
		Colors:       colors,
		StockStatus:  catalog.StockStatus(row.StockStatus),
		Published:    row.Published,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// =============================================================================
// Product Reads
// =============================================================================

func (s *SQLiteStore) ListPublished(ctx context.Context, category string) ([]catalog.Product, error) {
	qb := sq.Select("*").
		From("products").
		Where(sq.Eq{"is_published": true}).
		OrderBy("created_at DESC")

	if category != "" && category != catalog.CategoryAll {
		qb = qb.Where(sq.Eq{"category": category})
	}

	return selectProducts(ctx, s.db, "ListPublished", qb)
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]catalog.Product, error) {
	qb := sq.Select("*").
		From("products").
		OrderBy("created_at DESC")

	return selectProducts(ctx, s.db, "ListAll", qb)
}

func selectProducts(ctx context.Context, exec executor, op string, qb sq.SelectBuilder) ([]catalog.Product, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, NewStoreError(op, "product", "", err.Error(), err)
	}

	var rows []productRow
	if err := exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, NewStoreError(op, "product", "", err.Error(), err)
	}

	products := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		product, err := rowToProduct(&row)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}

	return products, nil
}

func (s *SQLiteStore) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return getProduct(ctx, s.db, id)
}

func getProduct(ctx context.Context, exec executor, id string) (*catalog.Product, error) {
	query := `SELECT * FROM products WHERE id = ?`

	var row productRow
	err := exec.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetProduct", "product", id, "product not found", ErrNotFound)
		}
		return nil, NewStoreError("GetProduct", "product", id, err.Error(), err)
	}

	return rowToProduct(&row)
}

// =============================================================================
// Product Writes
// =============================================================================

func (s *SQLiteStore) CreateProduct(ctx context.Context, product *catalog.Product) error {
	row, err := productToRowMap("CreateProduct", product)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (
			id, name, brand, description, price, category, image_url,
			sub_image_urls, sizes, colors, stock_status, is_published,
			created_at, updated_at
		) VALUES (
			:id, :name, :brand, :description, :price, :category, :image_url,
			:sub_image_urls, :sizes, :colors, :stock_status, :is_published,
			:created_at, :updated_at
		)`

	_, err = s.db.NamedExecContext(ctx, query, row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: products.id") {
			return NewStoreError("CreateProduct", "product", product.ID, "product with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("CreateProduct", "product", product.ID, err.Error(), err)
	}

	return nil
}

func (s *SQLiteStore) UpdateProduct(ctx context.Context, id string, patch catalog.Patch) (*catalog.Product, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, NewStoreError("UpdateProduct", "product", id, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	product, err := getProduct(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(product)
	product.UpdatedAt = time.Now()

	row, err := productToRowMap("UpdateProduct", product)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE products SET
			name = :name,
			brand = :brand,
			description = :description,
			price = :price,
			category = :category,
			image_url = :image_url,
			sub_image_urls = :sub_image_urls,
			sizes = :sizes,
			colors = :colors,
			stock_status = :stock_status,
			is_published = :is_published,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := tx.NamedExecContext(ctx, query, row)
	if err != nil {
		return nil, NewStoreError("UpdateProduct", "product", id, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, NewStoreError("UpdateProduct", "product", id, "product not found", ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return nil, NewStoreError("UpdateProduct", "product", id, "failed to commit transaction", err)
	}

	return product, nil
}

func (s *SQLiteStore) DeleteProduct(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = ?`

	// No rows affected is not an error: deleting a missing product is an
	// intentional no-op.
	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return NewStoreError("DeleteProduct", "product", id, err.Error(), err)
	}

	return nil
}

// =============================================================================
// User Operations
// =============================================================================

// userRow represents a user row in the database.
type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    string `db:"created_at"`
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (:id, :email, :password_hash, :created_at)`

	row := map[string]any{
		"id":            user.ID,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"created_at":    user.CreatedAt.Format(timeLayout),
	}

	_, err := s.db.NamedExecContext(ctx, query, row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return NewStoreError("CreateUser", "user", user.ID, "user with this email already exists", ErrDuplicateEmail)
		}
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.id") {
			return NewStoreError("CreateUser", "user", user.ID, "user with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("CreateUser", "user", user.ID, err.Error(), err)
	}

	return nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*User, error) {
	query := `SELECT * FROM users WHERE id = ?`

	var row userRow
	err := s.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetUser", "user", id, "user not found", ErrNotFound)
		}
		return nil, NewStoreError("GetUser", "user", id, err.Error(), err)
	}

	return rowToUser(&row)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT * FROM users WHERE email = ?`

	var row userRow
	err := s.db.GetContext(ctx, &row, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetUserByEmail", "user", email, "user not found", ErrNotFound)
		}
		return nil, NewStoreError("GetUserByEmail", "user", email, err.Error(), err)
	}

	return rowToUser(&row)
}

func rowToUser(row *userRow) (*User, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return nil, NewStoreError("rowToUser", "user", row.ID, "invalid created_at", ErrInvalidData)
	}

	return &User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    createdAt,
	}, nil
}
