package store

import (
	"context"
	_ "embed"
	"sort"
	"time"

	"github.com/andstyle/storefront/internal/core/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed fixture_catalog.yaml
var fixtureCatalogYAML []byte

// =============================================================================
// FixtureStore
// =============================================================================

// FixtureStore serves a fixed sample catalog when no database is
// configured, so the product listing and detail views keep working in a
// demo/offline context. Every write fails with ErrNotConfigured - this
// store must never silently accept writes.
type FixtureStore struct {
	products []catalog.Product
}

// fixtureDocument is the shape of the embedded sample catalog.
type fixtureDocument struct {
	Products []fixtureProduct `yaml:"products"`
}

type fixtureProduct struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	Brand        string          `yaml:"brand"`
	Description  *string         `yaml:"description"`
	Price        int64           `yaml:"price"`
	Category     string          `yaml:"category"`
	ImageURL     string          `yaml:"image_url"`
	SubImageURLs []string        `yaml:"sub_image_urls"`
	Sizes        []string        `yaml:"sizes"`
	Colors       []catalog.Color `yaml:"colors"`
	StockStatus  string          `yaml:"stock_status"`
	Published    bool            `yaml:"is_published"`
	CreatedAt    time.Time       `yaml:"created_at"`
	UpdatedAt    time.Time       `yaml:"updated_at"`
}

// NewFixtureStore parses the embedded sample catalog.
func NewFixtureStore() (*FixtureStore, error) {
	var doc fixtureDocument
	if err := yaml.Unmarshal(fixtureCatalogYAML, &doc); err != nil {
		return nil, NewStoreError("NewFixtureStore", "", "", "failed to parse fixture catalog", ErrInvalidData)
	}

	products := make([]catalog.Product, 0, len(doc.Products))
	for _, fp := range doc.Products {
		products = append(products, catalog.Product{
			ID:           fp.ID,
			Name:         fp.Name,
			Brand:        fp.Brand,
			Description:  fp.Description,
			Price:        fp.Price,
			Category:     fp.Category,
			ImageURL:     fp.ImageURL,
			SubImageURLs: fp.SubImageURLs,
			Sizes:        fp.Sizes,
			Colors:       fp.Colors,
			StockStatus:  catalog.StockStatus(fp.StockStatus),
			Published:    fp.Published,
			CreatedAt:    fp.CreatedAt,
			UpdatedAt:    fp.UpdatedAt,
		})
	}

	// Same ordering contract as the live store: newest first.
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	return &FixtureStore{products: products}, nil
}

// Close is a no-op for the fixture store.
func (s *FixtureStore) Close() error {
	return nil
}

// =============================================================================
// Product Reads
// =============================================================================

func (s *FixtureStore) ListPublished(ctx context.Context, category string) ([]catalog.Product, error) {
	published := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Published {
			published = append(published, p)
		}
	}
	return catalog.FilterByCategory(published, category), nil
}

func (s *FixtureStore) ListAll(ctx context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *FixtureStore) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, NewStoreError("GetProduct", "product", id, "product not found", ErrNotFound)
}

// =============================================================================
// Writes - always rejected
// =============================================================================

const notConfiguredMessage = "no database configured - set database.dsn (STOREFRONT_DATABASE_DSN) to enable writes"

func (s *FixtureStore) CreateProduct(ctx context.Context, product *catalog.Product) error {
	return NewStoreError("CreateProduct", "product", product.ID, notConfiguredMessage, ErrNotConfigured)
}

func (s *FixtureStore) UpdateProduct(ctx context.Context, id string, patch catalog.Patch) (*catalog.Product, error) {
	return nil, NewStoreError("UpdateProduct", "product", id, notConfiguredMessage, ErrNotConfigured)
}

func (s *FixtureStore) DeleteProduct(ctx context.Context, id string) error {
	return NewStoreError("DeleteProduct", "product", id, notConfiguredMessage, ErrNotConfigured)
}

func (s *FixtureStore) CreateUser(ctx context.Context, user *User) error {
	return NewStoreError("CreateUser", "user", user.ID, notConfiguredMessage, ErrNotConfigured)
}

func (s *FixtureStore) GetUser(ctx context.Context, id string) (*User, error) {
	return nil, NewStoreError("GetUser", "user", id, notConfiguredMessage, ErrNotConfigured)
}

func (s *FixtureStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return nil, NewStoreError("GetUserByEmail", "user", email, notConfiguredMessage, ErrNotConfigured)
}
