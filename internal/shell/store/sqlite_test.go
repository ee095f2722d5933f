package store

import (
	"context"
	"testing"
	"time"

	"github.com/andstyle/storefront/internal/core/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func createTestProduct(t *testing.T, store Store, mutate func(*catalog.Product)) *catalog.Product {
	t.Helper()
	desc := "定番のコットンTシャツ"
	product := catalog.NewProduct(catalog.Draft{
		Name:         "コットンTシャツ",
		Brand:        "AND STYLE",
		Description:  &desc,
		Price:        4900,
		Category:     "トップス",
		ImageURL:     "https://example.com/tshirt.jpg",
		SubImageURLs: []string{"https://example.com/tshirt-back.jpg"},
		Sizes:        []string{"S", "M", "L"},
		Colors:       []catalog.Color{{Name: "ホワイト", Hex: "#FFFFFF"}},
		StockStatus:  catalog.StockInStock,
		Published:    true,
	})
	if mutate != nil {
		mutate(product)
	}
	err := store.CreateProduct(context.Background(), product)
	require.NoError(t, err)
	return product
}

// =============================================================================
// Product CRUD Tests
// =============================================================================

func TestCreateProduct_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	product := createTestProduct(t, store, nil)

	retrieved, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, retrieved.ID)
	assert.Equal(t, product.Name, retrieved.Name)
	assert.Equal(t, product.Brand, retrieved.Brand)
	require.NotNil(t, retrieved.Description)
	assert.Equal(t, *product.Description, *retrieved.Description)
	assert.Equal(t, product.Price, retrieved.Price)
	assert.Equal(t, product.SubImageURLs, retrieved.SubImageURLs)
	assert.Equal(t, product.Sizes, retrieved.Sizes)
	assert.Equal(t, product.Colors, retrieved.Colors)
	assert.Equal(t, product.StockStatus, retrieved.StockStatus)
	assert.True(t, retrieved.Published)
}

func TestCreateProduct_AbsentDescription(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	product := createTestProduct(t, store, func(p *catalog.Product) {
		p.Description = nil
	})

	retrieved, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, retrieved.Description)
}

func TestCreateProduct_DuplicateID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	product := createTestProduct(t, store, nil)

	duplicate := *product
	err := store.CreateProduct(ctx, &duplicate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestGetProduct_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetProduct(context.Background(), "prod_missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

// =============================================================================
// Listing Tests
// =============================================================================

func TestListPublished_ExcludesDrafts(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	published := createTestProduct(t, store, nil)
	createTestProduct(t, store, func(p *catalog.Product) {
		p.Published = false
	})

	products, err := store.ListPublished(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, published.ID, products[0].ID)
}

func TestListPublished_FiltersByCategory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	tops := createTestProduct(t, store, nil) // トップス
	createTestProduct(t, store, func(p *catalog.Product) {
		p.Category = "パンツ"
	})

	products, err := store.ListPublished(ctx, "トップス")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, tops.ID, products[0].ID)
}

func TestListPublished_SentinelReturnsAllCategories(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestProduct(t, store, nil)
	createTestProduct(t, store, func(p *catalog.Product) {
		p.Category = "パンツ"
	})

	products, err := store.ListPublished(ctx, catalog.CategoryAll)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestListPublished_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Now()
	older := createTestProduct(t, store, func(p *catalog.Product) {
		p.CreatedAt = base.Add(-time.Hour)
		p.UpdatedAt = p.CreatedAt
	})
	newer := createTestProduct(t, store, func(p *catalog.Product) {
		p.CreatedAt = base
		p.UpdatedAt = p.CreatedAt
	})

	products, err := store.ListPublished(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, newer.ID, products[0].ID)
	assert.Equal(t, older.ID, products[1].ID)
}

func TestListPublished_OrderSurvivesShortFractionalSeconds(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// ".1" is a lexicographic suffix trap: with trimmed fractional
	// seconds "05.1Z" would sort after "05.15Z" despite being older.
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	older := createTestProduct(t, store, func(p *catalog.Product) {
		p.CreatedAt = base.Add(100 * time.Millisecond)
		p.UpdatedAt = p.CreatedAt
	})
	newer := createTestProduct(t, store, func(p *catalog.Product) {
		p.CreatedAt = base.Add(150 * time.Millisecond)
		p.UpdatedAt = p.CreatedAt
	})

	products, err := store.ListPublished(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, newer.ID, products[0].ID)
	assert.Equal(t, older.ID, products[1].ID)
}

func TestListAll_IncludesDrafts(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestProduct(t, store, nil)
	createTestProduct(t, store, func(p *catalog.Product) {
		p.Published = false
	})

	products, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestListAll_Empty(t *testing.T) {
	store := setupTestStore(t)

	products, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)
}

// =============================================================================
// Update Tests
// =============================================================================

func TestUpdateProduct_PartialUpdate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	product := createTestProduct(t, store, nil)

	price := int64(5000)
	updated, err := store.UpdateProduct(ctx, product.ID, catalog.Patch{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, int64(5000), updated.Price)
	assert.Equal(t, product.Name, updated.Name)
	assert.True(t, updated.UpdatedAt.After(product.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(product.CreatedAt))

	// The change is persisted, not just returned.
	retrieved, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), retrieved.Price)
}

func TestUpdateProduct_ClearsDescription(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	product := createTestProduct(t, store, nil)

	empty := ""
	updated, err := store.UpdateProduct(ctx, product.ID, catalog.Patch{Description: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)

	retrieved, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, retrieved.Description)
}

func TestUpdateProduct_TogglePublished(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	product := createTestProduct(t, store, nil)

	published := false
	_, err := store.UpdateProduct(ctx, product.ID, catalog.Patch{Published: &published})
	require.NoError(t, err)

	products, err := store.ListPublished(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	store := setupTestStore(t)

	price := int64(100)
	_, err := store.UpdateProduct(context.Background(), "prod_missing", catalog.Patch{Price: &price})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

// =============================================================================
// Delete Tests
// =============================================================================

func TestDeleteProduct_RemovesProduct(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	product := createTestProduct(t, store, nil)

	err := store.DeleteProduct(ctx, product.ID)
	require.NoError(t, err)

	_, err = store.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct_MissingIDIsNoOp(t *testing.T) {
	store := setupTestStore(t)

	err := store.DeleteProduct(context.Background(), "prod_missing")
	assert.NoError(t, err)
}

func TestDeleteProduct_Idempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	product := createTestProduct(t, store, nil)

	require.NoError(t, store.DeleteProduct(ctx, product.ID))
	assert.NoError(t, store.DeleteProduct(ctx, product.ID))
}

// =============================================================================
// User Tests
// =============================================================================

func testUser(email string) *User {
	return &User{
		ID:           "user_" + email[:4],
		Email:        email,
		PasswordHash: "$2a$12$fakehashfakehashfakehash",
		CreatedAt:    time.Now(),
	}
}

func TestCreateUser_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := testUser("admin@example.com")
	require.NoError(t, store.CreateUser(ctx, user))

	retrieved, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, retrieved.Email)
	assert.Equal(t, user.PasswordHash, retrieved.PasswordHash)

	byEmail, err := store.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser("admin@example.com")))

	duplicate := testUser("admin@example.com")
	duplicate.ID = "user_other"
	err := store.CreateUser(ctx, duplicate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetUserByEmail(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
