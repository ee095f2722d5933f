package api

import (
	"time"

	"github.com/andstyle/storefront/internal/core/catalog"
)

// =============================================================================
// Request Types
// =============================================================================

// UpdateProductRequest is the request body for partially updating a
// product. Every field is optional; absent fields are left untouched.
// Sending an explicit empty description clears it.
type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Brand        *string          `json:"brand"`
	Description  *string          `json:"description"`
	Price        *int64           `json:"price"`
	Category     *string          `json:"category"`
	ImageURL     *string          `json:"image_url"`
	SubImageURLs *[]string        `json:"sub_image_urls"`
	Sizes        *[]string        `json:"sizes"`
	Colors       *[]catalog.Color `json:"colors"`
	StockStatus  *string          `json:"stock_status"`
	Published    *bool            `json:"is_published"`
}

// CredentialsRequest is the request body for login and register.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// =============================================================================
// Response Types
// =============================================================================

// ProductResponse is the response shape for product operations.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Description  *string         `json:"description"`
	Price        int64           `json:"price"`
	Category     string          `json:"category"`
	ImageURL     string          `json:"image_url"`
	SubImageURLs []string        `json:"sub_image_urls"`
	Sizes        []string        `json:"sizes"`
	Colors       []catalog.Color `json:"colors"`
	StockStatus  string          `json:"stock_status"`
	StockLabel   string          `json:"stock_label"`
	Published    bool            `json:"is_published"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ListProductsResponse is the response for listing endpoints.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// StockStatusOption pairs a stock status value with its display label.
type StockStatusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CatalogOptionsResponse enumerates the closed sets the product form
// and the filter UI offer. Categories excludes the "all" sentinel,
// which is a filter option rather than a category a product can carry.
type CatalogOptionsResponse struct {
	Categories    []string            `json:"categories"`
	CategoryAll   string              `json:"category_all"`
	Sizes         []string            `json:"sizes"`
	Colors        []catalog.Color     `json:"colors"`
	StockStatuses []StockStatusOption `json:"stock_statuses"`
}

// Notification is a transient user-facing message attached to mutation
// responses. Type is "success" or "error".
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// MutationResponse is the response for successful admin mutations. The
// Redirect hint tells the client where to navigate once the
// notification has been perceived.
type MutationResponse struct {
	Product      *ProductResponse `json:"product,omitempty"`
	Notification Notification     `json:"notification"`
	Redirect     string           `json:"redirect,omitempty"`
}

// UserResponse is the public shape of an admin account.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResponse is the response for login and register.
type AuthResponse struct {
	User     UserResponse `json:"user"`
	Redirect string       `json:"redirect"`
}

// ErrorResponse is the error envelope. FieldErrors is populated for
// validation failures so the client can surface messages next to each
// field while keeping in-progress input.
type ErrorResponse struct {
	Error        string            `json:"error"`
	Code         string            `json:"code"`
	FieldErrors  map[string]string `json:"field_errors,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}
