// Package catalog contains the product domain types and the catalog
// filter. This is part of the Functional Core - all functions are pure
// with no I/O.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Stock Status
// =============================================================================

// StockStatus describes product availability, independent of publication.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockLowStock   StockStatus = "low_stock"
	StockOutOfStock StockStatus = "out_of_stock"
)

// IsValid checks if the stock status is one of the three known values.
func (s StockStatus) IsValid() bool {
	switch s {
	case StockInStock, StockLowStock, StockOutOfStock:
		return true
	default:
		return false
	}
}

// Label returns the Japanese display label for the stock status.
func (s StockStatus) Label() string {
	switch s {
	case StockInStock:
		return "在庫あり"
	case StockLowStock:
		return "残りわずか"
	case StockOutOfStock:
		return "在庫なし"
	default:
		return string(s)
	}
}

// =============================================================================
// Categories
// =============================================================================

// CategoryAll is the sentinel "all categories" filter value.
// It is a filter option, not a real category a product can carry.
const CategoryAll = "すべて"

// categories is the closed set of real product categories.
// Must stay in sync with any UI offering category choices.
var categories = []string{
	"トップス", "パンツ", "アウター", "ワンピース",
	"シューズ", "バッグ", "アクセサリー",
}

// Categories returns the real product categories, excluding the sentinel.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// IsCategory reports whether c is a real product category.
func IsCategory(c string) bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// =============================================================================
// Sizes
// =============================================================================

var sizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

// Sizes returns the closed set of size labels.
func Sizes() []string {
	out := make([]string, len(sizes))
	copy(out, sizes)
	return out
}

// IsSize reports whether s is a known size label.
func IsSize(s string) bool {
	for _, known := range sizes {
		if s == known {
			return true
		}
	}
	return false
}

// =============================================================================
// Colors
// =============================================================================

// Color is a named swatch. Name is the dedup key within a single product.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// PresetColors returns the swatches offered by the admin form.
func PresetColors() []Color {
	return []Color{
		{Name: "ブラック", Hex: "#1A1A1A"},
		{Name: "ホワイト", Hex: "#FFFFFF"},
		{Name: "ネイビー", Hex: "#1E3A5F"},
		{Name: "グレー", Hex: "#9CA3AF"},
		{Name: "ベージュ", Hex: "#D4C5A9"},
		{Name: "ブラウン", Hex: "#8B6914"},
		{Name: "レッド", Hex: "#DC2626"},
		{Name: "ブルー", Hex: "#2563EB"},
		{Name: "グリーン", Hex: "#059669"},
		{Name: "ピンク", Hex: "#EC4899"},
	}
}

// DedupeColors removes colors whose name already appeared earlier in the
// slice, preserving the order of first occurrence.
func DedupeColors(colors []Color) []Color {
	if len(colors) == 0 {
		return colors
	}
	seen := make(map[string]bool, len(colors))
	out := make([]Color, 0, len(colors))
	for _, c := range colors {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}

// =============================================================================
// Product
// =============================================================================

// Product is the sole catalog entity.
//
// Description is a pointer so that "no description" is encoded distinctly
// from an empty string. SubImageURLs and Sizes preserve insertion order
// for display.
type Product struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Brand        string      `json:"brand"`
	Description  *string     `json:"description"`
	Price        int64       `json:"price"`
	Category     string      `json:"category"`
	ImageURL     string      `json:"image_url"`
	SubImageURLs []string    `json:"sub_image_urls"`
	Sizes        []string    `json:"sizes"`
	Colors       []Color     `json:"colors"`
	StockStatus  StockStatus `json:"stock_status"`
	Published    bool        `json:"is_published"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Draft is the normalized payload for creating a product. IDs and
// timestamps are assigned by NewProduct, never by the caller.
type Draft struct {
	Name         string
	Brand        string
	Description  *string
	Price        int64
	Category     string
	ImageURL     string
	SubImageURLs []string
	Sizes        []string
	Colors       []Color
	StockStatus  StockStatus
	Published    bool
}

// NewProduct builds a Product from a draft, assigning a fresh ID and
// creation timestamps. Colors are deduped by name.
func NewProduct(d Draft) *Product {
	now := time.Now()
	return &Product{
		ID:           "prod_" + uuid.New().String()[:8],
		Name:         d.Name,
		Brand:        d.Brand,
		Description:  d.Description,
		Price:        d.Price,
		Category:     d.Category,
		ImageURL:     d.ImageURL,
		SubImageURLs: d.SubImageURLs,
		Sizes:        d.Sizes,
		Colors:       DedupeColors(d.Colors),
		StockStatus:  d.StockStatus,
		Published:    d.Published,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// =============================================================================
// Patch
// =============================================================================

// Patch carries a partial product update with named optional fields.
// Nil fields are left untouched. An explicit field list keeps unexpected
// keys from ever reaching the store.
type Patch struct {
	Name         *string
	Brand        *string
	Description  *string // empty string clears the description
	Price        *int64
	Category     *string
	ImageURL     *string
	SubImageURLs *[]string
	Sizes        *[]string
	Colors       *[]Color
	StockStatus  *StockStatus
	Published    *bool
}

// IsZero reports whether the patch sets no fields at all.
func (p Patch) IsZero() bool {
	return p.Name == nil && p.Brand == nil && p.Description == nil &&
		p.Price == nil && p.Category == nil && p.ImageURL == nil &&
		p.SubImageURLs == nil && p.Sizes == nil && p.Colors == nil &&
		p.StockStatus == nil && p.Published == nil
}

// Apply merges the set fields into prod. The caller is responsible for
// bumping UpdatedAt after a successful merge.
func (p Patch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Brand != nil {
		prod.Brand = *p.Brand
	}
	if p.Description != nil {
		if *p.Description == "" {
			prod.Description = nil
		} else {
			desc := *p.Description
			prod.Description = &desc
		}
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.ImageURL != nil {
		prod.ImageURL = *p.ImageURL
	}
	if p.SubImageURLs != nil {
		prod.SubImageURLs = *p.SubImageURLs
	}
	if p.Sizes != nil {
		prod.Sizes = *p.Sizes
	}
	if p.Colors != nil {
		prod.Colors = DedupeColors(*p.Colors)
	}
	if p.StockStatus != nil {
		prod.StockStatus = *p.StockStatus
	}
	if p.Published != nil {
		prod.Published = *p.Published
	}
}
