// Package validation checks product submissions for completeness and
// type correctness before persistence. All functions are pure - no
// network or store access, so the rules can be unit-tested independent
// of persistence.
package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/andstyle/storefront/internal/core/catalog"
)

// =============================================================================
// Messages
// =============================================================================

// User-facing field error messages. Kept identical to the admin form.
const (
	MsgNameRequired        = "商品名を入力してください"
	MsgBrandRequired       = "ブランド名を入力してください"
	MsgPriceRequired       = "価格を入力してください"
	MsgPriceInvalid        = "正しい価格を入力してください"
	MsgCategoryRequired    = "カテゴリを選択してください"
	MsgImageURLRequired    = "メイン画像URLを入力してください"
	MsgStockStatusRequired = "在庫状態を選択してください"
)

// =============================================================================
// Types
// =============================================================================

// Submission mirrors the admin product form: text inputs arrive as raw
// strings, sub image URLs as one newline-delimited block.
type Submission struct {
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Description  string          `json:"description"`
	Price        string          `json:"price"`
	Category     string          `json:"category"`
	ImageURL     string          `json:"image_url"`
	SubImageURLs string          `json:"sub_image_urls"`
	Sizes        []string        `json:"sizes"`
	Colors       []catalog.Color `json:"colors"`
	StockStatus  string          `json:"stock_status"`
	Published    bool            `json:"is_published"`
}

// Result is the outcome of validating a submission. FieldErrors maps a
// field name to its message; Valid is true when the map is empty.
type Result struct {
	Valid       bool
	FieldErrors map[string]string
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks every rule independently and reports all failing
// fields together, never short-circuiting.
func Validate(s Submission) Result {
	errs := make(map[string]string)

	if strings.TrimSpace(s.Name) == "" {
		errs["name"] = MsgNameRequired
	}
	if strings.TrimSpace(s.Brand) == "" {
		errs["brand"] = MsgBrandRequired
	}
	if s.Price == "" {
		errs["price"] = MsgPriceRequired
	} else if !validPrice(s.Price) {
		errs["price"] = MsgPriceInvalid
	}
	if !catalog.IsCategory(s.Category) {
		errs["category"] = MsgCategoryRequired
	}
	if strings.TrimSpace(s.ImageURL) == "" {
		errs["image_url"] = MsgImageURLRequired
	}
	if !catalog.StockStatus(s.StockStatus).IsValid() {
		errs["stock_status"] = MsgStockStatusRequired
	}

	return Result{Valid: len(errs) == 0, FieldErrors: errs}
}

// validPrice accepts a finite positive number that fits in int64.
// ParseFloat alone is not enough: it parses "NaN" and "Inf", and NaN
// compares false against everything.
func validPrice(raw string) bool {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	return n > 0 && n < math.MaxInt64
}

// =============================================================================
// Normalization
// =============================================================================

// Normalize converts a valid submission into a product draft: text
// fields are trimmed, an empty description becomes absent, the sub
// image block is split into trimmed non-empty URLs, the price is
// coerced to a number, and colors are deduped by name.
//
// Normalize assumes Validate has passed; on an unparseable price it
// falls back to zero rather than guessing.
func Normalize(s Submission) catalog.Draft {
	var description *string
	if d := strings.TrimSpace(s.Description); d != "" {
		description = &d
	}

	price, _ := strconv.ParseFloat(s.Price, 64)

	return catalog.Draft{
		Name:         strings.TrimSpace(s.Name),
		Brand:        strings.TrimSpace(s.Brand),
		Description:  description,
		Price:        int64(price),
		Category:     s.Category,
		ImageURL:     strings.TrimSpace(s.ImageURL),
		SubImageURLs: SplitImageURLs(s.SubImageURLs),
		Sizes:        s.Sizes,
		Colors:       catalog.DedupeColors(s.Colors),
		StockStatus:  catalog.StockStatus(s.StockStatus),
		Published:    s.Published,
	}
}

// SplitImageURLs splits a newline-delimited block into a sequence of
// trimmed, non-empty URLs, preserving order.
func SplitImageURLs(block string) []string {
	lines := strings.Split(block, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if url := strings.TrimSpace(line); url != "" {
			out = append(out, url)
		}
	}
	return out
}
