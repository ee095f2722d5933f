package api

import (
	"net/http"

	"github.com/andstyle/storefront/internal/core/catalog"
	"github.com/go-chi/chi/v5"
)

// =============================================================================
// Public Catalog Handlers
// =============================================================================

// handleListCatalog returns published products, newest first, optionally
// narrowed to one category via ?category=. The sentinel "all" value and
// an absent parameter behave identically.
func (h *Handler) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	products, err := h.store.ListPublished(r.Context(), category)
	if err != nil {
		h.logger.Error("failed to list products", "error", err, "category", category)
		h.writeError(w, http.StatusInternalServerError, "Failed to list products", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, productsToListResponse(products))
}

// handleCatalogOptions enumerates the closed category/size/color/stock
// sets so the product form and the filter UI stay in sync with the
// values validation accepts.
func (h *Handler) handleCatalogOptions(w http.ResponseWriter, r *http.Request) {
	statuses := []catalog.StockStatus{catalog.StockInStock, catalog.StockLowStock, catalog.StockOutOfStock}
	options := make([]StockStatusOption, 0, len(statuses))
	for _, s := range statuses {
		options = append(options, StockStatusOption{Value: string(s), Label: s.Label()})
	}

	h.writeJSON(w, http.StatusOK, CatalogOptionsResponse{
		Categories:    catalog.Categories(),
		CategoryAll:   catalog.CategoryAll,
		Sizes:         catalog.Sizes(),
		Colors:        catalog.PresetColors(),
		StockStatuses: options,
	})
}

// handleGetProduct returns a single product by ID. Unknown IDs get 404
// so the client can render its not-found page.
func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "Product not found", "product_not_found")
			return
		}
		h.logger.Error("failed to get product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, "Failed to get product", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, productToResponse(product))
}
