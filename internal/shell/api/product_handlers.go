package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/andstyle/storefront/internal/core/catalog"
	"github.com/andstyle/storefront/internal/core/validation"
	"github.com/go-chi/chi/v5"
)

// Transient notification messages surfaced by the admin mutation flows.
const (
	msgProductCreated      = "商品を登録しました"
	msgProductUpdated      = "商品を更新しました"
	msgProductDeleted      = "商品を削除しました"
	msgProductCreateFailed = "商品の登録に失敗しました"
	msgProductUpdateFailed = "商品の更新に失敗しました"
	msgProductDeleteFailed = "削除に失敗しました"
)

// =============================================================================
// Admin Product Handlers
// =============================================================================

// handleAdminListProducts returns every product, drafts included,
// newest first.
func (h *Handler) handleAdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to list products", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, productsToListResponse(products))
}

// handleCreateProduct validates a product submission and persists it.
// Validation failure reports every failing field at once and never
// reaches the store.
func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var sub validation.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body", "invalid_json")
		return
	}

	if result := validation.Validate(sub); !result.Valid {
		h.writeFieldErrors(w, result.FieldErrors)
		return
	}

	product := catalog.NewProduct(validation.Normalize(sub))

	if err := h.store.CreateProduct(r.Context(), product); err != nil {
		h.logger.Error("failed to create product", "error", err, "product_id", product.ID)
		h.writeStoreError(w, err, msgProductCreateFailed)
		return
	}

	h.logger.Info("product created", "product_id", product.ID, "name", product.Name)

	resp := productToResponse(product)
	h.writeJSON(w, http.StatusCreated, MutationResponse{
		Product:      &resp,
		Notification: Notification{Type: "success", Message: msgProductCreated},
		Redirect:     "/admin/products",
	})
}

// handleUpdateProduct applies a partial update. Only fields present in
// the body change; fields that are present are validated with the same
// rules the create form uses.
func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body", "invalid_json")
		return
	}

	patch, fieldErrors := buildPatch(req)
	if len(fieldErrors) > 0 {
		h.writeFieldErrors(w, fieldErrors)
		return
	}

	product, err := h.store.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "Product not found", "product_not_found")
			return
		}
		h.logger.Error("failed to update product", "error", err, "product_id", id)
		h.writeStoreError(w, err, msgProductUpdateFailed)
		return
	}

	h.logger.Info("product updated", "product_id", id)

	resp := productToResponse(product)
	h.writeJSON(w, http.StatusOK, MutationResponse{
		Product:      &resp,
		Notification: Notification{Type: "success", Message: msgProductUpdated},
		Redirect:     "/admin/products",
	})
}

// handleDeleteProduct removes a product. Deleting an ID that is already
// gone succeeds the same way, so a retried delete never errors.
func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		h.logger.Error("failed to delete product", "error", err, "product_id", id)
		h.writeStoreError(w, err, msgProductDeleteFailed)
		return
	}

	h.logger.Info("product deleted", "product_id", id)

	h.writeJSON(w, http.StatusOK, MutationResponse{
		Notification: Notification{Type: "success", Message: msgProductDeleted},
	})
}

// buildPatch converts an update request into a typed patch, validating
// each field that is present with the create-form rules. Absent fields
// produce neither a patch entry nor an error.
func buildPatch(req UpdateProductRequest) (catalog.Patch, map[string]string) {
	patch := catalog.Patch{}
	errs := make(map[string]string)

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			errs["name"] = validation.MsgNameRequired
		} else {
			patch.Name = &name
		}
	}
	if req.Brand != nil {
		brand := strings.TrimSpace(*req.Brand)
		if brand == "" {
			errs["brand"] = validation.MsgBrandRequired
		} else {
			patch.Brand = &brand
		}
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		patch.Description = &desc
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			errs["price"] = validation.MsgPriceInvalid
		} else {
			patch.Price = req.Price
		}
	}
	if req.Category != nil {
		if !catalog.IsCategory(*req.Category) {
			errs["category"] = validation.MsgCategoryRequired
		} else {
			patch.Category = req.Category
		}
	}
	if req.ImageURL != nil {
		imageURL := strings.TrimSpace(*req.ImageURL)
		if imageURL == "" {
			errs["image_url"] = validation.MsgImageURLRequired
		} else {
			patch.ImageURL = &imageURL
		}
	}
	if req.SubImageURLs != nil {
		patch.SubImageURLs = req.SubImageURLs
	}
	if req.Sizes != nil {
		patch.Sizes = req.Sizes
	}
	if req.Colors != nil {
		patch.Colors = req.Colors
	}
	if req.StockStatus != nil {
		status := catalog.StockStatus(*req.StockStatus)
		if !status.IsValid() {
			errs["stock_status"] = validation.MsgStockStatusRequired
		} else {
			patch.StockStatus = &status
		}
	}
	if req.Published != nil {
		patch.Published = req.Published
	}

	return patch, errs
}
