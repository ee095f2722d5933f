// Package api provides HTTP handlers for the storefront API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/andstyle/storefront/internal/core/catalog"
	apimiddleware "github.com/andstyle/storefront/internal/shell/api/middleware"
	"github.com/andstyle/storefront/internal/shell/auth"
	"github.com/andstyle/storefront/internal/shell/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// =============================================================================
// Handler
// =============================================================================

// Store modes reported by the health endpoint.
const (
	ModeLive    = "live"
	ModeFixture = "fixture"
)

// Config holds the handler's collaborators.
type Config struct {
	Store  store.Store
	Auth   *auth.Service
	Tokens *auth.TokenManager
	Logger *slog.Logger

	// Mode is ModeLive or ModeFixture, chosen once at startup.
	Mode string
}

// Handler provides HTTP handlers for the API.
type Handler struct {
	store  store.Store
	auth   *auth.Service
	tokens *auth.TokenManager
	logger *slog.Logger
	mode   string
}

// NewHandler creates a new API handler.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeLive
	}
	return &Handler{
		store:  cfg.Store,
		auth:   cfg.Auth,
		tokens: cfg.Tokens,
		logger: cfg.Logger,
		mode:   cfg.Mode,
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestIDHeader)

	sessionMW := apimiddleware.NewSessionMiddleware(h.tokens, h.logger)
	r.Use(sessionMW.Handler)
	r.Use(apimiddleware.Guard)

	// Health endpoint
	r.Get("/health", h.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog
		r.Get("/catalog/options", h.handleCatalogOptions)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.handleListCatalog)
			r.Get("/{id}", h.handleGetProduct)
		})

		// Auth
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.handleRegister)
			r.Post("/login", h.handleLogin)
			r.Post("/logout", h.handleLogout)
			r.Get("/me", h.handleMe)
		})

		// Admin back office
		r.Route("/admin/products", func(r chi.Router) {
			r.Use(apimiddleware.RequireAuth(h.logger))
			r.Get("/", h.handleAdminListProducts)
			r.Post("/", h.handleCreateProduct)
			r.Patch("/{id}", h.handleUpdateProduct)
			r.Delete("/{id}", h.handleDeleteProduct)
		})
	})

	return r
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handler
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Mode: h.mode})
}

// =============================================================================
// Response Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeFieldErrors reports a failed validation: every failing field and
// its message, no store call implied.
func (h *Handler) writeFieldErrors(w http.ResponseWriter, fieldErrors map[string]string) {
	h.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:       "validation failed",
		Code:        "validation_error",
		FieldErrors: fieldErrors,
	})
}

// writeStoreError translates a persistence failure into the transient
// notification the flow surfaces, keeping the cause opaque to the client.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, notification string) {
	if isNotConfigured(err) {
		h.writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:        err.Error(),
			Code:         "store_not_configured",
			Notification: &Notification{Type: "error", Message: notification},
		})
		return
	}
	h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:        "persistence failed",
		Code:         "persistence_error",
		Notification: &Notification{Type: "error", Message: notification},
	})
}

func productToResponse(p *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Brand:        p.Brand,
		Description:  p.Description,
		Price:        p.Price,
		Category:     p.Category,
		ImageURL:     p.ImageURL,
		SubImageURLs: p.SubImageURLs,
		Sizes:        p.Sizes,
		Colors:       p.Colors,
		StockStatus:  string(p.StockStatus),
		StockLabel:   p.StockStatus.Label(),
		Published:    p.Published,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if resp.SubImageURLs == nil {
		resp.SubImageURLs = []string{}
	}
	if resp.Sizes == nil {
		resp.Sizes = []string{}
	}
	if resp.Colors == nil {
		resp.Colors = []catalog.Color{}
	}
	return resp
}

func productsToListResponse(products []catalog.Product) ListProductsResponse {
	resp := ListProductsResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    len(products),
	}
	for i := range products {
		resp.Products = append(resp.Products, productToResponse(&products[i]))
	}
	return resp
}

// isNotFound checks if an error is a not found error.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// isNotConfigured checks if an error is a missing-store configuration error.
func isNotConfigured(err error) bool {
	return errors.Is(err, store.ErrNotConfigured)
}
