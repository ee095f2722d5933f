package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andstyle/storefront/internal/core/session"
	"github.com/andstyle/storefront/internal/shell/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	return auth.NewTokenManager(auth.TokenConfig{
		Secret: "test-secret",
		TTL:    time.Hour,
		Issuer: "storefront-test",
	})
}

// captureSession returns a handler that records the session it sees.
func captureSession(captured *session.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = session.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// =============================================================================
// Session Middleware Tests
// =============================================================================

func TestSessionMiddleware_ValidCookie(t *testing.T) {
	tokens := testTokens(t)
	token, err := tokens.Issue("user_test0001", "admin@example.com")
	require.NoError(t, err)

	var captured session.Session
	handler := NewSessionMiddleware(tokens, nil).Handler(captureSession(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, captured.Authenticated)
	assert.Equal(t, "user_test0001", captured.UserID)
	assert.Equal(t, "admin@example.com", captured.Email)
}

func TestSessionMiddleware_NoCookie(t *testing.T) {
	var captured session.Session
	handler := NewSessionMiddleware(testTokens(t), nil).Handler(captureSession(&captured))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, captured.Authenticated)
}

func TestSessionMiddleware_InvalidToken(t *testing.T) {
	var captured session.Session
	handler := NewSessionMiddleware(testTokens(t), nil).Handler(captureSession(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, captured.Authenticated)
}

// =============================================================================
// Require Auth Tests
// =============================================================================

func TestRequireAuth_Rejects(t *testing.T) {
	handler := RequireAuth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRequireAuth_PassesAuthenticated(t *testing.T) {
	called := false
	handler := RequireAuth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
	req = req.WithContext(session.WithContext(req.Context(), session.Session{
		UserID:        "user_test0001",
		Authenticated: true,
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
}

// =============================================================================
// Guard Tests
// =============================================================================

func TestGuard_RedirectsAdminWithoutSession(t *testing.T) {
	handler := Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/products", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login?redirect=%2Fadmin%2Fproducts", rec.Header().Get("Location"))
}

func TestGuard_RedirectsAuthWithSession(t *testing.T) {
	handler := Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	req = req.WithContext(session.WithContext(req.Context(), session.Session{Authenticated: true}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, session.AdminHome, rec.Header().Get("Location"))
}

func TestGuard_PassesPublicPaths(t *testing.T) {
	called := false
	handler := Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.True(t, called)
}
