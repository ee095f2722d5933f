package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Context Tests
// =============================================================================

func TestFromContext_Missing(t *testing.T) {
	sess := FromContext(context.Background())

	assert.False(t, sess.Authenticated)
	assert.Empty(t, sess.UserID)
}

func TestFromContext_RoundTrip(t *testing.T) {
	in := Session{UserID: "user_bc6849d9", Email: "admin@example.com", Authenticated: true}
	ctx := WithContext(context.Background(), in)

	out := FromContext(ctx)

	assert.Equal(t, in, out)
}

// =============================================================================
// Guard Tests
// =============================================================================

func TestDecide_AdminWithoutSessionRedirectsToLogin(t *testing.T) {
	decision := Decide("/admin/products", false)

	assert.True(t, decision.Redirect)
	assert.Equal(t, "/auth/login?redirect=%2Fadmin%2Fproducts", decision.Location)
}

func TestDecide_AdminSubPathCarriesFullPath(t *testing.T) {
	decision := Decide("/admin/products/new", false)

	assert.True(t, decision.Redirect)
	assert.Equal(t, "/auth/login?redirect=%2Fadmin%2Fproducts%2Fnew", decision.Location)
}

func TestDecide_AdminWithSessionPasses(t *testing.T) {
	decision := Decide("/admin/products", true)

	assert.False(t, decision.Redirect)
}

func TestDecide_AuthWithSessionRedirectsToAdminHome(t *testing.T) {
	decision := Decide("/auth/login", true)

	assert.True(t, decision.Redirect)
	assert.Equal(t, AdminHome, decision.Location)
}

func TestDecide_AuthWithoutSessionPasses(t *testing.T) {
	decision := Decide("/auth/login", false)

	assert.False(t, decision.Redirect)
}

func TestDecide_PublicPathsAlwaysPass(t *testing.T) {
	for _, path := range []string{"/", "/products", "/products/prod_123", "/api/v1/products"} {
		assert.False(t, Decide(path, false).Redirect, path)
		assert.False(t, Decide(path, true).Redirect, path)
	}
}
