// Package session provides the authenticated-session value type, its
// request-context plumbing, and the route guard rule for admin and auth
// surfaces. The guard decision is a pure function so the access-control
// rule can be tested without HTTP dependencies.
package session

import (
	"context"
	"net/url"
	"strings"
)

// =============================================================================
// Context Key
// =============================================================================

type contextKey string

const sessionContextKey contextKey = "session"

// =============================================================================
// Session
// =============================================================================

// Session is the explicit session object passed through the request
// context. It replaces ambient global auth state - every collaborator
// that needs the current user reads it from here.
type Session struct {
	// UserID is the authenticated user's ID (e.g. "user_bc6849d9").
	UserID string

	// Email is the authenticated user's email address.
	Email string

	// Authenticated indicates whether the request carries a valid session.
	Authenticated bool
}

// WithContext stores the session in the request context.
func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// FromContext retrieves the session from the request context.
// If no session is found, returns an unauthenticated session.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(sessionContextKey).(Session); ok {
		return s
	}
	return Session{Authenticated: false}
}

// =============================================================================
// Route Guard
// =============================================================================

const (
	// AdminPrefix guards the administrative back office.
	AdminPrefix = "/admin"

	// AuthPrefix guards the login/register surfaces.
	AuthPrefix = "/auth"

	// LoginPath is where unauthenticated admin requests are sent.
	LoginPath = "/auth/login"

	// AdminHome is where authenticated requests to auth surfaces are sent.
	AdminHome = "/admin/products"
)

// GuardDecision is the outcome of the route guard rule.
type GuardDecision struct {
	// Redirect indicates the request must be redirected instead of served.
	Redirect bool

	// Location is the redirect target when Redirect is true.
	Location string
}

// Decide applies the fixed access-control rule:
//
//   - admin path without a session redirects to login, carrying the
//     requested path so the user lands back after signing in;
//   - auth path with a session redirects to the admin listing;
//   - anything else passes through.
func Decide(path string, authenticated bool) GuardDecision {
	if strings.HasPrefix(path, AdminPrefix) && !authenticated {
		return GuardDecision{
			Redirect: true,
			Location: LoginPath + "?redirect=" + url.QueryEscape(path),
		}
	}
	if strings.HasPrefix(path, AuthPrefix) && authenticated {
		return GuardDecision{Redirect: true, Location: AdminHome}
	}
	return GuardDecision{}
}
