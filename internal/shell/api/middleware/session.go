// Package middleware provides HTTP middleware for the storefront API:
// session extraction from the auth cookie, the auth requirement for
// admin endpoints, and the browser route guard.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/andstyle/storefront/internal/core/session"
	"github.com/andstyle/storefront/internal/shell/auth"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "storefront_session"

// =============================================================================
// Session Middleware
// =============================================================================

// SessionMiddleware verifies the session cookie and stores the
// resulting session in the request context. Requests without a cookie,
// or with an invalid or expired token, proceed unauthenticated - the
// guard and RequireAuth decide what that means per route.
type SessionMiddleware struct {
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewSessionMiddleware creates a session middleware.
func NewSessionMiddleware(tokens *auth.TokenManager, logger *slog.Logger) *SessionMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionMiddleware{tokens: tokens, logger: logger}
}

// Handler returns the middleware handler function.
func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.Session{Authenticated: false}

		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			claims, err := m.tokens.Verify(cookie.Value)
			if err != nil {
				m.logger.Debug("rejected session token",
					"error", err,
					"path", r.URL.Path,
				)
			} else {
				sess = session.Session{
					UserID:        claims.Subject,
					Email:         claims.Email,
					Authenticated: true,
				}
			}
		}

		r = r.WithContext(session.WithContext(r.Context(), sess))
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Require Auth Middleware
// =============================================================================

// RequireAuth rejects unauthenticated requests with 401. Use this for
// the admin API. Must be used AFTER SessionMiddleware.
func RequireAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())

			if !sess.Authenticated {
				logger.Warn("unauthenticated request to admin endpoint",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"method", r.Method,
				)
				writeJSONError(w, http.StatusUnauthorized, "Authentication required", "unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// =============================================================================
// Route Guard Middleware
// =============================================================================

// Guard applies the browser route guard: unauthenticated requests to
// admin pages are redirected to login with a return path, authenticated
// requests to auth pages are redirected to the admin listing. API
// routes are untouched - RequireAuth covers those.
// Must be used AFTER SessionMiddleware.
func Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())

		if decision := session.Decide(r.URL.Path, sess.Authenticated); decision.Redirect {
			http.Redirect(w, r, decision.Location, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// JSON Error Response
// =============================================================================

// errorResponse mirrors the API error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSONError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message, Code: code})
}
