package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/andstyle/storefront/internal/core/session"
	"github.com/andstyle/storefront/internal/shell/api/middleware"
	"github.com/andstyle/storefront/internal/shell/auth"
)

// =============================================================================
// Auth Handlers
// =============================================================================

// handleRegister creates an admin account and signs the caller in.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body", "invalid_json")
		return
	}

	if fieldErrors := auth.ValidateCredentials(req.Email, req.Password); len(fieldErrors) > 0 {
		h.writeFieldErrors(w, fieldErrors)
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			h.writeJSON(w, http.StatusConflict, ErrorResponse{
				Error:       auth.MsgEmailTaken,
				Code:        "email_taken",
				FieldErrors: map[string]string{"email": auth.MsgEmailTaken},
			})
			return
		}
		if isNotConfigured(err) {
			h.writeStoreError(w, err, "登録に失敗しました")
			return
		}
		h.logger.Error("failed to register user", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Registration failed", "internal_error")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)

	h.setSessionCookie(w, token)
	h.writeJSON(w, http.StatusCreated, AuthResponse{
		User:     UserResponse{ID: user.ID, Email: user.Email},
		Redirect: session.AdminHome,
	})
}

// handleLogin verifies credentials and starts a session. The optional
// ?redirect= parameter is honored only for local paths so the response
// can never send the browser off-site.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body", "invalid_json")
		return
	}

	if fieldErrors := auth.ValidateCredentials(req.Email, req.Password); len(fieldErrors) > 0 {
		h.writeFieldErrors(w, fieldErrors)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.writeError(w, http.StatusUnauthorized, auth.MsgInvalidCredentials, "invalid_credentials")
			return
		}
		if isNotConfigured(err) {
			h.writeStoreError(w, err, "ログインに失敗しました")
			return
		}
		h.logger.Error("failed to log in user", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Login failed", "internal_error")
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)

	h.setSessionCookie(w, token)
	h.writeJSON(w, http.StatusOK, AuthResponse{
		User:     UserResponse{ID: user.ID, Email: user.Email},
		Redirect: loginRedirect(r.URL.Query().Get("redirect")),
	})
}

// handleLogout ends the session by expiring the cookie. Always
// succeeds, signed in or not.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	h.writeJSON(w, http.StatusOK, MutationResponse{
		Notification: Notification{Type: "success", Message: "ログアウトしました"},
		Redirect:     "/",
	})
}

// handleMe returns the signed-in user, or 401 when the session is
// absent or expired.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if !sess.Authenticated {
		h.writeError(w, http.StatusUnauthorized, "Authentication required", "unauthorized")
		return
	}

	h.writeJSON(w, http.StatusOK, UserResponse{ID: sess.UserID, Email: sess.Email})
}

// =============================================================================
// Session Cookie
// =============================================================================

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// loginRedirect picks the post-login destination. Only same-site
// absolute paths are accepted; anything else falls back to the admin
// listing.
func loginRedirect(requested string) string {
	if strings.HasPrefix(requested, "/") && !strings.HasPrefix(requested, "//") {
		return requested
	}
	return session.AdminHome
}
