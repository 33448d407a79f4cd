package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"orderdesk.org/internal/audit"
	"orderdesk.org/internal/identity"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin forwards credentials to the identity provider and
// relays the session. Every provider-side auth failure collapses into
// one 401 so responses cannot be used to enumerate accounts.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	email := strings.TrimSpace(req.Email)
	password := req.Password
	if email == "" || password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, session, err := a.identity.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		logUpstreamError(r, "identity_provider_failed", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"email": email,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    user,
		"session": session,
	})
}
