package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"orderdesk.org/internal/auth"
)

const (
	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

var errMissingBearer = errors.New("missing bearer token")

// extractBearerToken pulls the credential out of an Authorization
// header; the scheme match is case-insensitive.
func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingBearer
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerPrefix)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", errMissingBearer
	}
	return token, nil
}

// authenticate resolves the caller behind the request's bearer
// credential. On failure it writes the response and returns ok=false;
// both absence and an invalid token read as 403 per the endpoint
// contract.
func (a *API) authenticate(w http.ResponseWriter, r *http.Request, writeErr errorWriter) (auth.Identity, bool) {
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		writeErr(w, http.StatusForbidden, "Missing Authorization Bearer token")
		return auth.Identity{}, false
	}

	ident, err := a.verifier.Verify(token)
	if err != nil {
		writeErr(w, http.StatusForbidden, "Invalid or expired token")
		return auth.Identity{}, false
	}
	return ident, true
}
