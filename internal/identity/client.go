// Package identity talks to the external identity provider. The
// service never mints or validates credentials during login; it
// forwards them and relays the provider's verdict.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"orderdesk.org/internal/obs"
)

const passwordGrantPath = "/auth/v1/token?grant_type=password"

// ErrInvalidCredentials is returned for any provider-reported
// authentication failure. The provider's reason is logged server-side
// and deliberately never exposed, so callers cannot probe accounts.
var ErrInvalidCredentials = errors.New("identity: invalid credentials")

// Session is the bearer credential bundle issued by the provider. It
// is relayed to the caller verbatim and never persisted here.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
}

// Client is a thin password-grant client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient constructs a Client for the given provider endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type grantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type grantResponse struct {
	Session
	User json.RawMessage `json:"user"`
}

type grantError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

// Login exchanges email/password for a session. The returned user
// object is the provider's own JSON, passed through untouched.
func (c *Client) Login(ctx context.Context, email, password string) (json.RawMessage, Session, error) {
	payload, err := json.Marshal(grantRequest{Email: email, Password: password})
	if err != nil {
		return nil, Session{}, fmt.Errorf("identity: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+passwordGrantPath, bytes.NewReader(payload))
	if err != nil {
		return nil, Session{}, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, Session{}, fmt.Errorf("identity: call provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, Session{}, fmt.Errorf("identity: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		var ge grantError
		_ = json.Unmarshal(body, &ge)
		obs.LogRequest(map[string]any{
			"ts":     time.Now().UTC().Format(time.RFC3339Nano),
			"level":  "warn",
			"msg":    "identity_login_rejected",
			"status": resp.StatusCode,
			"reason": firstNonEmpty(ge.ErrorDescription, ge.Msg, ge.Error),
		})
		return nil, Session{}, ErrInvalidCredentials
	default:
		return nil, Session{}, fmt.Errorf("identity: provider returned status %d", resp.StatusCode)
	}

	var gr grantResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, Session{}, fmt.Errorf("identity: decode response: %w", err)
	}
	if gr.AccessToken == "" {
		return nil, Session{}, errors.New("identity: provider returned no access token")
	}
	return gr.User, gr.Session, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
