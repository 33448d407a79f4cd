package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Environment variable names. Everything the service talks to is
// configured here once, at process start.
const (
	envAddr           = "ORDERDESK_ADDR"
	envPGDSN          = "ORDERDESK_PG_DSN"
	envIdentityURL    = "ORDERDESK_IDENTITY_URL"
	envIdentityKey    = "ORDERDESK_IDENTITY_KEY"
	envJWTSecret      = "ORDERDESK_JWT_SECRET"
	envMailURL        = "ORDERDESK_MAIL_URL"
	envMailAPIKey     = "ORDERDESK_MAIL_API_KEY"
	envMailFrom       = "ORDERDESK_MAIL_FROM"
	envAllowedOrigins = "ORDERDESK_ALLOWED_ORIGINS"
)

const (
	defaultAddr    = ":8080"
	defaultMailURL = "https://api.resend.com"
	defaultOrigins = "http://127.0.0.1:5500"
)

// Config holds everything read from the environment. It is built once
// in main and passed down; handlers never read the environment.
type Config struct {
	Addr string

	// Postgres DSN for the customer/order store.
	PGDSN string

	// Identity provider: base URL, service API key for the password
	// grant, and the HS256 secret its access tokens are signed with.
	IdentityURL string
	IdentityKey string
	JWTSecret   string

	// Transactional email provider.
	MailURL    string
	MailAPIKey string
	MailFrom   string

	// Origins the browser may call us from. A single "*" entry
	// wildcards the check.
	AllowedOrigins []string
}

// FromEnv loads and validates configuration. Missing required
// variables are collected into a single error so operators see the
// full list at once.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:        strings.TrimSpace(os.Getenv(envAddr)),
		PGDSN:       strings.TrimSpace(os.Getenv(envPGDSN)),
		IdentityURL: strings.TrimSpace(os.Getenv(envIdentityURL)),
		IdentityKey: strings.TrimSpace(os.Getenv(envIdentityKey)),
		JWTSecret:   strings.TrimSpace(os.Getenv(envJWTSecret)),
		MailURL:     strings.TrimSpace(os.Getenv(envMailURL)),
		MailAPIKey:  strings.TrimSpace(os.Getenv(envMailAPIKey)),
		MailFrom:    strings.TrimSpace(os.Getenv(envMailFrom)),
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.MailURL == "" {
		cfg.MailURL = defaultMailURL
	}

	rawOrigins := strings.TrimSpace(os.Getenv(envAllowedOrigins))
	if rawOrigins == "" {
		rawOrigins = defaultOrigins
	}
	cfg.AllowedOrigins = splitOrigins(rawOrigins)

	var missing []string
	for _, req := range []struct {
		name  string
		value string
	}{
		{envPGDSN, cfg.PGDSN},
		{envIdentityURL, cfg.IdentityURL},
		{envIdentityKey, cfg.IdentityKey},
		{envJWTSecret, cfg.JWTSecret},
		{envMailAPIKey, cfg.MailAPIKey},
		{envMailFrom, cfg.MailFrom},
	} {
		if req.value == "" {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if !strings.HasPrefix(c.IdentityURL, "http://") && !strings.HasPrefix(c.IdentityURL, "https://") {
		return errors.New("config: identity URL must be an http(s) URL")
	}
	if !strings.HasPrefix(c.MailURL, "http://") && !strings.HasPrefix(c.MailURL, "https://") {
		return errors.New("config: mail URL must be an http(s) URL")
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("config: allowed origins list is empty")
	}
	return nil
}

// Wildcard reports whether the allow-list permits any origin.
func (c Config) Wildcard() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// OriginAllowed reports whether the given Origin header value may call
// the domain endpoints.
func (c Config) OriginAllowed(origin string) bool {
	if c.Wildcard() {
		return true
	}
	for _, o := range c.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
