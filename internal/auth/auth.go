package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates the bearer token failed validation.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified caller behind a bearer token. Token keeps
// the raw credential so downstream calls can stay caller-scoped.
type Identity struct {
	UserID string
	Email  string
	Token  string
}

// Claims are the identity-provider access token claims we rely on.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier validates access tokens issued by the external identity
// provider. Tokens are HS256 JWTs signed with the provider's secret;
// the same subject is what the store's row-level policies key on.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier constructs a Verifier for the given signing secret.
func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	return &Verifier{secret: []byte(secret), now: time.Now}, nil
}

// WithClock overrides the time source, useful for expiry tests.
func (v *Verifier) WithClock(fn func() time.Time) *Verifier {
	if fn != nil {
		v.now = fn
	}
	return v
}

// Verify checks the token signature and required claims and returns
// the caller identity. Any failure maps to ErrInvalidToken; callers
// must not leak parser detail to clients.
func (v *Verifier) Verify(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now))
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Token:  token,
	}, nil
}
