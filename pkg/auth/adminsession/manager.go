package adminsession

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neevdiamonds/storefront-backend/pkg/config"
)

const issuer = "neev-storefront"

// Manager issues and verifies the ephemeral admin capability token held in
// a browser cookie. There is a single shared admin role; the token carries
// no per-user identity.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager builds a Manager from the session configuration.
func NewManager(cfg config.SessionConfig) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret required")
	}
	ttl := cfg.AdminTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{secret: []byte(cfg.Secret), ttl: ttl}, nil
}

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a fresh admin session token.
func (m *Manager) Issue(now time.Time) (string, error) {
	claims := adminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing admin token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature, expiry, and role claim.
func (m *Manager) Verify(tokenString string) error {
	if tokenString == "" {
		return fmt.Errorf("empty token")
	}

	var claims adminClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	if claims.Role != "admin" {
		return fmt.Errorf("unexpected role %q", claims.Role)
	}
	return nil
}

// TTL reports how long issued tokens remain valid, for cookie expiry.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
