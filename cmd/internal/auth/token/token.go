// Package token issues and verifies the signed bearer credentials that
// authorize protected requests.
//
// Tokens are symmetric-key signed (HMAC-SHA256) and time-bounded. The
// server holds only the signing secret; tokens themselves are never
// persisted and expiry is the only invalidation mechanism.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the validity window applied when config does not override it.
const DefaultTTL = 24 * time.Hour

// MinSecretBytes is the minimum accepted signing secret length.
// The secret is measured in bytes (not runes) because it is used as raw
// HMAC key material.
const MinSecretBytes = 32

// Claims carries the minimal identity envelope: subject, issued-at,
// expires-at. No other claims are embedded.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256-signed bearer tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager builds a Manager from a signing secret and validity window.
// The secret must come from runtime configuration; it is never a
// compile-time constant.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if len(secret) < MinSecretBytes {
		return nil, ErrConfig
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured validity window.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue mints a signed token bound to subjectID, valid from now for the
// configured window. Altering any encoded claim invalidates the signature.
func (m *Manager) Issue(subjectID string, now time.Time) (string, time.Time, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return "", time.Time{}, ErrInvalid
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	exp := now.Add(m.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature and expiry and returns the subject identifier.
// Expired tokens return ErrExpired; every other failure returns ErrInvalid.
func (m *Manager) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	if !tok.Valid {
		return "", ErrInvalid
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", ErrInvalid
	}
	return sub, nil
}
