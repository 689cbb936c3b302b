// Package token issues and verifies stateless HS256 session tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/and161185/brainly/internal/errs"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

const leeway = 30 * time.Second

// Claims is the payload carried by session tokens. Subject holds the user id.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims

	// UserID is Subject parsed by Verify.
	UserID uuid.UUID `json:"-"`
}

// Manager signs tokens with a process-wide key.
type Manager struct {
	key []byte
	ttl time.Duration
}

// New constructs a Manager. ttl <= 0 issues tokens without expiry.
func New(key []byte, ttl time.Duration) *Manager {
	return &Manager{key: key, ttl: ttl}
}

// Issue creates a signed token for the user.
func (m *Manager) Issue(userID uuid.UUID, username string) (string, error) {
	if userID == uuid.Nil {
		return "", errors.New("token: empty user id")
	}
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

// Verify checks signature, algorithm and time claims and returns the decoded claims.
// Every failure wraps errs.ErrUnauthorized.
func (m *Manager) Verify(tok string) (*Claims, error) {
	if tok == "" {
		return nil, fmt.Errorf("%w: empty token", errs.ErrUnauthorized)
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.key, nil
	}, jwt.WithLeeway(leeway))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", errs.ErrUnauthorized)
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil || id == uuid.Nil {
		return nil, fmt.Errorf("%w: bad subject", errs.ErrUnauthorized)
	}
	claims.UserID = id
	return &claims, nil
}
