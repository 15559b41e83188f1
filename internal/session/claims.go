package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("malformed auth token")

// Claims are read from the backend's token without verifying its signature;
// the backend verifies every request itself. They only decide whether a
// route is worth forwarding at all.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	return claims, nil
}

// Expired reports whether the token's exp lies before now. A token without
// exp never expires here.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Time.Before(now)
}

// TTL is how long the token stays valid, or fallback when it has no exp.
func (c *Claims) TTL(now time.Time, fallback time.Duration) time.Duration {
	if c.ExpiresAt == nil {
		return fallback
	}

	return c.ExpiresAt.Time.Sub(now)
}
