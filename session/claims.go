package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	ierrors "github.com/jrsteele09/vehicles-auth-client/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the decoded payload of an access token
type Claims struct {
	Username  string      `json:"username,omitempty"`
	UserID    json.Number `json:"user_id,omitempty"`
	TokenType string      `json:"token_type,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the human readable identity: the username claim, or the subject when absent
func (c *Claims) Identity() string {
	if c.Username != "" {
		return c.Username
	}
	return c.Subject
}

// ExpiresAfter reports whether the token's expiry lies strictly after t.
// A token without an exp claim never satisfies this.
func (c *Claims) ExpiresAfter(t time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Time.After(t)
}

// DecodeClaims reads the claims of a raw JWT without verifying its signature.
// Verification is the backend's job; the client only needs identity and expiry.
func DecodeClaims(raw string) (*Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ierrors.ErrInvalidToken
	}
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ierrors.ErrInvalidToken, err)
	}
	return &claims, nil
}
