// Package jwttest mints access tokens shaped like the backend's for tests.
package jwttest

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// HMACSigner signs HS256 tokens with a shared secret
type HMACSigner struct {
	secret []byte
}

func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

func (h *HMACSigner) Sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with HMAC: %w", err)
	}
	return signed, nil
}

// MustSign signs claims or fails the test
func (h *HMACSigner) MustSign(tb testing.TB, claims jwt.MapClaims) string {
	tb.Helper()
	signed, err := h.Sign(claims)
	if err != nil {
		tb.Fatalf("sign token: %v", err)
	}
	return signed
}

// AccessToken returns an access token for username that expires at exp.
// Claims mirror a SimpleJWT access token with a username claim added.
func (h *HMACSigner) AccessToken(tb testing.TB, username string, exp time.Time) string {
	tb.Helper()
	return h.MustSign(tb, jwt.MapClaims{
		"token_type": "access",
		"exp":        exp.Unix(),
		"iat":        time.Now().Unix(),
		"jti":        uuid.New().String(),
		"user_id":    1,
		"sub":        username,
		"username":   username,
	})
}
