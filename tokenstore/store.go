// Package tokenstore persists the access/refresh token pair of a client session.
//
// A Store is shared by every client that points at the same backing storage (file path,
// Redis key prefix), the way browser local storage is shared by every tab of a profile.
// Values are opaque strings: nothing here parses or validates tokens.
package tokenstore

import (
	"context"
	"errors"
)

// ErrCorrupt is returned when stored data cannot be decoded
var ErrCorrupt = errors.New("token store data corrupt")

// Tokens is the persisted token pair. Empty fields mean absent.
type Tokens struct {
	Access  string `json:"access_token,omitempty"`
	Refresh string `json:"refresh_token,omitempty"`
}

// Store holds the access and refresh token of the current session.
// Reads return "" when the value is absent. Clear is idempotent.
type Store interface {
	// SetTokens unconditionally overwrites both stored values
	SetTokens(ctx context.Context, access, refresh string) error

	// AccessToken returns the stored access token or ""
	AccessToken(ctx context.Context) (string, error)

	// RefreshToken returns the stored refresh token or ""
	RefreshToken(ctx context.Context) (string, error)

	// Clear removes both values
	Clear(ctx context.Context) error
}
