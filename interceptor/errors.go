package interceptor

import (
	"errors"

	ierrors "github.com/jrsteele09/vehicles-auth-client/internal/errors"
)

var (
	// ErrNoRefreshToken is returned for a 401 when there is no refresh token to exchange
	ErrNoRefreshToken = ierrors.ErrNoRefreshToken
	// ErrRefreshFailed wraps the error of a failed refresh exchange
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrSessionCleared is returned when the session ended while a refresh was in flight
	ErrSessionCleared = ierrors.ErrSessionCleared
)
