package api

import (
	"context"
	"errors"
	"net/http"
)

var ErrMalformedTokenResponse = errors.New("malformed token response")

// AuthAPI is the credential side of the backend. Calls made through it must not
// pass through the authorizing transport.
type AuthAPI interface {
	ObtainToken(ctx context.Context, req LoginRequest) (*TokenPair, error)
	RefreshToken(ctx context.Context, req RefreshRequest) (*TokenPair, error)
	Register(ctx context.Context, req RegisterRequest) (*User, error)
}

var _ AuthAPI = (*AuthClient)(nil)

// AuthClient calls the token and registration endpoints.
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthClient creates an AuthClient. httpClient should use a plain transport;
// nil means http.DefaultClient.
func NewAuthClient(baseURL string, httpClient *http.Client) *AuthClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AuthClient{baseURL: baseURL, httpClient: httpClient}
}

// ObtainToken exchanges credentials for an access/refresh pair
func (a *AuthClient) ObtainToken(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	var pair TokenPair
	if err := doJSON(ctx, a.httpClient, http.MethodPost, joinURL(a.baseURL, RouteToken, nil), req, &pair); err != nil {
		return nil, err
	}
	if pair.Access == "" || pair.Refresh == nil || *pair.Refresh == "" {
		return nil, ErrMalformedTokenResponse
	}
	return &pair, nil
}

// RefreshToken exchanges a refresh token for a new access token (and possibly a rotated refresh token)
func (a *AuthClient) RefreshToken(ctx context.Context, req RefreshRequest) (*TokenPair, error) {
	var pair TokenPair
	if err := doJSON(ctx, a.httpClient, http.MethodPost, joinURL(a.baseURL, RouteTokenRefresh, nil), req, &pair); err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, ErrMalformedTokenResponse
	}
	return &pair, nil
}

// Register creates a user account. The request is validated before it is sent.
func (a *AuthClient) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var user User
	if err := doJSON(ctx, a.httpClient, http.MethodPost, joinURL(a.baseURL, RouteRegister, nil), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
