package session

import (
	"context"

	ierrors "github.com/jrsteele09/vehicles-auth-client/internal/errors"
	"golang.org/x/oauth2"
)

type storeTokenSource struct {
	ctx     context.Context
	session *Service
}

// TokenSource exposes the stored pair to oauth2-aware code. Expiry comes from
// the access token's exp claim. It never refreshes; that is the transport's job.
func (s *Service) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, session: s}
}

func (ts *storeTokenSource) Token() (*oauth2.Token, error) {
	_, refresh, err := ts.session.RefreshCredential(ts.ctx)
	if err != nil {
		return nil, err
	}
	access, err := ts.session.AccessToken(ts.ctx)
	if err != nil {
		return nil, ierrors.Wrapf(err, "read access token")
	}
	if access == "" {
		return nil, ierrors.ErrNotAuthenticated
	}
	claims, err := DecodeClaims(access)
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{
		AccessToken:  access,
		TokenType:    "Bearer",
		RefreshToken: refresh,
	}
	if claims.ExpiresAt != nil {
		token.Expiry = claims.ExpiresAt.Time
	}
	return token, nil
}
