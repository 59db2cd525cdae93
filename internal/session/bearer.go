package session

import (
	"context"
	"strings"

	"golang.org/x/oauth2"

	"adstudio/internal/domain"
)

// BearerProvider serves one HTTP request: the browser already holds a
// session and forwards its access token, which is verified against the
// identity provider on each query.
type BearerProvider struct {
	client *AuthClient
	token  string
}

// NewBearerProvider returns a provider for accessToken. An empty token yields
// a provider that always reports domain.ErrNotAuthenticated.
func NewBearerProvider(client *AuthClient, accessToken string) *BearerProvider {
	return &BearerProvider{client: client, token: strings.TrimSpace(accessToken)}
}

func (p *BearerProvider) CurrentUser(ctx context.Context) (*domain.User, error) {
	if p.token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return p.client.User(ctx, p.token)
}

func (p *BearerProvider) CurrentSession(ctx context.Context) (*domain.Session, error) {
	user, err := p.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		UserID: user.ID,
		Email:  user.Email,
		Token:  &oauth2.Token{AccessToken: p.token, TokenType: "Bearer"},
	}, nil
}

var _ Provider = (*BearerProvider)(nil)
