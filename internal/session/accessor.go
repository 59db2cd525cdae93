package session

import (
	"context"
	"fmt"
	"sync"

	"adstudio/internal/domain"
	"adstudio/internal/infra"
)

// Accessor is the CLI's Provider: the session lives in a FileStore, is
// initialized by SignIn, torn down by SignOut and refreshed on demand.
type Accessor struct {
	client *AuthClient
	store  *FileStore
	logger *infra.Logger

	// serializes refreshes so concurrent callers do not burn the refresh token twice
	mu sync.Mutex
}

// NewAccessor wires an auth client to a session store.
func NewAccessor(client *AuthClient, store *FileStore, logger *infra.Logger) *Accessor {
	return &Accessor{client: client, store: store, logger: infra.OrDiscard(logger)}
}

// SignIn authenticates with email and password and persists the session.
func (a *Accessor) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := a.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.store.Save(sess); err != nil {
		return nil, err
	}
	a.logger.Info().Str("user_id", sess.UserID).Msg("signed in")
	return sess, nil
}

// SignOut revokes the session remotely when possible and always clears it
// locally.
func (a *Accessor) SignOut(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	sess, err := a.store.Load()
	if err != nil {
		return err
	}
	if sess != nil && sess.AccessToken() != "" {
		if err := a.client.SignOut(ctx, sess.AccessToken()); err != nil {
			a.logger.Warn().Err(err).Msg("remote sign-out failed")
		}
	}
	return a.store.Clear()
}

// CurrentSession returns a usable session, refreshing an expired one when a
// refresh token is available.
func (a *Accessor) CurrentSession(ctx context.Context) (*domain.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sess, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if sess.Valid() {
		return sess, nil
	}
	if sess.Token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: session expired and cannot be refreshed", domain.ErrNotAuthenticated)
	}
	refreshed, err := a.client.Refresh(ctx, sess.Token.RefreshToken)
	if err != nil {
		a.logger.Warn().Err(err).Msg("session refresh failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
	}
	if refreshed.UserID == "" {
		refreshed.UserID, refreshed.Email = sess.UserID, sess.Email
	}
	if err := a.store.Save(refreshed); err != nil {
		return nil, err
	}
	a.logger.Debug().Str("user_id", refreshed.UserID).Msg("session refreshed")
	return refreshed, nil
}

// CurrentUser asks the identity provider who the current session belongs to.
func (a *Accessor) CurrentUser(ctx context.Context) (*domain.User, error) {
	sess, err := a.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	return a.client.User(ctx, sess.AccessToken())
}

var _ Provider = (*Accessor)(nil)
