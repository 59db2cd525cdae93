// Package session resolves the signed-in identity for the orchestrator.
//
// Callers depend on Provider and must query it right before every
// authenticated request; a session obtained earlier may have expired.
package session

import (
	"context"

	"adstudio/internal/domain"
)

// Provider exposes the identity provider's "current user" and "current
// session" queries. Both fail with domain.ErrNotAuthenticated when nobody is
// signed in.
type Provider interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
	CurrentSession(ctx context.Context) (*domain.Session, error)
}
