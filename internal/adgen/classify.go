package adgen

import (
	"errors"
	"fmt"
	"net/http"

	"adstudio/internal/domain"
	"adstudio/internal/providers/video"
)

// sessionError folds any failure to obtain a session into ErrNotAuthenticated:
// without a credential the request is never sent.
func sessionError(op string, err error) error {
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrNotAuthenticated, err)
}

// backendError maps a failed authenticated backend call onto the taxonomy.
func backendError(op string, err error, fallback string) error {
	var apiErr *video.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", op, domain.ErrSessionExpired)
	case errors.As(err, &apiErr):
		msg := apiErr.Detail
		if msg == "" {
			msg = fallback
		}
		return fmt.Errorf("%s: %w", op, &domain.RejectedError{Kind: domain.ErrBackendRejected, Status: apiErr.StatusCode, Message: msg})
	case errors.Is(err, video.ErrMalformedResponse):
		return fmt.Errorf("%s: %w", op, &domain.RejectedError{Kind: domain.ErrBackendRejected, Message: "unexpected response from server"})
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransportFailure, err)
	}
}
