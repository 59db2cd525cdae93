package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"adstudio/internal/domain"
	"adstudio/internal/workflow"
)

// fail renders err using the error taxonomy. returnTo is the page the user
// comes back to after signing in again.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, returnTo string) {
	msg := domain.UserMessage(err)
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		a.redirect(w, http.StatusUnauthorized, "not_authenticated", msg, workflow.LoginPath(returnTo))
	case errors.Is(err, domain.ErrSessionExpired):
		a.redirect(w, http.StatusUnauthorized, "session_expired", msg, workflow.LoginPath(returnTo))
	case errors.Is(err, domain.ErrNotFound):
		a.redirect(w, http.StatusNotFound, "not_found", msg, "/")
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "bad_request", msg)
	case errors.Is(err, domain.ErrInvalidTransition):
		a.error(w, http.StatusConflict, "invalid_transition", msg)
	case errors.Is(err, domain.ErrTransportFailure) && errors.Is(err, context.DeadlineExceeded):
		a.error(w, http.StatusGatewayTimeout, "timeout", msg)
	case errors.Is(err, domain.ErrTransportFailure):
		a.error(w, http.StatusBadGateway, "transport_failure", msg)
	case errors.Is(err, domain.ErrBackendRejected):
		a.error(w, http.StatusBadGateway, "backend_rejected", msg)
	case errors.Is(err, domain.ErrResolutionFailed):
		a.error(w, http.StatusBadGateway, "resolution_failed", msg)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unclassified error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
