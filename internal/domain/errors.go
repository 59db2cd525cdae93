package domain

import (
	"errors"
	"net/http"
)

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrSessionExpired    = errors.New("session expired")
	ErrBackendRejected   = errors.New("backend rejected request")
	ErrTransportFailure  = errors.New("transport failure")
	ErrNotFound          = errors.New("not found")
	ErrResolutionFailed  = errors.New("resolution failed")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid workflow transition")
)

// RejectedError carries the detail the backend returned with a non-2xx response.
// It unwraps to its Kind so callers can keep matching on the sentinels above.
type RejectedError struct {
	Kind    error
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return "backend returned " + http.StatusText(e.Status)
	}
	return e.Kind.Error()
}

func (e *RejectedError) Unwrap() error {
	return e.Kind
}

// UserMessage renders err as the text shown to the person driving the workflow.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rejected *RejectedError
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return "You must be logged in to generate videos"
	case errors.Is(err, ErrSessionExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrNotFound):
		return "Video not found"
	case errors.Is(err, ErrTransportFailure):
		return "Could not reach the server. Please check your connection and try again."
	case errors.As(err, &rejected):
		return rejected.Error()
	default:
		return err.Error()
	}
}
