package handlers

import (
	"net/http"
)

type healthBody struct {
	Status        string `json:"status"`
	Backend       bool   `json:"backend"`
	Auth          bool   `json:"auth"`
	SubmitTimeout string `json:"submit_timeout"`
}

// Health reports liveness. The status is "degraded" when the generation
// backend or the identity provider is not configured, since no ad can be
// submitted then; the response code stays 200.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	body := healthBody{
		Status:        "ok",
		Backend:       a.Backend != nil && a.Backend.BaseURL() != "",
		Auth:          a.Auth != nil,
		SubmitTimeout: a.SubmitTimeout.String(),
	}
	if !body.Backend || !body.Auth {
		body.Status = "degraded"
	}
	a.json(w, http.StatusOK, body)
}
