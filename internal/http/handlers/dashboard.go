package handlers

import (
	"net/http"

	"adstudio/internal/middleware"
)

type videoItemJSON struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	CreatedAt    string `json:"created_at"`
	CreatedLabel string `json:"created_label"`
	Status       string `json:"status"`
	StatusLabel  string `json:"status_label"`
	Ready        bool   `json:"ready"`
	PlaybackURL  string `json:"playback_url,omitempty"`
}

// Dashboard lists the caller's videos in backend order.
func (a *App) Dashboard(w http.ResponseWriter, r *http.Request) {
	records, err := a.lister(middleware.BearerFromContext(r.Context())).List(r.Context(), "")
	if err != nil {
		a.fail(w, r, err, "/dashboard")
		return
	}
	items := make([]videoItemJSON, 0, len(records))
	for _, v := range records {
		item := videoItemJSON{
			ID:           v.ID,
			Title:        v.Title,
			CreatedAt:    v.CreatedAt,
			CreatedLabel: v.CreatedLabel(),
			Status:       string(v.Status),
			StatusLabel:  v.Status.Label(),
			Ready:        v.Status.Ready(),
		}
		if item.Ready {
			item.PlaybackURL = v.PlaybackURL
		}
		items = append(items, item)
	}
	w.Header().Set("Cache-Control", "no-store")
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
