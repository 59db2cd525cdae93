package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type playbackResponse struct {
	VideoID          string `json:"video_id"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	PlaybackURL      string `json:"playback_url"`
	DownloadFilename string `json:"download_filename"`
}

// Preview resolves a fresh playback URL for the video page.
func (a *App) Preview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "videoId")
	pb, err := a.Resolver.Resolve(r.Context(), id)
	if err != nil {
		a.fail(w, r, err, previewPath(id))
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	a.json(w, http.StatusOK, playbackResponse{
		VideoID:          pb.VideoID,
		Title:            pb.Title,
		Status:           string(pb.Status),
		PlaybackURL:      pb.URL,
		DownloadFilename: pb.DownloadFilename(),
	})
}
