package handlers

import (
	"encoding/json"
	"net/http"

	"adstudio/internal/domain/adfile"
	"adstudio/internal/prompt"
)

type segmentJSON struct {
	Index       int    `json:"index"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type promptPreviewResponse struct {
	Prompt   string        `json:"prompt"`
	Segments []segmentJSON `json:"segments"`
}

// PromptPreview shows the job description a submission would send.
func (a *App) PromptPreview(w http.ResponseWriter, r *http.Request) {
	var req adfile.Spec
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	// Images are only accepted as uploads; never read a path named by the client.
	req.Image = ""
	req.Normalize()
	in, err := req.Inputs()
	if err != nil {
		a.fail(w, r, err, "/")
		return
	}

	segs := prompt.Segments(in.Duration)
	out := promptPreviewResponse{Prompt: prompt.Synthesize(in), Segments: make([]segmentJSON, 0, len(segs))}
	for _, s := range segs {
		out.Segments = append(out.Segments, segmentJSON{Index: s.Index, Start: s.Start, End: s.End, Title: s.Title, Description: s.Description})
	}
	a.json(w, http.StatusOK, out)
}
