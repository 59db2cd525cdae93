package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"adstudio/internal/domain"
	"adstudio/internal/domain/adfile"
	"adstudio/internal/middleware"
	"adstudio/internal/workflow"
)

type createAdResponse struct {
	VideoID     string `json:"video_id"`
	PreviewPath string `json:"preview_path"`
}

// recordingNavigator captures where the workflow sent the user so the
// handler can answer with it.
type recordingNavigator struct {
	handle *domain.JobHandle
	login  string
}

func (n *recordingNavigator) ShowVideo(h domain.JobHandle) { n.handle = &h }
func (n *recordingNavigator) RequireLogin(path string)     { n.login = path }

func previewPath(videoID string) string {
	return "/preview/" + url.PathEscape(videoID)
}

// CreateAd runs one pass of the creation dialog for a browser form post.
func (a *App) CreateAd(w http.ResponseWriter, r *http.Request) {
	limit := a.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	returnTo := safeReturnPath(r.FormValue("return_to"))

	img, err := readImage(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	duration, err := domain.ParseDuration(r.FormValue("duration"))
	if err != nil {
		a.fail(w, r, err, returnTo)
		return
	}
	vibe, err := domain.ParseMusicVibe(r.FormValue("music_vibe"))
	if err != nil {
		a.fail(w, r, err, returnTo)
		return
	}

	nav := &recordingNavigator{}
	m := a.workflow(middleware.BearerToken(r), returnTo, nav)
	for _, set := range []error{
		m.SetProductImage(img),
		m.SetProductName(r.FormValue("product_name")),
		m.SetScript(r.FormValue("script")),
		m.SetMusicVibe(vibe),
		m.SetCustomPrompt(r.FormValue("custom_prompt")),
		m.SetDuration(duration),
	} {
		if set != nil {
			a.fail(w, r, set, returnTo)
			return
		}
	}

	if step, _ := m.Next(r.Context()); step != workflow.Customization {
		a.error(w, http.StatusUnprocessableEntity, "incomplete", "product image, product name and script are required")
		return
	}
	if _, err := m.Next(r.Context()); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("ad generation failed")
		if nav.login != "" {
			a.redirect(w, http.StatusUnauthorized, "session_expired", domain.UserMessage(err), nav.login)
			return
		}
		a.fail(w, r, err, returnTo)
		return
	}
	if nav.handle == nil {
		a.fail(w, r, errors.New("workflow finished without a video"), returnTo)
		return
	}
	a.json(w, http.StatusCreated, createAdResponse{VideoID: nav.handle.VideoID, PreviewPath: previewPath(nav.handle.VideoID)})
}

func readImage(r *http.Request) (*domain.Image, error) {
	file, hdr, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("invalid image upload")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("invalid image upload")
	}
	if len(data) == 0 {
		return nil, nil
	}
	mime := adfile.DetectImageType(hdr.Filename, data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, errors.New("product image must be an image file")
	}
	return &domain.Image{Name: hdr.Filename, MIMEType: mime, Data: data}, nil
}

// safeReturnPath keeps login redirects on this site.
func safeReturnPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/"
	}
	return raw
}
