package video

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// VideoResponse is the body of GET /v1/videos/{id}.
type VideoResponse struct {
	ID          flexID `json:"id"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	PlaybackURL string `json:"playback_url"`
	URL         string `json:"url"`
}

// Playable returns the signed playback URL. Older backends call it "url".
func (v VideoResponse) Playable() string {
	if u := strings.TrimSpace(v.PlaybackURL); u != "" {
		return u
	}
	return strings.TrimSpace(v.URL)
}

// VideoItem is one element of the user's video list.
type VideoItem struct {
	ID          flexID `json:"id"`
	Title       string `json:"title"`
	CreatedAt   string `json:"created_at"`
	Status      string `json:"status"`
	PlaybackURL string `json:"playback_url"`
}

// IDString returns the item identifier.
func (v VideoItem) IDString() string {
	return string(v.ID)
}

// Video fetches a video with a freshly signed playback URL. The endpoint is
// public; tok may be nil.
func (c *Client) Video(ctx context.Context, id string, tok *oauth2.Token) (*VideoResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/videos/"+escape(id), nil, tok)
	if err != nil {
		return nil, err
	}
	var out VideoResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserVideos lists a user's videos, each with a playback URL, in backend order.
func (c *Client) UserVideos(ctx context.Context, userID string, tok *oauth2.Token) ([]VideoItem, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/users/"+escape(userID)+"/videos-with-urls", nil, tok)
	if err != nil {
		return nil, err
	}
	var out []VideoItem
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []VideoItem{}
	}
	return out, nil
}

// Download streams the media behind a playback URL into w. Signed URLs point
// at object storage, so no credentials are attached.
func (c *Client) Download(ctx context.Context, playbackURL string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, playbackURL, nil)
	if err != nil {
		return 0, fmt.Errorf("video: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("video: download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &APIError{StatusCode: resp.StatusCode}
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("video: read media: %w", err)
	}
	return n, nil
}
