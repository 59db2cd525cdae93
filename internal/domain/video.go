package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// VideoStatus is the backend-defined lifecycle state of a video. The set is
// open: anything that is not READY is treated as still processing.
type VideoStatus string

const (
	VideoStatusReady      VideoStatus = "READY"
	VideoStatusProcessing VideoStatus = "PROCESSING"
)

// Ready reports whether the video can be played.
func (s VideoStatus) Ready() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(VideoStatusReady))
}

// Label is the generic display text for the status.
func (s VideoStatus) Label() string {
	if s.Ready() {
		return "Ready"
	}
	return "Processing"
}

// VideoRecord is one entry of the user's video list. PlaybackURL is a signed
// URL with roughly an hour of validity and must not outlive the listing view.
type VideoRecord struct {
	ID          string
	Title       string
	CreatedAt   string
	Status      VideoStatus
	PlaybackURL string
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// CreatedTime parses CreatedAt. The backend emits ISO-like timestamps with or
// without a zone; ok is false when none of the known layouts match.
func (v VideoRecord) CreatedTime() (time.Time, bool) {
	raw := strings.TrimSpace(v.CreatedAt)
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreatedLabel formats the creation date as "Jan 2, 2006", falling back to
// the raw value.
func (v VideoRecord) CreatedLabel() string {
	if t, ok := v.CreatedTime(); ok {
		return t.Format("Jan 2, 2006")
	}
	return v.CreatedAt
}

// Playback is a freshly resolved, short-lived URL for one viewing.
type Playback struct {
	VideoID string
	URL     string
	Title   string
	Status  VideoStatus
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// DownloadFilename derives a local file name for the video.
func (p Playback) DownloadFilename() string {
	if title := strings.TrimSpace(p.Title); title != "" {
		return strings.ToLower(nonAlnum.ReplaceAllString(title, "-")) + ".mp4"
	}
	return fmt.Sprintf("ai-generated-ad-%s.mp4", p.VideoID)
}
