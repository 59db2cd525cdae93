package domain

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SegmentSeconds is the length of one generated clip.
const SegmentSeconds = 8

// Duration is the requested ad length in seconds.
type Duration int

const (
	Duration8  Duration = 8
	Duration16 Duration = 16
	Duration24 Duration = 24
)

// DefaultDuration is preselected when a new workflow starts.
const DefaultDuration = Duration8

// Valid reports whether d is one of the supported lengths.
func (d Duration) Valid() bool {
	switch d {
	case Duration8, Duration16, Duration24:
		return true
	}
	return false
}

// Segments returns how many 8-second clips make up d.
func (d Duration) Segments() int {
	return int(d) / SegmentSeconds
}

func (d Duration) String() string {
	return strconv.Itoa(int(d))
}

// ParseDuration accepts "8", "16", "24" with an optional "s" suffix.
func ParseDuration(raw string) (Duration, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(strings.ToLower(raw)), "s")
	if raw == "" {
		return DefaultDuration, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || !Duration(n).Valid() {
		return 0, fmt.Errorf("%w: duration must be 8, 16, or 24 seconds", ErrInvalidInput)
	}
	return Duration(n), nil
}

// MusicVibe is the optional mood of the soundtrack. The zero value means none.
type MusicVibe string

const (
	VibeNone      MusicVibe = ""
	VibeEnergetic MusicVibe = "energetic"
	VibeCalm      MusicVibe = "calm"
	VibeDramatic  MusicVibe = "dramatic"
	VibeModern    MusicVibe = "modern"
	VibeLuxury    MusicVibe = "luxury"
	VibeFun       MusicVibe = "fun"
)

var vibeDescriptions = map[MusicVibe]string{
	VibeEnergetic: "energetic & upbeat",
	VibeCalm:      "calm & relaxing",
	VibeDramatic:  "dramatic & cinematic",
	VibeModern:    "modern & tech",
	VibeLuxury:    "luxury & elegant",
	VibeFun:       "fun & playful",
}

// MusicVibes lists the selectable vibes in display order.
func MusicVibes() []MusicVibe {
	return []MusicVibe{VibeEnergetic, VibeCalm, VibeDramatic, VibeModern, VibeLuxury, VibeFun}
}

// ParseMusicVibe normalizes free-form input into a supported vibe.
func ParseMusicVibe(raw string) (MusicVibe, error) {
	v := MusicVibe(strings.ToLower(strings.TrimSpace(raw)))
	if v == VibeNone {
		return VibeNone, nil
	}
	if _, ok := vibeDescriptions[v]; !ok {
		return VibeNone, fmt.Errorf("%w: unsupported music vibe %q", ErrInvalidInput, raw)
	}
	return v, nil
}

// Label is the title-cased name shown in selectors, e.g. "Energetic & Upbeat".
func (v MusicVibe) Label() string {
	desc, ok := vibeDescriptions[v]
	if !ok {
		return ""
	}
	return cases.Title(language.English).String(desc)
}

// Image is an uploaded product picture.
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// GenerationInputs is everything the user enters across the workflow steps.
type GenerationInputs struct {
	ProductName  string
	Script       string
	MusicVibe    MusicVibe
	CustomPrompt string
	Duration     Duration
	ProductImage *Image
}

// NewGenerationInputs returns empty inputs with the default duration selected.
func NewGenerationInputs() GenerationInputs {
	return GenerationInputs{Duration: DefaultDuration}
}

// Ready reports whether the details step is complete: image, name and script
// must all be present.
func (in GenerationInputs) Ready() bool {
	return in.ProductImage != nil && len(in.ProductImage.Data) > 0 &&
		strings.TrimSpace(in.ProductName) != "" &&
		strings.TrimSpace(in.Script) != ""
}

// Clone returns a copy that shares no mutable state with in.
func (in GenerationInputs) Clone() GenerationInputs {
	out := in
	if in.ProductImage != nil {
		img := *in.ProductImage
		img.Data = append([]byte(nil), in.ProductImage.Data...)
		out.ProductImage = &img
	}
	return out
}

// GenerationJob is the payload of one submission. It lives for a single
// network exchange and is never stored.
type GenerationJob struct {
	Prompt   string
	Duration Duration
	Title    string
	Image    *Image
}

// JobHandle identifies the backend job created by a successful submission.
type JobHandle struct {
	VideoID  string
	VideoURL string
}
