package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]Duration{"": Duration8, "8": Duration8, "16s": Duration16, " 24 ": Duration24}
	for raw, want := range cases {
		got, err := ParseDuration(raw)
		if err != nil {
			t.Fatalf("ParseDuration(%q) error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseDuration(%q) = %d, want %d", raw, got, want)
		}
	}
	for _, raw := range []string{"0", "10", "32", "abc"} {
		if _, err := ParseDuration(raw); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("ParseDuration(%q) = %v, want ErrInvalidInput", raw, err)
		}
	}
}

func TestMusicVibeLabel(t *testing.T) {
	if got := VibeEnergetic.Label(); got != "Energetic & Upbeat" {
		t.Fatalf("Label = %q", got)
	}
	if got := VibeNone.Label(); got != "" {
		t.Fatalf("VibeNone.Label = %q, want empty", got)
	}
	if _, err := ParseMusicVibe("Luxury"); err != nil {
		t.Fatalf("ParseMusicVibe(Luxury): %v", err)
	}
}

func TestGenerationInputsReady(t *testing.T) {
	img := &Image{Name: "p.png", Data: []byte{1}}
	cases := []struct {
		name string
		in   GenerationInputs
		want bool
	}{
		{"complete", GenerationInputs{ProductName: "Nike", Script: "Run", ProductImage: img}, true},
		{"no image", GenerationInputs{ProductName: "Nike", Script: "Run"}, false},
		{"empty image", GenerationInputs{ProductName: "Nike", Script: "Run", ProductImage: &Image{}}, false},
		{"blank name", GenerationInputs{ProductName: "  ", Script: "Run", ProductImage: img}, false},
		{"no script", GenerationInputs{ProductName: "Nike", ProductImage: img}, false},
	}
	for _, tc := range cases {
		if got := tc.in.Ready(); got != tc.want {
			t.Fatalf("%s: Ready = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGenerationInputsCloneIsDeep(t *testing.T) {
	in := GenerationInputs{ProductImage: &Image{Data: []byte{1, 2}}}
	out := in.Clone()
	out.ProductImage.Data[0] = 9
	if in.ProductImage.Data[0] != 1 {
		t.Fatalf("clone shares image bytes")
	}
}

func TestVideoStatusOpenSet(t *testing.T) {
	if !VideoStatus("ready").Ready() || !VideoStatusReady.Ready() {
		t.Fatalf("ready status not recognized")
	}
	for _, s := range []VideoStatus{"PROCESSING", "draft", "FAILED", "QUEUED_FOR_UPSCALE"} {
		if s.Ready() || s.Label() != "Processing" {
			t.Fatalf("status %q should display as processing", s)
		}
	}
}

func TestVideoRecordCreatedLabel(t *testing.T) {
	v := VideoRecord{CreatedAt: "2025-03-04T10:11:12.123456"}
	if got := v.CreatedLabel(); got != "Mar 4, 2025" {
		t.Fatalf("CreatedLabel = %q", got)
	}
	v.CreatedAt = "yesterday"
	if got := v.CreatedLabel(); got != "yesterday" {
		t.Fatalf("CreatedLabel fallback = %q", got)
	}
}

func TestPlaybackDownloadFilename(t *testing.T) {
	if got := (Playback{VideoID: "7", Title: "Nike Air Max!"}).DownloadFilename(); got != "nike-air-max-.mp4" {
		t.Fatalf("filename = %q", got)
	}
	if got := (Playback{VideoID: "7"}).DownloadFilename(); got != "ai-generated-ad-7.mp4" {
		t.Fatalf("filename = %q", got)
	}
}

func TestSessionValid(t *testing.T) {
	var nilSession *Session
	if nilSession.Valid() || nilSession.AccessToken() != "" {
		t.Fatalf("nil session must be invalid")
	}
	s := &Session{Token: &oauth2.Token{AccessToken: "tok", Expiry: time.Now().Add(time.Hour)}}
	if !s.Valid() || s.AccessToken() != "tok" {
		t.Fatalf("session should be valid")
	}
	s.Token.Expiry = time.Now().Add(-time.Minute)
	if s.Valid() {
		t.Fatalf("expired session reported valid")
	}
}

func TestUserMessage(t *testing.T) {
	rejected := &RejectedError{Kind: ErrBackendRejected, Status: 400, Message: "Invalid image format"}
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("submit: %w", ErrNotAuthenticated), "You must be logged in to generate videos"},
		{fmt.Errorf("submit: %w", ErrSessionExpired), "Your session has expired. Please log in again."},
		{fmt.Errorf("submit: %w", rejected), "Invalid image format"},
		{ErrNotFound, "Video not found"},
	}
	for _, tc := range cases {
		if got := UserMessage(tc.err); got != tc.want {
			t.Fatalf("UserMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
	if !errors.Is(rejected, ErrBackendRejected) {
		t.Fatalf("RejectedError must unwrap to its kind")
	}
}
