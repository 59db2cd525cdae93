package prompt

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"adstudio/internal/domain"
)

var partPattern = regexp.MustCompile(`Part (\d+) \((\d+)-(\d+) seconds\)`)

func baseInputs(d domain.Duration) domain.GenerationInputs {
	return domain.GenerationInputs{
		ProductName:  "Nike Air Max",
		Script:       "Show comfort",
		Duration:     d,
		ProductImage: &domain.Image{Name: "shoe.png", Data: []byte{1}},
	}
}

func TestSynthesizeSegmentsPartitionDuration(t *testing.T) {
	for _, d := range []domain.Duration{domain.Duration8, domain.Duration16, domain.Duration24} {
		got := Synthesize(baseInputs(d))
		matches := partPattern.FindAllStringSubmatch(got, -1)
		if len(matches) != int(d)/8 {
			t.Fatalf("duration %d: %d segments, want %d\n%s", d, len(matches), int(d)/8, got)
		}
		cursor := 0
		for i, m := range matches {
			idx, _ := strconv.Atoi(m[1])
			start, _ := strconv.Atoi(m[2])
			end, _ := strconv.Atoi(m[3])
			if idx != i+1 {
				t.Fatalf("duration %d: segment %d numbered %d", d, i+1, idx)
			}
			if start != cursor || end-start != 8 {
				t.Fatalf("duration %d: window %d-%d breaks contiguity at %d", d, start, end, cursor)
			}
			cursor = end
		}
		if cursor != int(d) {
			t.Fatalf("duration %d: windows end at %d", d, cursor)
		}
	}
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	in := baseInputs(domain.Duration24)
	in.MusicVibe = domain.VibeLuxury
	in.CustomPrompt = "Use slow-motion effects"
	first := Synthesize(in)
	for i := 0; i < 50; i++ {
		if got := Synthesize(in); got != first {
			t.Fatalf("call %d differs:\n%s\n---\n%s", i, got, first)
		}
	}
}

func TestSynthesizeEightSeconds(t *testing.T) {
	got := Synthesize(baseInputs(domain.Duration8))
	want := "Create a professional advertisement video for Nike Air Max. Script: Show comfort. " +
		"\n\nPart 1 (0-8 seconds): Show the complete ad with product introduction, key message, and call to action."
	if got != want {
		t.Fatalf("prompt mismatch:\n got %q\nwant %q", got, want)
	}
	if strings.Contains(got, "Part 2") {
		t.Fatalf("8-second prompt must not contain Part 2")
	}
}

func TestSynthesizeSixteenSeconds(t *testing.T) {
	got := Synthesize(baseInputs(domain.Duration16))
	checks := []string{
		"Part 1 (0-8 seconds): Hook and product introduction",
		"Part 2 (8-16 seconds): Main message and call to action",
	}
	for _, c := range checks {
		if !strings.Contains(got, c) {
			t.Fatalf("prompt missing %q:\n%s", c, got)
		}
	}
	if strings.Contains(got, "Part 3") {
		t.Fatalf("16-second prompt must not contain Part 3:\n%s", got)
	}
}

func TestSynthesizeTwentyFourSeconds(t *testing.T) {
	got := Synthesize(baseInputs(domain.Duration24))
	checks := []string{
		"The ad should be structured as follows:",
		"Part 1 (0-8 seconds): Hook - ",
		"Part 2 (8-16 seconds): Product showcase - ",
		"Part 3 (16-24 seconds): Call to action - ",
	}
	for _, c := range checks {
		if !strings.Contains(got, c) {
			t.Fatalf("prompt missing %q:\n%s", c, got)
		}
	}
}

func TestSynthesizeOptionalClauses(t *testing.T) {
	in := baseInputs(domain.Duration8)
	if got := Synthesize(in); strings.Contains(got, "Music vibe") || strings.Contains(got, "Additional details") {
		t.Fatalf("optional clauses present without input:\n%s", got)
	}
	in.MusicVibe = domain.VibeCalm
	in.CustomPrompt = "Add text overlay"
	got := Synthesize(in)
	for _, c := range []string{"Music vibe: calm. ", "Additional details: Add text overlay. "} {
		if !strings.Contains(got, c) {
			t.Fatalf("prompt missing %q:\n%s", c, got)
		}
	}
	if strings.Index(got, "Music vibe") > strings.Index(got, "Additional details") {
		t.Fatalf("music vibe clause must precede additional details")
	}
}

func TestSegmentsUnsupportedDuration(t *testing.T) {
	if got := Segments(domain.Duration(12)); got != nil {
		t.Fatalf("Segments(12) = %v, want nil", got)
	}
}
