package prompt

import (
	"fmt"
	"strings"

	"adstudio/internal/domain"
)

// Segment is one 8-second narrative unit of the ad.
type Segment struct {
	Index       int
	Start       int
	End         int
	Title       string
	Description string
}

// Line renders the segment as it appears in the prompt.
func (s Segment) Line() string {
	if s.Description == "" {
		return fmt.Sprintf("Part %d (%d-%d seconds): %s", s.Index, s.Start, s.End, s.Title)
	}
	return fmt.Sprintf("Part %d (%d-%d seconds): %s - %s", s.Index, s.Start, s.End, s.Title, s.Description)
}

type beat struct {
	title       string
	description string
}

// storyboards maps a segment count to the beats of the ad, in order.
var storyboards = map[int][]beat{
	1: {
		{title: "Show the complete ad with product introduction, key message, and call to action."},
	},
	2: {
		{"Hook and product introduction", "Open with an attention-grabbing scene that introduces the product."},
		{"Main message and call to action", "Deliver the key benefit and end with a strong call to action."},
	},
	3: {
		{"Hook", "Open with a compelling visual or problem that grabs attention."},
		{"Product showcase", "Demonstrate the product and its key benefits."},
		{"Call to action", "Close with brand reinforcement and clear next steps."},
	},
}

// Segments returns the storyboard for d. Windows are contiguous 8-second
// slices starting at 0. Unsupported durations yield nil.
func Segments(d domain.Duration) []Segment {
	beats, ok := storyboards[d.Segments()]
	if !ok || !d.Valid() {
		return nil
	}
	out := make([]Segment, 0, len(beats))
	for i, b := range beats {
		out = append(out, Segment{
			Index:       i + 1,
			Start:       i * domain.SegmentSeconds,
			End:         (i + 1) * domain.SegmentSeconds,
			Title:       b.title,
			Description: b.description,
		})
	}
	return out
}

// Synthesize builds the single generation prompt sent to the backend. It is a
// pure function of its input: retried submissions describe the same job.
func Synthesize(in domain.GenerationInputs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a professional advertisement video for %s. ", strings.TrimSpace(in.ProductName))
	fmt.Fprintf(&b, "Script: %s. ", strings.TrimSpace(in.Script))
	if in.MusicVibe != domain.VibeNone {
		fmt.Fprintf(&b, "Music vibe: %s. ", in.MusicVibe)
	}
	if custom := strings.TrimSpace(in.CustomPrompt); custom != "" {
		fmt.Fprintf(&b, "Additional details: %s. ", custom)
	}

	segments := Segments(in.Duration)
	if len(segments) > 1 {
		b.WriteString("\n\nThe ad should be structured as follows:")
		for _, s := range segments {
			b.WriteString("\n" + s.Line())
		}
	} else if len(segments) == 1 {
		b.WriteString("\n\n" + segments[0].Line())
	}
	return b.String()
}
