package infra

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerProductionEmitsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production")

	logger.Debug().Msg("hidden")
	logger.Info().Str("video_id", "42").Msg("submitted")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered in production: %s", out)
	}
	if !strings.Contains(out, `"video_id":"42"`) || !strings.Contains(out, `"message":"submitted"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestOrDiscardNeverNil(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatalf("OrDiscard(nil) returned nil")
	}
	l := Discard()
	if OrDiscard(l) != l {
		t.Fatalf("OrDiscard should return the provided logger")
	}
}
