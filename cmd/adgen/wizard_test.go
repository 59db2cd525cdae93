package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"adstudio/internal/domain"
	"adstudio/internal/workflow"
)

type recordingSubmitter struct {
	calls int
	got   domain.GenerationInputs
	err   error
}

func (s *recordingSubmitter) Submit(_ context.Context, in domain.GenerationInputs) (*domain.JobHandle, error) {
	s.calls++
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.JobHandle{VideoID: "v1"}, nil
}

func runScripted(t *testing.T, sub *recordingSubmitter, lines ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	nav := &terminalNavigator{out: &out}
	m := workflow.New(sub, nav, workflow.Options{ReturnPath: returnPath, Schedule: func(_ time.Duration, _ func()) {}})
	w := newWizard(m, nav, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	err := w.run(context.Background())
	return out.String(), err
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coffee.png")
	if err := os.WriteFile(path, append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...), 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestWizardGuardsBackAndSubmits(t *testing.T) {
	img := writeImage(t)
	sub := &recordingSubmitter{}
	out, err := runScripted(t, sub,
		"", "", "", // incomplete details
		img, "Coffee", "Wake up",
		"1", "", "16s", "b", // customize then go back
		"", "", "", // keep details
		"", "", "", "y",
	)
	if err != nil {
		t.Fatalf("wizard: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Add a product image, a product name and a script to continue.") {
		t.Fatalf("guard message missing:\n%s", out)
	}
	if sub.calls != 1 {
		t.Fatalf("expected one submission, got %d", sub.calls)
	}
	if sub.got.ProductName != "Coffee" || sub.got.MusicVibe != domain.VibeEnergetic || sub.got.Duration != domain.Duration16 {
		t.Fatalf("unexpected inputs: %+v", sub.got)
	}
	if !strings.Contains(out, "adgen preview v1") {
		t.Fatalf("expected navigation hint:\n%s", out)
	}
	if !strings.Contains(out, "Part 2 (8-16 seconds)") {
		t.Fatalf("expected prompt preview:\n%s", out)
	}
}

func TestWizardRetriesAfterRejection(t *testing.T) {
	img := writeImage(t)
	sub := &recordingSubmitter{err: &domain.RejectedError{Kind: domain.ErrBackendRejected, Message: "Service busy"}}
	out, err := runScripted(t, sub,
		img, "Coffee", "Wake up",
		"", "", "", "y",
		"", "", "", "q",
	)
	if err != nil {
		t.Fatalf("wizard: %v", err)
	}
	if !strings.Contains(out, "Error: Service busy") || !strings.Contains(out, "Cancelled.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if sub.calls != 1 {
		t.Fatalf("expected one submission, got %d", sub.calls)
	}
}

func TestWizardQuitAbandonsDialog(t *testing.T) {
	img := writeImage(t)
	var out bytes.Buffer
	nav := &terminalNavigator{out: &out}
	m := workflow.New(&recordingSubmitter{}, nav, workflow.Options{ReturnPath: returnPath})
	script := strings.Join([]string{img, "Coffee", "Wake up", "", "", "", "q"}, "\n") + "\n"
	if err := newWizard(m, nav, strings.NewReader(script), &out).run(context.Background()); err != nil {
		t.Fatalf("wizard: %v", err)
	}
	if m.Open() {
		t.Fatalf("quitting should close the dialog")
	}
	m.Reopen()
	if m.Step() != workflow.Details || m.Inputs().ProductName != "" {
		t.Fatalf("reopened dialog kept the abandoned run: %s %+v", m.Step(), m.Inputs())
	}
}

func TestWizardStopsOnExpiredSession(t *testing.T) {
	img := writeImage(t)
	sub := &recordingSubmitter{err: domain.ErrSessionExpired}
	_, err := runScripted(t, sub,
		img, "Coffee", "Wake up",
		"", "", "", "y",
	)
	if err == nil || !strings.Contains(err.Error(), "adgen login") {
		t.Fatalf("expected login instruction, got %v", err)
	}
}

func TestWizardEndOfInput(t *testing.T) {
	_, err := runScripted(t, &recordingSubmitter{}, "")
	if err == nil {
		t.Fatalf("expected an error when input ends")
	}
}

func TestPickVibe(t *testing.T) {
	vibes := domain.MusicVibes()
	cases := map[string]domain.MusicVibe{
		"0":      domain.VibeNone,
		"none":   domain.VibeNone,
		"2":      domain.VibeCalm,
		"Luxury": domain.VibeLuxury,
	}
	for raw, want := range cases {
		got, ok := pickVibe(raw, vibes)
		if !ok || got != want {
			t.Fatalf("pickVibe(%q) = %q, %v", raw, got, ok)
		}
	}
	if _, ok := pickVibe("99", vibes); ok {
		t.Fatalf("expected out-of-range index to be rejected")
	}
}
