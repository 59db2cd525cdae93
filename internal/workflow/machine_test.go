package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"adstudio/internal/domain"
)

type fakeSubmitter struct {
	calls  int
	got    domain.GenerationInputs
	handle *domain.JobHandle
	err    error
}

func (f *fakeSubmitter) Submit(_ context.Context, in domain.GenerationInputs) (*domain.JobHandle, error) {
	f.calls++
	f.got = in
	return f.handle, f.err
}

type fakeNav struct {
	shown  []domain.JobHandle
	logins []string
	// openAtShow records whether the dialog was still open when navigation fired.
	machine    *Machine
	openAtShow bool
}

func (n *fakeNav) ShowVideo(h domain.JobHandle) {
	n.shown = append(n.shown, h)
	if n.machine != nil {
		n.openAtShow = n.machine.Open()
	}
}

func (n *fakeNav) RequireLogin(path string) { n.logins = append(n.logins, path) }

type manualClock struct {
	delays []time.Duration
	fns    []func()
}

func (c *manualClock) schedule(d time.Duration, fn func()) {
	c.delays = append(c.delays, d)
	c.fns = append(c.fns, fn)
}

func (c *manualClock) fire() {
	for _, fn := range c.fns {
		fn()
	}
	c.fns = nil
}

func newMachine(sub *fakeSubmitter) (*Machine, *fakeNav, *manualClock) {
	nav := &fakeNav{}
	clock := &manualClock{}
	m := New(sub, nav, Options{ReturnPath: "/create?tab=ads", Schedule: clock.schedule})
	nav.machine = m
	return m, nav, clock
}

func fill(t *testing.T, m *Machine) {
	t.Helper()
	if err := m.SetProductImage(&domain.Image{Name: "p.png", MIMEType: "image/png", Data: []byte("img")}); err != nil {
		t.Fatalf("set image: %v", err)
	}
	if err := m.SetProductName("Nike Air Max"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if err := m.SetScript("Show comfort"); err != nil {
		t.Fatalf("set script: %v", err)
	}
}

func TestDetailsGuardIsSilentNoOp(t *testing.T) {
	cases := []struct {
		name  string
		image *domain.Image
		pname string
		body  string
	}{
		{"no image", nil, "Nike", "Run"},
		{"empty image", &domain.Image{Name: "x.png"}, "Nike", "Run"},
		{"blank name", &domain.Image{Data: []byte("x")}, "  ", "Run"},
		{"blank script", &domain.Image{Data: []byte("x")}, "Nike", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _, _ := newMachine(&fakeSubmitter{})
			_ = m.SetProductImage(tc.image)
			_ = m.SetProductName(tc.pname)
			_ = m.SetScript(tc.body)
			if m.CanProceed() {
				t.Fatalf("expected advance to be disabled")
			}
			step, err := m.Next(context.Background())
			if err != nil {
				t.Fatalf("guard must not surface an error, got %v", err)
			}
			if step != Details || m.Step() != Details {
				t.Fatalf("expected to stay on details, got %s", m.Step())
			}
		})
	}
}

func TestBackAlwaysAllowedFromCustomization(t *testing.T) {
	m, _, _ := newMachine(&fakeSubmitter{})
	fill(t, m)
	if step, err := m.Next(context.Background()); err != nil || step != Customization {
		t.Fatalf("advance: %s %v", step, err)
	}
	if step, err := m.Back(); err != nil || step != Details {
		t.Fatalf("back: %s %v", step, err)
	}
	if _, err := m.Back(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("back from details should be rejected, got %v", err)
	}
	if m.Inputs().ProductName != "Nike Air Max" {
		t.Fatalf("inputs lost on back navigation")
	}
}

func TestFailureReturnsToCustomizationWithInputs(t *testing.T) {
	sub := &fakeSubmitter{err: &domain.RejectedError{Kind: domain.ErrBackendRejected, Status: 500, Message: "quota exceeded"}}
	m, nav, clock := newMachine(sub)
	fill(t, m)
	_ = m.SetMusicVibe(domain.VibeCalm)
	_ = m.SetDuration(domain.Duration24)
	before := m.Inputs()

	m.Next(context.Background())
	step, err := m.Next(context.Background())
	if !errors.Is(err, domain.ErrBackendRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if domain.UserMessage(err) != "quota exceeded" {
		t.Fatalf("unexpected message %q", domain.UserMessage(err))
	}
	if step != Customization || m.Step() != Customization {
		t.Fatalf("expected customization, got %s", m.Step())
	}
	after := m.Inputs()
	if after.ProductName != before.ProductName || after.Script != before.Script ||
		after.MusicVibe != before.MusicVibe || after.Duration != before.Duration ||
		string(after.ProductImage.Data) != string(before.ProductImage.Data) {
		t.Fatalf("inputs changed: before %+v after %+v", before, after)
	}
	if !m.Open() || len(nav.shown) != 0 || len(clock.fns) != 0 {
		t.Fatalf("failed run must not navigate or schedule a reset")
	}
}

func TestSessionExpiredRedirectsToLogin(t *testing.T) {
	sub := &fakeSubmitter{err: domain.ErrSessionExpired}
	m, nav, _ := newMachine(sub)
	fill(t, m)
	m.Next(context.Background())
	if _, err := m.Next(context.Background()); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if len(nav.logins) != 1 || nav.logins[0] != "/login?redirect=%2Fcreate%3Ftab%3Dads" {
		t.Fatalf("unexpected login redirect: %v", nav.logins)
	}
	if m.Step() != Customization {
		t.Fatalf("expected customization, got %s", m.Step())
	}
}

func TestSuccessNavigatesThenResets(t *testing.T) {
	sub := &fakeSubmitter{handle: &domain.JobHandle{VideoID: "v1"}}
	m, nav, clock := newMachine(sub)
	fill(t, m)
	m.Next(context.Background())
	step, err := m.Next(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if step != Generating {
		t.Fatalf("expected generating, got %s", step)
	}
	if len(nav.shown) != 1 || nav.shown[0].VideoID != "v1" {
		t.Fatalf("expected navigation to v1, got %v", nav.shown)
	}
	if !nav.openAtShow {
		t.Fatalf("dialog closed before navigation was issued")
	}
	if m.Open() {
		t.Fatalf("dialog should be closed after success")
	}
	if m.Inputs().ProductName == "" {
		t.Fatalf("inputs cleared before the scheduled reset")
	}
	if len(clock.delays) != 1 || clock.delays[0] != DefaultResetDelay {
		t.Fatalf("expected one reset after %s, got %v", DefaultResetDelay, clock.delays)
	}
	if _, err := m.Next(context.Background()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected generating to reject advance, got %v", err)
	}
	if err := m.SetScript("x"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected inputs to be locked, got %v", err)
	}

	clock.fire()
	if m.Step() != Details || m.Inputs().ProductName != "" || m.Inputs().ProductImage != nil {
		t.Fatalf("expected a cleared run, got %s %+v", m.Step(), m.Inputs())
	}
	if m.Inputs().Duration != domain.DefaultDuration {
		t.Fatalf("expected default duration after reset")
	}
	if sub.calls != 1 {
		t.Fatalf("expected one submission, got %d", sub.calls)
	}
}

func TestReopenBeforeResetStartsFresh(t *testing.T) {
	sub := &fakeSubmitter{handle: &domain.JobHandle{VideoID: "v1"}}
	m, _, clock := newMachine(sub)
	fill(t, m)
	m.Next(context.Background())
	m.Next(context.Background())

	m.Reopen()
	if !m.Open() || m.Step() != Details || m.Inputs().ProductName != "" {
		t.Fatalf("reopen should start a fresh run")
	}
	fill(t, m)
	clock.fire()
	if m.Inputs().ProductName != "Nike Air Max" {
		t.Fatalf("stale reset cleared the new run")
	}
}

func TestCloseAbandonsPartialRun(t *testing.T) {
	sub := &fakeSubmitter{handle: &domain.JobHandle{VideoID: "v1"}}
	m, _, _ := newMachine(sub)
	fill(t, m)
	if step, _ := m.Next(context.Background()); step != Customization {
		t.Fatalf("expected customization, got %s", step)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if m.Open() {
		t.Fatalf("dialog should be closed")
	}

	m.Reopen()
	if !m.Open() || m.Step() != Details {
		t.Fatalf("expected an open dialog at details, got open=%v %s", m.Open(), m.Step())
	}
	in := m.Inputs()
	if in.ProductName != "" || in.ProductImage != nil || in.Script != "" || in.Duration != domain.DefaultDuration {
		t.Fatalf("abandoned inputs survived: %+v", in)
	}
	if sub.calls != 0 {
		t.Fatalf("close must not submit, got %d calls", sub.calls)
	}
}

func TestCloseFromDetails(t *testing.T) {
	m, _, _ := newMachine(&fakeSubmitter{})
	if err := m.SetProductName("Nike Air Max"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	m.Reopen()
	if m.Inputs().ProductName != "" {
		t.Fatalf("inputs kept after close")
	}
}

func TestCloseAfterSuccessKeepsScheduledReset(t *testing.T) {
	sub := &fakeSubmitter{handle: &domain.JobHandle{VideoID: "v1"}}
	m, _, clock := newMachine(sub)
	fill(t, m)
	m.Next(context.Background())
	m.Next(context.Background())
	if err := m.Close(); err != nil {
		t.Fatalf("close after success: %v", err)
	}
	clock.fire()
	if m.Step() != Details || m.Inputs().ProductName != "" {
		t.Fatalf("expected the scheduled reset to clear the run")
	}
}

func TestSubmitterReceivesSnapshot(t *testing.T) {
	sub := &fakeSubmitter{handle: &domain.JobHandle{VideoID: "v1"}}
	m, _, _ := newMachine(sub)
	fill(t, m)
	_ = m.SetCustomPrompt("night scene")
	m.Next(context.Background())
	m.Next(context.Background())
	if sub.got.CustomPrompt != "night scene" || sub.got.ProductImage == nil {
		t.Fatalf("unexpected submitted inputs: %+v", sub.got)
	}
}

func TestSetDurationRejectsUnsupported(t *testing.T) {
	m, _, _ := newMachine(&fakeSubmitter{})
	if err := m.SetDuration(10); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestLoginPathEscapesReturn(t *testing.T) {
	if got := LoginPath(""); got != "/login?redirect=%2F" {
		t.Fatalf("got %q", got)
	}
}
