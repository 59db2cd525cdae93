// Package workflow drives the three-step ad creation dialog: collect
// details, customize, then generate.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"adstudio/internal/domain"
	"adstudio/internal/infra"
)

const DefaultResetDelay = 500 * time.Millisecond

type Step int

const (
	Details Step = iota
	Customization
	Generating
)

func (s Step) String() string {
	switch s {
	case Details:
		return "details"
	case Customization:
		return "customization"
	case Generating:
		return "generating"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

type event int

const (
	evAdvance event = iota
	evBack
	evFailed
	evReset
)

func (e event) String() string {
	switch e {
	case evAdvance:
		return "advance"
	case evBack:
		return "back"
	case evFailed:
		return "failed"
	case evReset:
		return "reset"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// transitions is the complete table. Any pair missing here is rejected.
var transitions = map[Step]map[event]Step{
	Details:       {evAdvance: Customization, evReset: Details},
	Customization: {evAdvance: Generating, evBack: Details, evReset: Details},
	Generating:    {evFailed: Customization, evReset: Details},
}

// Submitter posts a generation job.
type Submitter interface {
	Submit(ctx context.Context, in domain.GenerationInputs) (*domain.JobHandle, error)
}

// Navigator moves the user out of the dialog.
type Navigator interface {
	ShowVideo(h domain.JobHandle)
	RequireLogin(loginPath string)
}

type Options struct {
	// ReturnPath is where the user lands again after re-authenticating.
	ReturnPath string
	ResetDelay time.Duration
	Logger     *infra.Logger
	// Schedule runs fn after d. Defaults to time.AfterFunc.
	Schedule func(d time.Duration, fn func())
}

// Machine holds one dialog's inputs and step.
type Machine struct {
	submitter Submitter
	nav       Navigator
	opts      Options
	logger    *infra.Logger

	mu     sync.Mutex
	step   Step
	inputs domain.GenerationInputs
	open   bool
	run    uint64
}

func New(submitter Submitter, nav Navigator, opts Options) *Machine {
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}
	if opts.Schedule == nil {
		opts.Schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if opts.ReturnPath == "" {
		opts.ReturnPath = "/"
	}
	return &Machine{
		submitter: submitter,
		nav:       nav,
		opts:      opts,
		logger:    infra.OrDiscard(opts.Logger),
		step:      Details,
		inputs:    domain.NewGenerationInputs(),
		open:      true,
	}
}

// LoginPath is the sign-in location that returns the user to returnPath.
func LoginPath(returnPath string) string {
	if returnPath == "" {
		returnPath = "/"
	}
	return "/login?redirect=" + url.QueryEscape(returnPath)
}

// fire applies ev. Callers hold m.mu.
func (m *Machine) fire(ev event) error {
	next, ok := transitions[m.step][ev]
	if !ok {
		return fmt.Errorf("%w: %s from %s", domain.ErrInvalidTransition, ev, m.step)
	}
	m.logger.Debug().Stringer("from", m.step).Stringer("to", next).Stringer("event", ev).Msg("workflow transition")
	m.step = next
	return nil
}

func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Inputs returns a copy of the current inputs.
func (m *Machine) Inputs() domain.GenerationInputs {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputs.Clone()
}

// Open reports whether the dialog is still showing.
func (m *Machine) Open() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// CanProceed reports whether the advance control is enabled.
func (m *Machine) CanProceed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.step {
	case Details:
		return m.inputs.Ready()
	case Customization:
		return true
	default:
		return false
	}
}

func (m *Machine) edit(fn func(in *domain.GenerationInputs)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.step == Generating {
		return fmt.Errorf("%w: inputs are locked while generating", domain.ErrInvalidTransition)
	}
	fn(&m.inputs)
	return nil
}

func (m *Machine) SetProductImage(img *domain.Image) error {
	if img != nil {
		cp := *img
		cp.Data = append([]byte(nil), img.Data...)
		img = &cp
	}
	return m.edit(func(in *domain.GenerationInputs) { in.ProductImage = img })
}

func (m *Machine) SetProductName(name string) error {
	return m.edit(func(in *domain.GenerationInputs) { in.ProductName = name })
}

func (m *Machine) SetScript(script string) error {
	return m.edit(func(in *domain.GenerationInputs) { in.Script = script })
}

func (m *Machine) SetMusicVibe(v domain.MusicVibe) error {
	if _, err := domain.ParseMusicVibe(string(v)); err != nil {
		return err
	}
	return m.edit(func(in *domain.GenerationInputs) { in.MusicVibe = v })
}

func (m *Machine) SetCustomPrompt(text string) error {
	return m.edit(func(in *domain.GenerationInputs) { in.CustomPrompt = text })
}

func (m *Machine) SetDuration(d domain.Duration) error {
	if !d.Valid() {
		return fmt.Errorf("%w: duration must be 8, 16, or 24 seconds", domain.ErrInvalidInput)
	}
	return m.edit(func(in *domain.GenerationInputs) { in.Duration = d })
}

// Back returns from Customization to Details.
func (m *Machine) Back() (Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fire(evBack); err != nil {
		return m.step, err
	}
	return m.step, nil
}

// Next advances the dialog. From Details it is a silent no-op while the
// inputs are incomplete. From Customization it submits the job and blocks
// until the backend answers or ctx ends. On failure the machine is back in
// Customization with the inputs untouched and the error is returned for
// display.
func (m *Machine) Next(ctx context.Context) (Step, error) {
	m.mu.Lock()
	if m.step == Details && !m.inputs.Ready() {
		m.mu.Unlock()
		return Details, nil
	}
	if err := m.fire(evAdvance); err != nil {
		step := m.step
		m.mu.Unlock()
		return step, err
	}
	if m.step != Generating {
		m.mu.Unlock()
		return m.step, nil
	}
	snapshot := m.inputs.Clone()
	run := m.run
	m.mu.Unlock()

	handle, err := m.submitter.Submit(ctx, snapshot)
	if err == nil && handle == nil {
		err = &domain.RejectedError{Kind: domain.ErrBackendRejected, Message: "backend response missing video id"}
	}
	if err != nil {
		m.mu.Lock()
		if ferr := m.fire(evFailed); ferr != nil {
			m.mu.Unlock()
			return Generating, errors.Join(err, ferr)
		}
		m.mu.Unlock()
		m.logger.Warn().Err(err).Msg("generation failed")
		if errors.Is(err, domain.ErrSessionExpired) {
			m.nav.RequireLogin(LoginPath(m.opts.ReturnPath))
		}
		return Customization, err
	}

	m.nav.ShowVideo(*handle)
	m.mu.Lock()
	m.open = false
	m.mu.Unlock()
	m.logger.Info().Str("video_id", handle.VideoID).Msg("generation submitted")
	m.opts.Schedule(m.opts.ResetDelay, func() { m.reset(run) })
	return Generating, nil
}

// reset clears a finished run. A reset left over from an earlier run is
// ignored.
func (m *Machine) reset(run uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.run != run || m.step != Generating {
		return
	}
	m.resetLocked()
}

func (m *Machine) resetLocked() {
	if err := m.fire(evReset); err != nil {
		m.logger.Error().Err(err).Msg("workflow reset")
		return
	}
	m.inputs = domain.NewGenerationInputs()
	m.run++
}

// Close abandons the dialog. The inputs are discarded and the next Reopen
// starts at Details. A submission in flight cannot be abandoned.
func (m *Machine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return nil
	}
	if m.step == Generating {
		return fmt.Errorf("%w: generation in progress", domain.ErrInvalidTransition)
	}
	m.resetLocked()
	m.open = false
	m.logger.Debug().Msg("workflow abandoned")
	return nil
}

// Reopen shows the dialog again. A finished run whose reset has not fired
// yet is cleared first, so the new run always starts empty at Details.
func (m *Machine) Reopen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		return
	}
	if m.step == Generating {
		m.resetLocked()
	}
	m.open = true
}
