// Package adgen orchestrates ad generation against the backend: submitting
// jobs, resolving playback URLs and listing the user's videos.
package adgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"adstudio/internal/domain"
	"adstudio/internal/infra"
	"adstudio/internal/prompt"
	"adstudio/internal/providers/video"
	"adstudio/internal/session"
)

const submitFailedMessage = "Failed to generate video"

// Options tunes the orchestration services.
type Options struct {
	Logger *infra.Logger
	// Timeout bounds each backend call on top of the caller's context. Zero
	// leaves the caller's deadline as the only bound.
	Timeout time.Duration
}

// Submitter sends one generation job per call. It never retries: every
// retry is an explicit user action and may create another backend job.
type Submitter struct {
	backend  *video.Client
	sessions session.Provider
	logger   *infra.Logger
	timeout  time.Duration
	newID    func() string
}

func NewSubmitter(backend *video.Client, sessions session.Provider, opts Options) *Submitter {
	return &Submitter{
		backend:  backend,
		sessions: sessions,
		logger:   infra.OrDiscard(opts.Logger),
		timeout:  opts.Timeout,
		newID:    uuid.NewString,
	}
}

// Submit synthesizes the prompt, fetches the current session and posts the
// job. Failures are classified as domain.ErrNotAuthenticated,
// domain.ErrSessionExpired, *domain.RejectedError (ErrBackendRejected) or
// domain.ErrTransportFailure.
func (s *Submitter) Submit(ctx context.Context, in domain.GenerationInputs) (*domain.JobHandle, error) {
	if !in.Duration.Valid() {
		return nil, fmt.Errorf("submit: %w: duration must be 8, 16, or 24 seconds", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.ProductName) == "" || strings.TrimSpace(in.Script) == "" {
		return nil, fmt.Errorf("submit: %w: product name and script are required", domain.ErrInvalidInput)
	}
	job := domain.GenerationJob{
		Prompt:   prompt.Synthesize(in),
		Duration: in.Duration,
		Title:    strings.TrimSpace(in.ProductName),
		Image:    in.ProductImage,
	}

	sess, err := s.sessions.CurrentSession(ctx)
	if err != nil {
		return nil, sessionError("submit", err)
	}
	if sess.AccessToken() == "" {
		return nil, fmt.Errorf("submit: %w", domain.ErrNotAuthenticated)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	requestID := s.newID()
	log := s.logger.With().Str("request_id", requestID).Str("user_id", sess.UserID).Logger()
	log.Info().Int("duration", int(job.Duration)).Bool("image", job.Image != nil).Msg("submitting generation job")

	resp, err := s.backend.Generate(ctx, job, sess.Token, requestID)
	if err != nil {
		classified := backendError("submit", err, submitFailedMessage)
		log.Warn().Err(err).Msg("generation job failed")
		return nil, classified
	}
	id := resp.ID()
	if id == "" {
		return nil, fmt.Errorf("submit: %w", &domain.RejectedError{Kind: domain.ErrBackendRejected, Message: "backend response missing video id"})
	}
	log.Info().Str("video_id", id).Msg("generation job accepted")
	return &domain.JobHandle{VideoID: id, VideoURL: strings.TrimSpace(resp.VideoURL)}, nil
}
