package adgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adstudio/internal/domain"
	"adstudio/internal/infra"
	"adstudio/internal/providers/video"
)

// Resolver turns a video ID into a playable URL. Signed URLs expire after
// about an hour, so every Resolve call fetches a new one; nothing is cached.
type Resolver struct {
	backend *video.Client
	logger  *infra.Logger
	timeout time.Duration
}

func NewResolver(backend *video.Client, opts Options) *Resolver {
	return &Resolver{backend: backend, logger: infra.OrDiscard(opts.Logger), timeout: opts.Timeout}
}

// Resolve fetches the current playback URL for videoID.
func (r *Resolver) Resolve(ctx context.Context, videoID string) (*domain.Playback, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, fmt.Errorf("resolve: %w: no video ID provided", domain.ErrInvalidInput)
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	v, err := r.backend.Video(ctx, videoID, nil)
	if err != nil {
		var apiErr *video.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("resolve %s: %w", videoID, domain.ErrNotFound)
		case errors.As(err, &apiErr):
			return nil, fmt.Errorf("resolve %s: %w", videoID, &domain.RejectedError{
				Kind:    domain.ErrResolutionFailed,
				Status:  apiErr.StatusCode,
				Message: fmt.Sprintf("failed to fetch video: %d", apiErr.StatusCode),
			})
		case errors.Is(err, video.ErrMalformedResponse):
			return nil, fmt.Errorf("resolve %s: %w", videoID, &domain.RejectedError{Kind: domain.ErrResolutionFailed, Message: "unexpected response from server"})
		default:
			return nil, fmt.Errorf("resolve %s: %w: %w", videoID, domain.ErrTransportFailure, err)
		}
	}

	url := v.Playable()
	if url == "" {
		return nil, fmt.Errorf("resolve %s: %w", videoID, &domain.RejectedError{Kind: domain.ErrResolutionFailed, Message: "video URL not available"})
	}
	r.logger.Debug().Str("video_id", videoID).Msg("playback url resolved")
	return &domain.Playback{
		VideoID: videoID,
		URL:     url,
		Title:   strings.TrimSpace(v.Title),
		Status:  domain.VideoStatus(v.Status),
	}, nil
}

// Download writes the media of a just-resolved playback to w.
func (r *Resolver) Download(ctx context.Context, pb *domain.Playback, w io.Writer) (int64, error) {
	if pb == nil || pb.URL == "" {
		return 0, fmt.Errorf("download: %w: no playback URL", domain.ErrInvalidInput)
	}
	n, err := r.backend.Download(ctx, pb.URL, w)
	if err != nil {
		var apiErr *video.APIError
		if errors.As(err, &apiErr) {
			return n, fmt.Errorf("download %s: %w", pb.VideoID, &domain.RejectedError{
				Kind:    domain.ErrResolutionFailed,
				Status:  apiErr.StatusCode,
				Message: "Failed to download video. Please try again.",
			})
		}
		return n, fmt.Errorf("download %s: %w: %w", pb.VideoID, domain.ErrTransportFailure, err)
	}
	r.logger.Info().Str("video_id", pb.VideoID).Int64("bytes", n).Msg("video downloaded")
	return n, nil
}
