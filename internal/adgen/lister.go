package adgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"adstudio/internal/domain"
	"adstudio/internal/infra"
	"adstudio/internal/providers/video"
	"adstudio/internal/session"
)

// Lister fetches the signed-in user's videos for the dashboard.
type Lister struct {
	backend  *video.Client
	sessions session.Provider
	logger   *infra.Logger
	timeout  time.Duration
}

func NewLister(backend *video.Client, sessions session.Provider, opts Options) *Lister {
	return &Lister{backend: backend, sessions: sessions, logger: infra.OrDiscard(opts.Logger), timeout: opts.Timeout}
}

// List returns userID's videos in backend order. An empty userID lists the
// session owner's videos. Zero videos is an empty slice, not an error.
func (l *Lister) List(ctx context.Context, userID string) ([]domain.VideoRecord, error) {
	sess, err := l.sessions.CurrentSession(ctx)
	if err != nil {
		return nil, sessionError("list", err)
	}
	if sess.AccessToken() == "" {
		return nil, fmt.Errorf("list: %w", domain.ErrNotAuthenticated)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = sess.UserID
	}
	if userID == "" {
		user, err := l.sessions.CurrentUser(ctx)
		if err != nil {
			return nil, sessionError("list", err)
		}
		userID = user.ID
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	items, err := l.backend.UserVideos(ctx, userID, sess.Token)
	if err != nil {
		return nil, backendError("list", err, "Failed to load videos")
	}

	out := make([]domain.VideoRecord, 0, len(items))
	for _, it := range items {
		out = append(out, domain.VideoRecord{
			ID:          it.IDString(),
			Title:       it.Title,
			CreatedAt:   it.CreatedAt,
			Status:      domain.VideoStatus(it.Status),
			PlaybackURL: it.PlaybackURL,
		})
	}
	l.logger.Debug().Str("user_id", userID).Int("count", len(out)).Msg("videos listed")
	return out, nil
}
