package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"adstudio/internal/domain"
)

// FileStore keeps the CLI session on disk, readable only by the owner.
type FileStore struct {
	path string
}

type storedSession struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// NewFileStore returns a store persisting to path.
func NewFileStore(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("session: store path is required")
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored session, or nil when none has been saved.
func (s *FileStore) Load() (*domain.Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read store: %w", err)
	}
	var stored storedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("session: decode store: %w", err)
	}
	if stored.AccessToken == "" {
		return nil, nil
	}
	return &domain.Session{
		UserID: stored.UserID,
		Email:  stored.Email,
		Token: &oauth2.Token{
			AccessToken:  stored.AccessToken,
			TokenType:    stored.TokenType,
			RefreshToken: stored.RefreshToken,
			Expiry:       stored.Expiry,
		},
	}, nil
}

// Save replaces the stored session.
func (s *FileStore) Save(sess *domain.Session) error {
	if sess == nil || sess.Token == nil {
		return errors.New("session: nothing to save")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: ensure directory: %w", err)
	}
	raw, err := json.MarshalIndent(storedSession{
		UserID:       sess.UserID,
		Email:        sess.Email,
		AccessToken:  sess.Token.AccessToken,
		TokenType:    sess.Token.TokenType,
		RefreshToken: sess.Token.RefreshToken,
		Expiry:       sess.Token.Expiry,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode store: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("session: write store: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: clear store: %w", err)
	}
	return nil
}
