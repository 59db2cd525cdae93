package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"adstudio/internal/domain"
	"adstudio/internal/infra"
)

// ErrInvalidCredentials is returned when the identity provider refuses a grant.
var ErrInvalidCredentials = errors.New("session: invalid credentials")

// AuthOptions configures the identity provider client.
type AuthOptions struct {
	BaseURL        string
	AnonKey        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// AuthClient talks to a GoTrue-compatible auth API.
type AuthClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *infra.Logger
	now        func() time.Time
}

type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	RefreshToken string   `json:"refresh_token"`
	User         userJSON `json:"user"`
}

type userJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
	Message     string `json:"message"`
}

func (e authError) text() string {
	for _, s := range []string{e.Description, e.Msg, e.Message, e.Error} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// NewAuthClient constructs a client with sane defaults.
func NewAuthClient(opts AuthOptions) *AuthClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &AuthClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		anonKey:    strings.TrimSpace(opts.AnonKey),
		httpClient: httpClient,
		logger:     infra.OrDiscard(opts.Logger),
		now:        time.Now,
	}
}

// SignInWithPassword exchanges email and password for a session.
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidCredentials)
	}
	return c.grant(ctx, "password", map[string]string{"email": email, "password": password})
}

// Refresh trades a refresh token for a new session.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("%w: refresh token is empty", ErrInvalidCredentials)
	}
	return c.grant(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (c *AuthClient) grant(ctx context.Context, grantType string, body map[string]string) (*domain.Session, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("session: encode request: %w", err)
	}
	endpoint := c.baseURL + "/auth/v1/token?grant_type=" + grantType
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("session: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAPIKey(req)

	var out tokenResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, errors.New("session: token response missing access_token")
	}
	tok := &oauth2.Token{
		AccessToken:  out.AccessToken,
		TokenType:    out.TokenType,
		RefreshToken: out.RefreshToken,
	}
	switch {
	case out.ExpiresAt > 0:
		tok.Expiry = time.Unix(out.ExpiresAt, 0)
	case out.ExpiresIn > 0:
		tok.Expiry = c.now().Add(time.Duration(out.ExpiresIn) * time.Second)
	}
	c.logger.Debug().Str("grant", grantType).Str("user_id", out.User.ID).Msg("session: token issued")
	return &domain.Session{UserID: out.User.ID, Email: out.User.Email, Token: tok}, nil
}

// User returns the identity behind accessToken. A rejected token maps to
// domain.ErrNotAuthenticated.
func (c *AuthClient) User(ctx context.Context, accessToken string) (*domain.User, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, domain.ErrNotAuthenticated
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("session: build request: %w", err)
	}
	c.setAPIKey(req)
	(&oauth2.Token{AccessToken: accessToken}).SetAuthHeader(req)

	var out userJSON
	if err := c.do(req, &out); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
		}
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("session: user response missing id")
	}
	return &domain.User{ID: out.ID, Email: out.Email}, nil
}

// SignOut revokes the session at the identity provider.
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("session: build request: %w", err)
	}
	c.setAPIKey(req)
	(&oauth2.Token{AccessToken: accessToken}).SetAuthHeader(req)
	return c.do(req, nil)
}

func (c *AuthClient) setAPIKey(req *http.Request) {
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
}

func (c *AuthClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("session: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("session: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail authError
		_ = json.Unmarshal(raw, &detail)
		msg := detail.text()
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
		}
		return fmt.Errorf("session: identity provider: %s", msg)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("session: decode response: %w", err)
	}
	return nil
}
