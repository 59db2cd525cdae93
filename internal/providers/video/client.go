// Package video is the HTTP client for the generation backend's /v1 API.
// It only speaks the wire format; classifying failures is left to callers.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"adstudio/internal/infra"
)

// ErrMalformedResponse indicates a 2xx response whose body could not be used.
var ErrMalformedResponse = errors.New("video: malformed response")

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("video: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("video: status %d", e.StatusCode)
}

// Options configures the backend client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the generation backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a client with sane defaults and injected dependencies.
// RequestTimeout is a hard cap for every call; zero leaves bounding to the
// caller's context.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.RequestTimeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     infra.OrDiscard(opts.Logger),
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// flexID accepts identifiers encoded as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, tok *oauth2.Token) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("video: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if tok != nil {
		tok.SetAuthHeader(req)
	}
	return req, nil
}

// do sends req and decodes a 2xx JSON body into out.
func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("video: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("video: read response: %w", err)
	}
	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("video: backend call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// parseDetail extracts the human-readable error from a failure body. The
// backend uses {"detail": "..."} and, for validation errors, a list of
// {"msg": "..."} objects.
func parseDetail(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if m := strings.TrimSpace(it.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
