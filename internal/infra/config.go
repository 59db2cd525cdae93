package infra

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	BackendURL         string
	AuthURL            string
	AuthAnonKey        string
	SessionFile        string
	DownloadDir        string
	SubmitTimeout      time.Duration
	RequestTimeout     time.Duration
	WorkflowResetDelay time.Duration
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		BackendURL:         strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000"), "/"),
		AuthURL:            strings.TrimRight(os.Getenv("AUTH_URL"), "/"),
		AuthAnonKey:        os.Getenv("AUTH_ANON_KEY"),
		SessionFile:        getEnv("SESSION_FILE", defaultSessionFile()),
		DownloadDir:        getEnv("DOWNLOAD_DIR", "."),
		SubmitTimeout:      time.Second * time.Duration(getEnvInt("SUBMIT_TIMEOUT_SECONDS", 300)),
		RequestTimeout:     time.Second * time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)),
		WorkflowResetDelay: time.Millisecond * time.Duration(getEnvInt("WORKFLOW_RESET_DELAY_MS", 500)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 330)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if cfg.AuthURL == "" {
		return nil, fmt.Errorf("AUTH_URL is required")
	}
	for name, raw := range map[string]string{"BACKEND_URL": cfg.BackendURL, "AUTH_URL": cfg.AuthURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	return cfg, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".adstudio", "session.json")
	}
	return filepath.Join(home, ".adstudio", "session.json")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
