package infra

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresAuthURL(t *testing.T) {
	t.Setenv("AUTH_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when AUTH_URL is missing")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AUTH_URL", "https://auth.example.com/")
	t.Setenv("BACKEND_URL", "")
	t.Setenv("SUBMIT_TIMEOUT_SECONDS", "")
	t.Setenv("WORKFLOW_RESET_DELAY_MS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Fatalf("BackendURL mismatch: got %q", cfg.BackendURL)
	}
	if cfg.AuthURL != "https://auth.example.com" {
		t.Fatalf("AuthURL should drop trailing slash, got %q", cfg.AuthURL)
	}
	if cfg.SubmitTimeout != 300*time.Second {
		t.Fatalf("SubmitTimeout mismatch: got %s", cfg.SubmitTimeout)
	}
	if cfg.WorkflowResetDelay != 500*time.Millisecond {
		t.Fatalf("WorkflowResetDelay mismatch: got %s", cfg.WorkflowResetDelay)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
	if cfg.SessionFile == "" {
		t.Fatalf("SessionFile should have a default")
	}
}

func TestLoadConfigHonorsOverrides(t *testing.T) {
	t.Setenv("AUTH_URL", "https://auth.example.com")
	t.Setenv("BACKEND_URL", "https://api.example.com/")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://www.example.com ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BackendURL != "https://api.example.com" {
		t.Fatalf("BackendURL mismatch: got %q", cfg.BackendURL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("RequestTimeout mismatch: got %s", cfg.RequestTimeout)
	}
	expected := []string{"https://app.example.com", "https://www.example.com"}
	for i, origin := range expected {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
}

func TestLoadConfigRejectsRelativeBackendURL(t *testing.T) {
	t.Setenv("AUTH_URL", "https://auth.example.com")
	t.Setenv("BACKEND_URL", "localhost:8000")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for relative BACKEND_URL")
	}
}
