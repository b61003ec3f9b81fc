package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default returned nil")
	}
	if len(cfg.EventBus.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.EventBus.AllowedOrigins)
	}
	if cfg.EventBus.MaxMessageSize != 4096 {
		t.Errorf("expected max message size 4096, got %d", cfg.EventBus.MaxMessageSize)
	}
	if cfg.Synthesis.MaxAttempts != 15 {
		t.Errorf("expected default max attempts 15, got %d", cfg.Synthesis.MaxAttempts)
	}
	if cfg.Catalog.Dialect != "sqlite" {
		t.Errorf("expected default dialect sqlite, got %q", cfg.Catalog.Dialect)
	}
}

func TestLoadFileNotExists(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.Synthesis.MaxAttempts != 15 {
		t.Errorf("expected defaults to be used")
	}
}

func TestLoadValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "tilesynth.yaml")

	content := `
synthesis:
  max_attempts: 30
  seed: 42
event_bus:
  allowed_origins:
    - "https://example.com"
  max_message_size: 8192
catalog:
  dialect: postgres
  dsn: "postgres://localhost/tilesynth"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Synthesis.MaxAttempts != 30 {
		t.Errorf("expected max_attempts 30, got %d", cfg.Synthesis.MaxAttempts)
	}
	if cfg.Synthesis.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Synthesis.Seed)
	}
	if len(cfg.EventBus.AllowedOrigins) != 1 || cfg.EventBus.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("unexpected allowed origins: %v", cfg.EventBus.AllowedOrigins)
	}
	if cfg.Catalog.Dialect != "postgres" {
		t.Errorf("expected dialect postgres, got %q", cfg.Catalog.Dialect)
	}
}

func TestIsOriginAllowedEmptyListSameOrigin(t *testing.T) {
	cfg := EventBusConfig{AllowedOrigins: []string{}}

	if !cfg.IsOriginAllowed("", "localhost:4000") {
		t.Error("expected empty origin to be allowed (same-origin)")
	}
	if !cfg.IsOriginAllowed("http://localhost:4000", "localhost:4000") {
		t.Error("expected matching origin to be allowed (same-origin)")
	}
	if cfg.IsOriginAllowed("http://evil.com", "localhost:4000") {
		t.Error("expected different origin to be rejected (same-origin policy)")
	}
}

func TestIsOriginAllowedWildcard(t *testing.T) {
	cfg := EventBusConfig{AllowedOrigins: []string{"*"}}

	if !cfg.IsOriginAllowed("http://anything.com", "localhost:4000") {
		t.Error("expected wildcard to allow any origin")
	}
}

func TestIsOriginAllowedExactMatch(t *testing.T) {
	cfg := EventBusConfig{AllowedOrigins: []string{"https://example.com"}}

	if !cfg.IsOriginAllowed("https://example.com", "localhost:4000") {
		t.Error("expected exact match to be allowed")
	}
	if cfg.IsOriginAllowed("http://evil.com", "localhost:4000") {
		t.Error("expected non-matching origin to be rejected")
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4000", true},
		{"http://localhost:4000", "localhost:4000", true},
		{"https://localhost:4000", "localhost:4000", true},
		{"http://localhost:4000/", "localhost:4000", true},
		{"http://example.com", "localhost:4000", false},
		{"http://localhost:3000", "localhost:4000", false},
		{"ws://localhost:4000", "localhost:4000", true},
	}

	for _, tt := range tests {
		if got := isSameOrigin(tt.origin, tt.requestHost); got != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v", tt.origin, tt.requestHost, got, tt.expected)
		}
	}
}
