package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BaseURL != "https://hacker-news.firebaseio.com/v0" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Listing != "top" {
		t.Errorf("Listing = %q, want top", cfg.Listing)
	}
	if cfg.Timeout.Std() != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout.Std())
	}
	if cfg.Concurrency != 10 {
		t.Errorf("Concurrency = %d, want 10", cfg.Concurrency)
	}
	if cfg.MetricsAddr != "" || cfg.LogFile != "" {
		t.Error("optional settings should default to empty")
	}
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("STORYBROWSER_LISTING", "ask")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Listing != "ask" {
		t.Errorf("Listing = %q, want ask", cfg.Listing)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORYBROWSER_BASE_URL", "http://localhost:1234/v0")
	t.Setenv("STORYBROWSER_TIMEOUT", "5s")
	t.Setenv("STORYBROWSER_CONCURRENCY", "3")
	t.Setenv("STORYBROWSER_METRICS_ADDR", ":9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "http://localhost:1234/v0" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout.Std() != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout.Std())
	}
	if cfg.Concurrency != 3 {
		t.Errorf("Concurrency = %d, want 3", cfg.Concurrency)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q", cfg.MetricsAddr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"listing": "best", "timeout": "12s", "log_file": "/tmp/events.jsonl"}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listing != "best" {
		t.Errorf("Listing = %q, want best", cfg.Listing)
	}
	if cfg.Timeout.Std() != 12*time.Second {
		t.Errorf("Timeout = %v, want 12s", cfg.Timeout.Std())
	}
	if cfg.LogFile != "/tmp/events.jsonl" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
	// Unset fields still get defaults.
	if cfg.Concurrency != 10 {
		t.Errorf("Concurrency = %d, want default 10", cfg.Concurrency)
	}
}

func TestLoadFileEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"listing": "best"}`), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STORYBROWSER_LISTING", "show")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listing != "show" {
		t.Errorf("env should override file, got %q", cfg.Listing)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{"bad json", `{"listing": `, nil},
		{"numeric timeout", `{"timeout": 30}`, nil},
		{"bad env duration", "", map[string]string{"STORYBROWSER_TIMEOUT": "soon"}},
		{"negative concurrency", "", map[string]string{"STORYBROWSER_CONCURRENCY": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "config.json")
				if err := os.WriteFile(path, []byte(tt.file), 0600); err != nil {
					t.Fatal(err)
				}
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDefaultLogFile(t *testing.T) {
	day := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)
	got := DefaultLogFile(day)
	if !strings.HasSuffix(got, filepath.Join(".storybrowser", "logs", "events-2026-03-07.jsonl")) {
		t.Errorf("DefaultLogFile = %q", got)
	}
}

func TestUsageListsVariables(t *testing.T) {
	help := Usage()
	for _, name := range []string{"STORYBROWSER_BASE_URL", "STORYBROWSER_LISTING", "STORYBROWSER_TIMEOUT"} {
		if !strings.Contains(help, name) {
			t.Errorf("usage should mention %s", name)
		}
	}
}
