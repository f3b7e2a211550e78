// Package config loads storybrowser settings from an optional JSON file and
// STORYBROWSER_* environment variables. Command-line flags are applied on top
// by the caller.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the application configuration.
type Config struct {
	BaseURL     string   `json:"base_url" env:"STORYBROWSER_BASE_URL" env-default:"https://hacker-news.firebaseio.com/v0" env-description:"Hacker News API root"`
	Listing     string   `json:"listing" env:"STORYBROWSER_LISTING" env-default:"top" env-description:"story list: top, new, best, ask, show, job"`
	Timeout     Duration `json:"timeout" env:"STORYBROWSER_TIMEOUT" env-default:"30s" env-description:"per-request HTTP timeout"`
	Concurrency int      `json:"concurrency" env:"STORYBROWSER_CONCURRENCY" env-default:"10" env-description:"max concurrent item requests per page (0 = unlimited)"`
	MetricsAddr string   `json:"metrics_addr" env:"STORYBROWSER_METRICS_ADDR" env-description:"serve Prometheus metrics on this address"`
	LogFile     string   `json:"log_file" env:"STORYBROWSER_LOG_FILE" env-description:"JSONL event log path"`
}

// Duration is a time.Duration written as "30s" in JSON and env vars.
type Duration time.Duration

// SetValue implements cleanenv.Setter.
func (d *Duration) SetValue(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// UnmarshalJSON accepts a duration string.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	return d.SetValue(s)
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".storybrowser", "config.json")
}

// DefaultLogFile returns the per-day event log path for t.
func DefaultLogFile(t time.Time) string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".storybrowser", "logs", "events-"+t.Format("2006-01-02")+".jsonl")
}

// Load reads path (if it exists) and then the environment. Environment
// variables override file values; env-default fills whatever is still unset.
// An empty path or a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
			return validated(cfg)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return validated(cfg)
}

func validated(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	if c.Listing == "" {
		return errors.New("listing must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout.Std())
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	return nil
}

// Usage describes the environment variables, for --help output.
func Usage() string {
	help, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return help
}
