// Package config provides configuration loading and validation for the assistant.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultDraftDebounce is the save window applied when the config file does
// not set one.
const DefaultDraftDebounce = 2 * time.Second

// Config represents the assistant configuration loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided
// via CLI flags or environment variables.
type Config struct {
	// Connections
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Redis connection URL for drafts and sessions
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	Model       string `json:"model,omitempty"`        // Gemini model name

	// Server
	Port string `json:"port,omitempty"` // HTTP listen port

	// Behavior. The debounce is a pointer so an explicit zero (save on every
	// edit, no quiet window) is distinguishable from unset.
	DraftDebounceSeconds  *int `json:"draft_debounce_seconds,omitempty"`  // Trailing-edge save window
	MaxInterviewQuestions int  `json:"max_interview_questions,omitempty"` // Questions per interview session
	UseBrowser            bool `json:"use_browser,omitempty"`             // Headless browser fallback for SPA postings
	Verbose               bool `json:"verbose,omitempty"`                 // Debug level logging
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands after merging, since some
// commands need fewer connections than others.
func (c *Config) Validate() error {
	if c.DraftDebounceSeconds != nil && *c.DraftDebounceSeconds < 0 {
		return fmt.Errorf("config error: 'draft_debounce_seconds' must be non-negative")
	}
	if c.MaxInterviewQuestions < 0 {
		return fmt.Errorf("config error: 'max_interview_questions' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Port == "" {
		result.Port = defaults.Port
	}

	// The debounce merges on nil, not zero: an explicit zero is a valid
	// immediate-save window.
	if result.DraftDebounceSeconds == nil {
		result.DraftDebounceSeconds = defaults.DraftDebounceSeconds
	}
	if result.MaxInterviewQuestions == 0 {
		result.MaxInterviewQuestions = defaults.MaxInterviewQuestions
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// DraftDebounce returns the configured save window as a duration, falling
// back to the default when the config never set one.
func (c *Config) DraftDebounce() time.Duration {
	if c.DraftDebounceSeconds == nil {
		return DefaultDraftDebounce
	}
	return time.Duration(*c.DraftDebounceSeconds) * time.Second
}
