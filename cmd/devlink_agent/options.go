package main

import (
	"fmt"
	"os"

	"github.com/mariana/devlink-assistant/internal/config"
	"github.com/mariana/devlink-assistant/internal/llm"
)

// loadOptions merges the optional config file with environment variables and
// built-in defaults. Precedence: config file, then environment, then defaults.
func loadOptions() (*config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	// The draft debounce has no default here; cfg.DraftDebounce falls back
	// when the file never set one, and an explicit zero survives the merge.
	merged := cfg.MergeWithDefaults(config.Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisURL:              os.Getenv("REDIS_URL"),
		APIKey:                os.Getenv("GEMINI_API_KEY"),
		Model:                 llm.DefaultModel,
		Port:                  "8080",
		MaxInterviewQuestions: 5,
	})
	if verbose {
		merged.Verbose = true
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// requireAPIKey returns the Gemini key or a descriptive error.
func requireAPIKey(cfg *config.Config) (string, error) {
	if cfg.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	return cfg.APIKey, nil
}
