// Package config - jwt.go provides JWT signing configuration.
package config

import (
	"fmt"
	"os"
	"time"
)

// DefaultTokenTTL is the token lifetime when JWT_TTL is not set.
const DefaultTokenTTL = 24 * time.Hour

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET (required) and JWT_TTL, a Go duration string such as
// "12h" or "30m" (default: 24h).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	ttl := DefaultTokenTTL
	if ttlStr := os.Getenv("JWT_TTL"); ttlStr != "" {
		parsed, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL: %v", err)
		}
		ttl = parsed
	}
	if ttl < time.Minute {
		return nil, fmt.Errorf("JWT_TTL must be at least 1 minute, got: %s", ttl)
	}

	return &JWTConfig{Secret: secret, TokenTTL: ttl}, nil
}
