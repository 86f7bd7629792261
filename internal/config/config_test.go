package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"database_url": "postgres://localhost/devlink",
		"redis_url": "redis://localhost:6379",
		"port": "8080",
		"draft_debounce_seconds": 2
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/devlink", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.DraftDebounce())
}

// seconds builds the pointer form used by the debounce setting.
func seconds(n int) *int { return &n }

func TestLoadConfig_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.json")
	assert.Error(t, err)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{DraftDebounceSeconds: seconds(2), MaxInterviewQuestions: 5}},
		{name: "zero values valid", cfg: Config{}},
		{name: "zero debounce valid", cfg: Config{DraftDebounceSeconds: seconds(0)}},
		{name: "negative debounce", cfg: Config{DraftDebounceSeconds: seconds(-1)}, wantErr: true},
		{name: "negative questions", cfg: Config{MaxInterviewQuestions: -3}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: "9090"}
	defaults := Config{
		Port:                  "8080",
		Model:                 "gemini-2.5-flash",
		DraftDebounceSeconds:  seconds(2),
		MaxInterviewQuestions: 5,
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "9090", merged.Port, "explicit value wins")
	assert.Equal(t, "gemini-2.5-flash", merged.Model)
	assert.Equal(t, 2*time.Second, merged.DraftDebounce())
	assert.Equal(t, 5, merged.MaxInterviewQuestions)
}

func TestDraftDebounce_ExplicitZeroSurvivesMerge(t *testing.T) {
	cfg := Config{DraftDebounceSeconds: seconds(0)}
	merged := cfg.MergeWithDefaults(Config{DraftDebounceSeconds: seconds(2)})
	assert.Equal(t, time.Duration(0), merged.DraftDebounce())

	// Unset still falls back to the default.
	unset := Config{}
	assert.Equal(t, DefaultDraftDebounce, unset.DraftDebounce())
}

func TestNewJWTConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret", cfg.Secret)
	assert.Equal(t, DefaultTokenTTL, cfg.TokenTTL)
}

func TestNewJWTConfig_CustomTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "30m")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := NewJWTConfig()
	assert.Error(t, err)
}

func TestNewJWTConfig_InvalidTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	for _, ttl := range []string{"bogus", "10s"} {
		t.Setenv("JWT_TTL", ttl)
		_, err := NewJWTConfig()
		assert.Error(t, err, "ttl %q", ttl)
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)

	hash, err := cfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, cfg.VerifyPassword("correct horse", hash))
	assert.False(t, cfg.VerifyPassword("wrong horse", hash))
}

func TestNewPasswordConfig_InvalidCost(t *testing.T) {
	for _, cost := range []string{"nope", "99"} {
		t.Setenv("BCRYPT_COST", cost)
		_, err := NewPasswordConfig()
		assert.Error(t, err, "cost %q", cost)
	}
}
