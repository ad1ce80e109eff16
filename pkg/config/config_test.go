package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("AURA_BASE_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, time.Second, cfg.Poll.Interval)
	assert.Equal(t, 60, cfg.Poll.MaxAttempts)
	assert.Equal(t, "localhost:8080", cfg.Dev.Listen)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura.yaml")
	content := `
backend:
  base_url: https://api.aura.example
  timeout: 10s
poll:
  interval: 250ms
  max_attempts: 12
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://api.aura.example", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Poll.Interval)
	assert.Equal(t, 12, cfg.Poll.MaxAttempts)
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("TEST_AURA_URL", "https://staging.aura.example")

	path := filepath.Join(t.TempDir(), "aura.yaml")
	content := "backend:\n  base_url: ${TEST_AURA_URL}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://staging.aura.example", cfg.Backend.BaseURL)
}

func TestLoadFailsOnMissingEnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura.yaml")
	content := "backend:\n  base_url: ${TEST_AURA_DEFINITELY_UNSET}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_AURA_DEFINITELY_UNSET")
}

func TestLoadSkipsCommentedEnvVars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura.yaml")
	content := "# base_url: ${TEST_AURA_COMMENTED_OUT}\nbackend:\n  timeout: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
}

func TestValidateRejectsBadScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura.yaml")
	content := "backend:\n  base_url: ftp://aura.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be http or https")
}
