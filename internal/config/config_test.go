package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CLASSROOM_API_BASE_URL", "https://classroom.example.com/api")
	t.Setenv("CLASSROOM_SESSION_FILE", "")
	t.Setenv("CLASSROOM_HTTP_TIMEOUT", "")
	t.Setenv("ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://classroom.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "development", cfg.Environment)
	assert.NotEmpty(t, cfg.SessionFile)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CLASSROOM_API_BASE_URL", "http://127.0.0.1:8080")
	t.Setenv("CLASSROOM_SESSION_FILE", "/tmp/session.json")
	t.Setenv("CLASSROOM_HTTP_TIMEOUT", "2s")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/session.json", cfg.SessionFile)
	assert.Equal(t, 2*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoadRequiresBaseURL(t *testing.T) {
	t.Setenv("CLASSROOM_API_BASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLASSROOM_API_BASE_URL")
}

func TestGetenvDurationIgnoresGarbage(t *testing.T) {
	t.Setenv("CLASSROOM_HTTP_TIMEOUT", "soon")
	assert.Equal(t, 10*time.Second, getenvDuration("CLASSROOM_HTTP_TIMEOUT", 10*time.Second))
}
