package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 8, cfg.SchoolList.Concurrency)
	assert.Equal(t, 24*time.Hour, cfg.Cache.LocationTTL)
	assert.False(t, cfg.Gazetteer.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "https://api.example.org/v2/")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("ATTENDANCE_CACHE_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ENABLE_CACHE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.org/v2", cfg.Upstream.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Cache.AttendanceTTL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}
