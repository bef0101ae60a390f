package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/chamadas")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.GetCORSOrigins())
	assert.False(t, cfg.GetCORSAllowAll())
	assert.Equal(t, 5*time.Second, cfg.GetMatchingTimeout())
	assert.Equal(t, 8, cfg.GetMatchingMaxParallel())
	assert.Equal(t, int32(25), cfg.GetDBMaxConns())
	assert.False(t, cfg.IsAuthEnabled())
}

func TestLoad_WildcardOriginRejectsCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/chamadas")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/chamadas")
	t.Setenv("MATCHING_MAX_PARALLEL", "many")
	t.Setenv("RATE_LIMIT_RPS", "-3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.GetMatchingMaxParallel())
	assert.Equal(t, 20.0, cfg.GetRateLimitRPS())
}
