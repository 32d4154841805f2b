package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ALLOW_ORIGINS", "DB_DRIVER", "FX_BASE_URL", "FX_TIMEOUT_SECONDS", "RATE_LIMIT_RPS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "https://open.er-api.com/v6/latest", cfg.FXBaseURL)
	assert.Equal(t, 3*time.Second, cfg.FXTimeout)
	assert.Equal(t, 10*time.Minute, cfg.FXCacheTTL)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOW_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("FX_BASE_URL", "http://rates.local/v6/latest/")
	t.Setenv("FX_TIMEOUT_SECONDS", "1")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowOrigins)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "http://rates.local/v6/latest", cfg.FXBaseURL)
	assert.Equal(t, time.Second, cfg.FXTimeout)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst, "invalid values fall back to the default")
}
