package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, 30*24*time.Hour, cfg.Retention)
	assert.Equal(t, time.UTC, cfg.StatsLocation)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BASE_URL", "https://sho.rt/")
	t.Setenv("CACHE_BACKEND", "LOCAL")
	t.Setenv("SHORTURL_EXPIRATION_DAYS", "0")
	t.Setenv("STATS_TIMEZONE", "Europe/Kyiv")
	t.Setenv("CACHE_TTL", "10m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://sho.rt", cfg.BaseURL)
	assert.Equal(t, CacheLocal, cfg.CacheBackend)
	assert.Equal(t, time.Duration(0), cfg.Retention)
	assert.Equal(t, "Europe/Kyiv", cfg.StatsLocation.String())
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_BadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	for key, value := range map[string]string{
		"REDIS_DB":                 "zero",
		"CACHE_TTL":                "forever",
		"SHORTURL_EXPIRATION_DAYS": "thirty",
		"STATS_TIMEZONE":           "Mars/Olympus",
		"LOG_LEVEL":                "loud",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabaseURL: "memory", CacheBackend: "memcached", Retention: -time.Hour, GeoIPPath: "geo.mmdb"}

	err := cfg.Validate()

	require.Error(t, err)
	assert.ErrorContains(t, err, "JWT_SECRET")
	assert.ErrorContains(t, err, "CACHE_BACKEND")
	assert.ErrorContains(t, err, "SHORTURL_EXPIRATION_DAYS")
	assert.ErrorContains(t, err, "GEOIP_DB")
}
