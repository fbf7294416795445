package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWith(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.False(t, cfg.Server.Debug)
	assert.Equal(t, time.Second, cfg.Portfolio.FetchDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Portfolio.OpDelay)
	assert.True(t, cfg.Portfolio.LoadOnStart)
	assert.Equal(t, ":memory:", cfg.Storage.DBPath)
	assert.Equal(t, 25, cfg.Storage.JournalSize)
	assert.Equal(t, 365*24*time.Hour, cfg.Storage.VisitorRetention)
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg, err := loadWith(envMap(map[string]string{
		"PORT":                        "9090",
		"GIN_MODE":                    "release",
		"PORTFOLIO_DEBUG":             "true",
		"PORTFOLIO_SEED":              "/etc/portfolio/seed.yaml",
		"PORTFOLIO_FETCH_DELAY":       "0s",
		"PORTFOLIO_OP_DELAY":          "10ms",
		"PORTFOLIO_LOAD_ON_START":     "false",
		"PORTFOLIO_DB":                "/var/lib/portfolio/portfolio.db",
		"PORTFOLIO_JOURNAL_SIZE":      "50",
		"PORTFOLIO_VISITOR_RETENTION": "720h",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "/etc/portfolio/seed.yaml", cfg.Portfolio.SeedPath)
	assert.Equal(t, time.Duration(0), cfg.Portfolio.FetchDelay)
	assert.Equal(t, 10*time.Millisecond, cfg.Portfolio.OpDelay)
	assert.False(t, cfg.Portfolio.LoadOnStart)
	assert.Equal(t, "/var/lib/portfolio/portfolio.db", cfg.Storage.DBPath)
	assert.Equal(t, 50, cfg.Storage.JournalSize)
	assert.Equal(t, 720*time.Hour, cfg.Storage.VisitorRetention)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"PORTFOLIO_FETCH_DELAY":       "soon",
		"PORTFOLIO_OP_DELAY":          "-1s",
		"PORTFOLIO_JOURNAL_SIZE":      "0",
		"PORTFOLIO_DEBUG":             "maybe",
		"PORTFOLIO_VISITOR_RETENTION": "forever",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := loadWith(envMap(map[string]string{key: value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
