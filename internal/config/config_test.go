package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "roster-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.True(t, cfg.Scanner.Enabled)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("RETIREMENT_SCAN_ENABLED", "false")
	t.Setenv("RETIREMENT_SCAN_INTERVAL_HOURS", "6")
	t.Setenv("DASHBOARD_CACHE_TTL_SECONDS", "120")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.False(t, cfg.Scanner.Enabled)
	assert.Equal(t, 6*time.Hour, cfg.Scanner.ScanInterval())
	assert.Equal(t, 2*time.Minute, cfg.Dashboard.CacheTTL())
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns, "malformed numbers fall back to the default")
}

func TestScanInterval_Default(t *testing.T) {
	assert.Equal(t, 24*time.Hour, ScannerConfig{}.ScanInterval())
}

func TestCacheTTL_Default(t *testing.T) {
	assert.Equal(t, time.Minute, DashboardConfig{}.CacheTTL())
}
