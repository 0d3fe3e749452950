package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 365.0, cfg.MarketData.TenorBasis)
	assert.Equal(t, 1e-16, cfg.Solver.Tolerance)
	assert.Equal(t, 1_000_000, cfg.Solver.MaxIterations)
	assert.Equal(t, 1e-8, cfg.Solver.Step)
	assert.Equal(t, 30*time.Second, cfg.Holidays.Timeout)
	assert.NoError(t, cfg.Validate())
	assert.Len(t, cfg.HolidayYears(), 56)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "dpm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
marketdata:
  root: /srv/market
holidays:
  years: 2020-2022
  timeout: 5s
solver:
  max_iterations: 500
`), 0o644))
	t.Setenv("DPM_MARKETDATA_DSN", "postgres://localhost/dpm?sslmode=disable")
	t.Setenv("DPM_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/srv/market", cfg.MarketData.Root)
	assert.Equal(t, "postgres://localhost/dpm?sslmode=disable", cfg.MarketData.DSN)
	assert.Equal(t, []int{2020, 2021, 2022}, cfg.HolidayYears())
	assert.Equal(t, 5*time.Second, cfg.Holidays.Timeout)
	assert.Equal(t, 500, cfg.Solver.MaxIterations)
	assert.Equal(t, 500, cfg.Solver.Options().MaxIterations)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DPM_HOLIDAYS_FETCH=true\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DPM_HOLIDAYS_FETCH") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Holidays.Fetch)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DPM_MARKETDATA_TENOR_BASIS", "-1")

	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
