package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAnalyticsConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.InDelta(t, 7, cfg.LeadTimeDays, 1e-9)
	assert.InDelta(t, 1.5, cfg.SafetyStockFactor, 1e-9)
	assert.InDelta(t, 0.10, cfg.Contamination, 1e-9)
	assert.Equal(t, int64(42), cfg.RandomSeed)
	assert.Equal(t, 30, cfg.ForecastHorizonDays)
	assert.Equal(t, 10, cfg.MinForecastRows)
}

func TestAnalyticsConfigValidation(t *testing.T) {
	t.Run("weights must sum to one", func(t *testing.T) {
		cfg := Default()
		cfg.ScoreWeights.ProfitMargin = 0.5
		assert.Error(t, cfg.Validate())
	})

	t.Run("contamination range", func(t *testing.T) {
		cfg := Default()
		cfg.Contamination = 0.6
		assert.Error(t, cfg.Validate())
	})

	t.Run("forecast vendors bounded by top vendors", func(t *testing.T) {
		cfg := Default()
		cfg.ForecastVendors = 99
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadFromYAML(t *testing.T) {
	yaml := []byte(`
app:
  name: vip-analytics-test
  env: test
  log_level: debug
mysql:
  dsn: "root:root@tcp(127.0.0.1:3306)/inventory_test"
analytics:
  lead_time_days: 14
`)
	path := filepath.Join(t.TempDir(), "analytics.yaml")
	require.NoError(t, os.WriteFile(path, yaml, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "vip-analytics-test", cfg.App.Name)
	// 文件值覆盖默认值
	assert.InDelta(t, 14, cfg.Analytics.LeadTimeDays, 1e-9)
	// 未覆盖项取默认值
	assert.InDelta(t, 1.5, cfg.Analytics.SafetyStockFactor, 1e-9)
	assert.Equal(t, 30, cfg.Analytics.ForecastHorizonDays)
}
