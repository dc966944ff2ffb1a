package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
app:
  name: handicap-lab
  environment: development
  log_level: debug

data:
  dir: testdata/seasons
  seasons:
    - "2020-21"
    - "2021-22"
  cache_ttl_seconds: 600

backtest:
  strategies_file: testdata/strategies.json
  min_sample_size: 30
  missing_field_policy: default
  workers: 4
  output_path: out/report.json
  csv_path: out/bets.csv

database:
  enabled: false

metrics:
  enabled: true
  port: 9090
  path: /metrics
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "handicap-lab", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, []string{"2020-21", "2021-22"}, cfg.Data.Seasons)
	assert.Equal(t, 600, cfg.Data.CacheTTLSeconds)
	assert.Equal(t, 30, cfg.Backtest.MinSampleSize)
	assert.Equal(t, 4, cfg.Backtest.Workers)
	assert.False(t, cfg.Database.Enabled)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("HL_TEST_DATA_DIR", "/var/lib/handicap-lab")

	yaml := `
app:
  name: handicap-lab
  environment: development
  log_level: info
data:
  dir: ${HL_TEST_DATA_DIR}
backtest:
  strategies_file: s.json
  min_sample_size: 30
  missing_field_policy: default
  output_path: out/report.json
metrics:
  port: 9090
  path: /metrics
`
	cfg, err := Load(writeTempConfig(t, yaml))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/handicap-lab", cfg.Data.Dir)
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 30, cfg.Backtest.MinSampleSize)
	assert.Equal(t, "default", cfg.Backtest.MissingFieldPolicy)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(writeTempConfig(t, testConfigYAML))
		require.NoError(t, err)
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, Validate(base()))
	})

	t.Run("rejects unknown environment", func(t *testing.T) {
		cfg := base()
		cfg.App.Environment = "qa"
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Environment")
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		cfg := base()
		cfg.App.LogLevel = "verbose"
		assert.Error(t, Validate(cfg))
	})

	t.Run("rejects malformed season name", func(t *testing.T) {
		cfg := base()
		cfg.Data.Seasons = []string{"2021/22"}
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "season")
	})

	t.Run("rejects bad missing field policy", func(t *testing.T) {
		cfg := base()
		cfg.Backtest.MissingFieldPolicy = "ignore"
		assert.Error(t, Validate(cfg))
	})

	t.Run("requires database details when enabled", func(t *testing.T) {
		cfg := base()
		cfg.Database.Enabled = true
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database")
	})

	t.Run("rejects invalid refresh cron", func(t *testing.T) {
		cfg := base()
		cfg.DataSource.BaseURL = "https://example.com/seasons"
		cfg.DataSource.RateLimit = 1
		cfg.Schedule.RefreshCron = "not a cron"
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refresh_cron")
	})

	t.Run("requires base url with schedule", func(t *testing.T) {
		cfg := base()
		cfg.Schedule.RefreshCron = "0 6 * * *"
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base_url")
	})
}

func TestOverlaySecretsOnConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Password = "from-file"

	overlaySecretsOnConfig(cfg, &SecretsOverlay{DatabasePassword: "from-aws"})
	assert.Equal(t, "from-aws", cfg.Database.Password)

	overlaySecretsOnConfig(cfg, &SecretsOverlay{})
	assert.Equal(t, "from-aws", cfg.Database.Password)
}

func TestLoadStrategies(t *testing.T) {
	doc := `{
  "strategies": [
    {
      "name": "home-streak-edge",
      "enabled": true,
      "factors": [{"name": "streak", "kind": "streak_diff"}],
      "combinations": [{
        "name": "streak-home",
        "factors": ["streak"],
        "type": "continuous",
        "betSide": "median_split",
        "staking": {"type": "fixed", "stake": 100}
      }]
    },
    {
      "name": "disabled-one",
      "enabled": false,
      "factors": [{"name": "q", "kind": "quarter_line"}],
      "combinations": [{
        "name": "q-home",
        "factors": ["q"],
        "type": "boolean",
        "betSide": "home",
        "staking": {"type": "fixed", "stake": 100}
      }]
    }
  ]
}`
	path := filepath.Join(t.TempDir(), "strategies.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	defs, err := LoadStrategies(path)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "home-streak-edge", defs[0].Name)
	assert.True(t, defs[0].Enabled)
	assert.False(t, defs[1].Enabled)

	_, err = LoadStrategies(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"strategies": []}`), 0o644))
	_, err = LoadStrategies(empty)
	assert.Error(t, err)
}
