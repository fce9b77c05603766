package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "courtside",
			Environment: "development",
			LogLevel:    "info",
		},
		Database: DatabaseConfig{
			Host:               "localhost",
			Port:               5432,
			Name:               "courtside",
			User:               "courtside",
			Password:           "secret",
			SSLMode:            "disable",
			MaxConnections:     10,
			MaxIdleConnections: 2,
		},
		Engine: EngineConfig{
			MinConfidence:      7.0,
			ScoutConfidence:    6.5,
			MaxBetAmount:       10.0,
			MinBetAmount:       5.0,
			KellyFraction:      0.25,
			MoneylineProbFloor: 0.05,
			MaxAlternatives:    3,
			DailyBetLimit:      1,
		},
		Collectors: CollectorsConfig{
			ScheduleURL:         "https://www.espn.com/nba/scoreboard",
			DaysAhead:           2,
			TimeoutSeconds:      10,
			RetryTimeoutSeconds: 15,
			RateLimit:           2.0,
			CacheTTLSeconds:     300,
		},
		Schedule: ScheduleConfig{
			ScoutCron: "0 10 * * *",
			FinalCron: "0 16 * * *",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

func TestValidateValidConfig(t *testing.T) {
	cfg := validTestConfig()
	assert.NoError(t, Validate(cfg))
}

func TestValidateScoutFloorAboveFinalFloor(t *testing.T) {
	cfg := validTestConfig()
	cfg.Engine.ScoutConfidence = 8.0
	cfg.Engine.MinConfidence = 7.0

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scout_confidence")
}

func TestValidateMinBetAboveMaxBet(t *testing.T) {
	cfg := validTestConfig()
	cfg.Engine.MinBetAmount = 20.0

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_bet_amount")
}

func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg := validTestConfig()
	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"

	err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateNotifyRequiresWebhook(t *testing.T) {
	cfg := validTestConfig()
	cfg.Notify.Enabled = true
	cfg.Notify.WebhookURL = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook_url")
}

func TestValidateInvalidEnvironment(t *testing.T) {
	cfg := validTestConfig()
	cfg.App.Environment = "qa"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Environment")
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	os.Setenv("COURTSIDE_TEST_DB_PASSWORD", "supersecret")
	defer os.Unsetenv("COURTSIDE_TEST_DB_PASSWORD")

	yaml := `
app:
  name: courtside
  environment: development
  log_level: debug
database:
  host: localhost
  port: 5432
  name: courtside
  user: courtside
  password: ${COURTSIDE_TEST_DB_PASSWORD}
  ssl_mode: disable
  max_connections: 10
  max_idle_connections: 2
engine:
  min_confidence: 7.0
  scout_confidence: 6.5
  max_bet_amount: 10.0
  min_bet_amount: 5.0
  kelly_fraction: 0.25
  moneyline_prob_floor: 0.05
  max_alternatives: 3
  daily_bet_limit: 1
collectors:
  schedule_url: https://www.espn.com/nba/scoreboard
  days_ahead: 2
  timeout_seconds: 10
  retry_timeout_seconds: 15
  rate_limit: 2.0
  cache_ttl_seconds: 300
schedule:
  scout_cron: "0 10 * * *"
  final_cron: "0 16 * * *"
metrics:
  enabled: true
  port: 9090
  path: /metrics
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "supersecret", cfg.Database.Password)
	assert.Equal(t, 6.5, cfg.Engine.ScoutConfidence)
	require.NoError(t, Validate(cfg))
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7.0, cfg.Engine.MinConfidence)
	assert.Equal(t, 6.5, cfg.Engine.ScoutConfidence)
	assert.Equal(t, 0.25, cfg.Engine.KellyFraction)
	assert.True(t, cfg.Features.PaperTradingEnabled)
}
