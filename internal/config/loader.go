// Package config provides configuration management for the Courtside application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("COURTSIDE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// Missing config files are tolerated; defaults plus environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix("COURTSIDE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "courtside")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Engine thresholds mirror the documented model: a 7.0 betting floor,
	// a deliberately lower 6.5 scout floor, and a quarter-Kelly stake cap.
	v.SetDefault("engine.min_confidence", 7.0)
	v.SetDefault("engine.scout_confidence", 6.5)
	v.SetDefault("engine.max_bet_amount", 10.0)
	v.SetDefault("engine.min_bet_amount", 5.0)
	v.SetDefault("engine.kelly_fraction", 0.25)
	v.SetDefault("engine.moneyline_prob_floor", 0.05)
	v.SetDefault("engine.max_alternatives", 3)
	v.SetDefault("engine.daily_bet_limit", 1)

	v.SetDefault("collectors.schedule_url", "https://site.api.espn.com/apis/site/v2/sports/basketball/nba/scoreboard")
	v.SetDefault("collectors.days_ahead", 2)
	v.SetDefault("collectors.timeout_seconds", 10)
	v.SetDefault("collectors.retry_timeout_seconds", 15)
	v.SetDefault("collectors.rate_limit", 2.0)
	v.SetDefault("collectors.cache_ttl_seconds", 300)

	v.SetDefault("schedule.scout_cron", "0 10 * * *")
	v.SetDefault("schedule.final_cron", "0 16 * * *")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("features.paper_trading_enabled", true)
}
