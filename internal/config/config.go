// Package config provides configuration management for the Courtside application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Engine     EngineConfig     `mapstructure:"engine" validate:"required"`
	Collectors CollectorsConfig `mapstructure:"collectors" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" validate:"required"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Features   FeaturesConfig   `mapstructure:"features"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// EngineConfig represents scoring and recommendation thresholds. It is passed
// explicitly into the analyzer and orchestrator at construction time so tests
// can vary it per run without cross-test interference.
type EngineConfig struct {
	MinConfidence      float64 `mapstructure:"min_confidence" validate:"required,gte=0,lte=10"`
	ScoutConfidence    float64 `mapstructure:"scout_confidence" validate:"required,gte=0,lte=10"`
	MaxBetAmount       float64 `mapstructure:"max_bet_amount" validate:"required,gt=0"`
	MinBetAmount       float64 `mapstructure:"min_bet_amount" validate:"required,gt=0"`
	KellyFraction      float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	MoneylineProbFloor float64 `mapstructure:"moneyline_prob_floor" validate:"required,gt=0,lt=1"`
	MaxAlternatives    int     `mapstructure:"max_alternatives" validate:"required,gt=0"`
	DailyBetLimit      int     `mapstructure:"daily_bet_limit" validate:"required,gt=0"`
}

// CollectorsConfig represents signal collector configuration
type CollectorsConfig struct {
	ScheduleURL         string  `mapstructure:"schedule_url" validate:"required,url"`
	DaysAhead           int     `mapstructure:"days_ahead" validate:"required,gt=0"`
	TimeoutSeconds      int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryTimeoutSeconds int     `mapstructure:"retry_timeout_seconds" validate:"required,gt=0"`
	RateLimit           float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CacheTTLSeconds     int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	OddsAPIKey          string  `mapstructure:"odds_api_key"`
}

// ScheduleConfig represents cron expressions for the serve mode
type ScheduleConfig struct {
	ScoutCron string `mapstructure:"scout_cron" validate:"required"`
	FinalCron string `mapstructure:"final_cron" validate:"required"`
}

// NotifyConfig represents Slack notification configuration
type NotifyConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	PaperTradingEnabled bool `mapstructure:"paper_trading_enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
