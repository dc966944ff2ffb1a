// Package config provides configuration management for the Handicap Lab
// application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Data       DataConfig       `mapstructure:"data" validate:"required"`
	Backtest   BacktestConfig   `mapstructure:"backtest" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	DataSource DataSourceConfig `mapstructure:"data_source"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DataConfig represents the match data store configuration
type DataConfig struct {
	Dir             string   `mapstructure:"dir" validate:"required"`
	Seasons         []string `mapstructure:"seasons"`
	CacheTTLSeconds int      `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// BacktestConfig represents strategy evaluation configuration
type BacktestConfig struct {
	StrategiesFile     string `mapstructure:"strategies_file" validate:"required"`
	MinSampleSize      int    `mapstructure:"min_sample_size" validate:"required,gt=0"`
	MissingFieldPolicy string `mapstructure:"missing_field_policy" validate:"required,oneof=default reject"`
	Workers            int    `mapstructure:"workers" validate:"gte=0"`
	OutputPath         string `mapstructure:"output_path" validate:"required"`
	CSVPath            string `mapstructure:"csv_path"`
}

// DatabaseConfig represents the optional results database. The file-based
// flow never needs it; Enabled gates every connection attempt.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// DataSourceConfig represents the remote season-file source
type DataSourceConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	MaxRetries     int     `mapstructure:"max_retries"`
	RateLimit      float64 `mapstructure:"rate_limit"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ScheduleConfig represents the cron schedule for dataset refresh
type ScheduleConfig struct {
	RefreshCron string `mapstructure:"refresh_cron"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// CacheTTL returns the season cache TTL as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Data.CacheTTLSeconds) * time.Second
}

// SourceTimeout returns the season source timeout as a duration
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
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
