// Package config provides configuration management for the picks pipeline.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" validate:"required"`
	Providers ProvidersConfig `mapstructure:"providers" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// PipelineConfig represents scoring pipeline configuration
type PipelineConfig struct {
	// Curve selects the probability curve: logistic or normal.
	Curve string `mapstructure:"curve" validate:"required,curve"`
	// CalibrationWindow is the trailing window, in weeks, the calibrator
	// scans for graded history.
	CalibrationWindow int `mapstructure:"calibration_window" validate:"required,gt=0"`
}

// ProvidersConfig groups the external data provider configuration
type ProvidersConfig struct {
	Odds   OddsProviderConfig   `mapstructure:"odds" validate:"required"`
	Scores ScoresProviderConfig `mapstructure:"scores" validate:"required"`
}

// OddsProviderConfig represents the market odds API configuration
type OddsProviderConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"required,url"`
	APIKey          string  `mapstructure:"api_key"`
	SportKey        string  `mapstructure:"sport_key" validate:"required"`
	Regions         string  `mapstructure:"regions"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"gt=0"`
}

// ScoresProviderConfig represents the results API configuration
type ScoresProviderConfig struct {
	BaseURL    string `mapstructure:"base_url" validate:"required,url"`
	APIKey     string `mapstructure:"api_key"`
	Year       int    `mapstructure:"year" validate:"required,gt=0"`
	SeasonType string `mapstructure:"season_type" validate:"required"`
}

// ServerConfig represents the HTTP trigger surface configuration
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// ScheduleConfig represents cron scheduling for provider refreshes
type ScheduleConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	MarketRefreshCron string `mapstructure:"market_refresh_cron"`
	ScoreFetchCron    string `mapstructure:"score_fetch_cron"`
	// CurrentWeek is the week the scheduled jobs operate on.
	CurrentWeek int `mapstructure:"current_week" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
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
