// Package config provides configuration management for the Arcbrain agent engine.
// It supports loading configuration from environment variables, config files, and defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration sections for the agent engine.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"readTimeout"`  // in seconds
	WriteTimeout int    `mapstructure:"writeTimeout"` // in seconds
}

// DatabaseConfig holds database connection configuration.
// When Host is empty the engine falls back to the embedded SQLite store at Path.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbName"`
	SSLMode  string `mapstructure:"sslMode"`
	Path     string `mapstructure:"path"` // SQLite file path
}

// ProviderConfig holds text-generation provider configuration.
type ProviderConfig struct {
	BaseURL       string `mapstructure:"baseUrl"`
	APIKey        string `mapstructure:"apiKey"`
	DefaultModel  string `mapstructure:"defaultModel"`
	FallbackModel string `mapstructure:"fallbackModel"`
	Timeout       int    `mapstructure:"timeout"` // per-request timeout in seconds
}

// NATSConfig holds NATS messaging configuration.
// An empty URL means the in-memory event bus is used.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	ClientID      string `mapstructure:"clientId"`
	MaxReconnects int    `mapstructure:"maxReconnects"`
}

// SchedulerConfig holds the due-agent polling trigger configuration.
type SchedulerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	PollInterval int    `mapstructure:"pollInterval"` // in seconds
	CronSecret   string `mapstructure:"cronSecret"`   // bearer token for the external cron endpoint
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"outputPath"`
}

// ReadTimeoutDuration returns the read timeout as a time.Duration.
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns the write timeout as a time.Duration.
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// TimeoutDuration returns the provider request timeout as a time.Duration.
func (p *ProviderConfig) TimeoutDuration() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}

// PollIntervalDuration returns the scheduler poll interval as a time.Duration.
func (s *SchedulerConfig) PollIntervalDuration() time.Duration {
	return time.Duration(s.PollInterval) * time.Second
}

// detectDefaultLogFormat returns the appropriate log format based on environment.
// Returns "json" if running in Kubernetes or other production environments.
// Returns "text" for terminal/development use (human-readable console format).
func detectDefaultLogFormat() string {
	// Check if running in Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "json"
	}

	// Check for explicit production environment
	if env := os.Getenv("ARCBRAIN_ENV"); env == "production" || env == "prod" {
		return "json"
	}

	// Default to text format for terminal use (more readable than JSON)
	return "text"
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8084)
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)

	// Database defaults - empty host means embedded SQLite
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "arcbrain")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbName", "arcbrain")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.path", "arcbrain.db")

	// Provider defaults
	v.SetDefault("provider.baseUrl", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("provider.apiKey", "")
	v.SetDefault("provider.defaultModel", "gemini-pro")
	v.SetDefault("provider.fallbackModel", "gemini-flash")
	v.SetDefault("provider.timeout", 30)

	// NATS defaults - empty URL means use in-memory event bus
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.clientId", "arcbrain-engine")
	v.SetDefault("nats.maxReconnects", 10)

	// Scheduler defaults
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.pollInterval", 60)
	v.SetDefault("scheduler.cronSecret", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", detectDefaultLogFormat())
	v.SetDefault("logging.outputPath", "stdout")
}

// Load reads configuration from environment variables, config file, and defaults.
// Environment variables use the prefix ARCBRAIN_ with snake_case naming.
// Config file should be named config.yaml and placed in the current directory or /etc/arcbrain/.
func Load() (*Config, error) {
	return LoadWithPath("")
}

// LoadWithPath reads configuration from the specified path or default locations.
func LoadWithPath(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	// Configure environment variables
	v.SetEnvPrefix("ARCBRAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit bindings for snake_case env vars (camelCase config keys)
	// AutomaticEnv does not handle camelCase to SNAKE_CASE conversion,
	// so we explicitly bind keys where env var naming differs from config key naming.
	_ = v.BindEnv("provider.apiKey", "ARCBRAIN_PROVIDER_API_KEY", "GOOGLE_AI_API_KEY")
	_ = v.BindEnv("provider.baseUrl", "ARCBRAIN_PROVIDER_BASE_URL")
	_ = v.BindEnv("provider.defaultModel", "ARCBRAIN_PROVIDER_DEFAULT_MODEL")
	_ = v.BindEnv("provider.fallbackModel", "ARCBRAIN_PROVIDER_FALLBACK_MODEL")
	_ = v.BindEnv("scheduler.cronSecret", "ARCBRAIN_SCHEDULER_CRON_SECRET", "CRON_SECRET")
	_ = v.BindEnv("scheduler.pollInterval", "ARCBRAIN_SCHEDULER_POLL_INTERVAL")

	// Configure config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/arcbrain/")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate checks that all required configuration fields are set.
// In development mode (default), most fields are optional.
func validate(cfg *Config) error {
	var errs []string

	// Server validation - always required
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	// Database validation - only if host is set (SQLite mode otherwise)
	if cfg.Database.Host != "" {
		if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
			errs = append(errs, "database.port must be between 1 and 65535")
		}
		if cfg.Database.User == "" {
			errs = append(errs, "database.user is required when database.host is set")
		}
		if cfg.Database.DBName == "" {
			errs = append(errs, "database.dbName is required when database.host is set")
		}
	} else if cfg.Database.Path == "" {
		errs = append(errs, "database.path is required when database.host is not set")
	}

	// Provider validation - API key is optional; without one the gateway
	// serves from the local generator
	if cfg.Provider.Timeout <= 0 {
		errs = append(errs, "provider.timeout must be positive")
	}

	// Scheduler validation
	if cfg.Scheduler.PollInterval <= 0 {
		errs = append(errs, "scheduler.pollInterval must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, "logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, "logging.format must be one of: json, text")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}
