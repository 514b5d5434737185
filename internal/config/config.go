package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Search        SearchConfig        `yaml:"search"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
	Timezone      string              `yaml:"timezone"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port                string   `yaml:"port"`
	CORSOrigins         []string `yaml:"cors_origins"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type           string         `yaml:"type"`
	MySQL          MySQLConfig    `yaml:"mysql"`
	Postgres       PostgresConfig `yaml:"postgres"`
	SQLite         SQLiteConfig   `yaml:"sqlite"`
	ConnectRetries int            `yaml:"connect_retries"`
	LogQueries     bool           `yaml:"log_queries"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// SQLiteConfig contains the SQLite file path
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig contains token signing settings
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
	Index  string `yaml:"index"`
}

// SchedulerConfig contains the cron job settings
type SchedulerConfig struct {
	SnapshotEnabled bool   `yaml:"snapshot_enabled"`
	SnapshotDay     int    `yaml:"snapshot_day"`
	SnapshotTime    string `yaml:"snapshot_time"`
	CleanupEnabled  bool   `yaml:"cleanup_enabled"`
	CleanupTime     string `yaml:"cleanup_time"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
}

// NotificationsConfig contains notification listing and retention settings
type NotificationsConfig struct {
	ListLimit     int  `yaml:"list_limit"`
	RetentionDays int  `yaml:"retention_days"`
	MaxPurgeCount int  `yaml:"max_purge_count"`
	PurgeOnlyRead bool `yaml:"purge_only_read"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	LogRequests bool   `yaml:"log_requests"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                "8080",
			CORSOrigins:         []string{"http://localhost:3000", "http://localhost:5173"},
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
		},
		Database: DatabaseConfig{
			Type:           "sqlite",
			SQLite:         SQLiteConfig{Path: "kpi.db"},
			ConnectRetries: 5,
		},
		Auth: AuthConfig{
			TokenTTLHours: 24 * 7,
		},
		Search: SearchConfig{
			Meilisearch: MeilisearchConfig{Index: "readings"},
		},
		Scheduler: SchedulerConfig{
			SnapshotEnabled: false,
			SnapshotDay:     1,
			SnapshotTime:    "01:00",
			CleanupEnabled:  false,
			CleanupTime:     "03:30",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
			RequestsPerHour:   1800,
		},
		Notifications: NotificationsConfig{
			ListLimit:     50,
			RetentionDays: 180,
			MaxPurgeCount: 10000,
			PurgeOnlyRead: true,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			LogRequests: true,
		},
		Timezone: "UTC",
	}
}

// LoadConfig loads configuration from a YAML file and applies environment overrides
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		config.ApplyEnv()
		return config, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyEnv()
	return config, nil
}

// ApplyEnv overrides secrets and connection settings from the environment
func (c *Config) ApplyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Database.Type = getEnv("DB_TYPE", c.Database.Type)

	switch c.Database.Type {
	case "mysql":
		m := &c.Database.MySQL
		m.Host = getEnvOrConfig(m.Host, "DB_HOST", "mysql")
		m.Port = getEnvInt("DB_PORT", m.Port, 3306)
		m.User = getEnvOrConfig(m.User, "DB_USER", "kpi_user")
		m.Password = getEnv("DB_PASSWORD", m.Password)
		m.Database = getEnvOrConfig(m.Database, "DB_NAME", "kpi_db")
	case "postgres":
		p := &c.Database.Postgres
		p.Host = getEnvOrConfig(p.Host, "DB_HOST", "db")
		p.Port = getEnvInt("DB_PORT", p.Port, 5432)
		p.User = getEnvOrConfig(p.User, "DB_USER", "kpi_user")
		p.Password = getEnv("DB_PASSWORD", p.Password)
		p.Database = getEnvOrConfig(p.Database, "DB_NAME", "kpi_db")
		p.SSLMode = getEnvOrConfig(p.SSLMode, "DB_SSLMODE", "disable")
	default:
		c.Database.SQLite.Path = getEnv("SQLITE_PATH", c.Database.SQLite.Path)
	}

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Search.Meilisearch.Host = getEnv("MEILISEARCH_HOST", c.Search.Meilisearch.Host)
	c.Search.Meilisearch.APIKey = getEnv("MEILISEARCH_KEY", c.Search.Meilisearch.APIKey)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret (or JWT_SECRET) is required")
	}
	if c.Scheduler.SnapshotDay < 1 || c.Scheduler.SnapshotDay > 28 {
		return fmt.Errorf("scheduler.snapshot_day must be between 1 and 28, got %d", c.Scheduler.SnapshotDay)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// SearchEnabled reports whether a Meilisearch host is configured and switched on
func (c *Config) SearchEnabled() bool {
	return c.Search.Enabled && c.Search.Meilisearch.Host != ""
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetTokenTTL returns the token lifetime as a duration
func (c *AuthConfig) GetTokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// GetReadTimeout returns the read timeout as a duration
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}

func getEnvInt(key string, configValue, defaultValue int) int {
	if configValue > 0 {
		return configValue
	}
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}
