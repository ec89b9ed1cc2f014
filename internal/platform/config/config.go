package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name         string
	LogLevel     string
	SeedDemoData bool
}

// StorageConfig selects where records are persisted
type StorageConfig struct {
	Backend string
	DataDir string
}

type DatabaseConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	MaxRetries int
	RetryDelay time.Duration
}

// RedisConfig configures the optional seat availability mirror
type RedisConfig struct {
	Enabled bool
	Host    string
	Port    int
	DB      int
	SeatTTL time.Duration
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads an optional .env file, then lets environment variables override it.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// a missing .env is fine, environment variables may carry everything
	_ = v.ReadInConfig()

	return build(v)
}

// LoadWithPath loads configuration from a specific env file
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:         v.GetString("APP_NAME"),
			LogLevel:     v.GetString("LOG_LEVEL"),
			SeedDemoData: v.GetBool("SEED_DEMO_DATA"),
		},
		Storage: StorageConfig{
			Backend: v.GetString("STORAGE_BACKEND"),
			DataDir: v.GetString("DATA_DIR"),
		},
		Database: DatabaseConfig{
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetInt("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			DBName:     v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			MaxRetries: v.GetInt("DB_MAX_RETRIES"),
			RetryDelay: v.GetDuration("DB_RETRY_DELAY"),
		},
		Redis: RedisConfig{
			Enabled: v.GetBool("REDIS_ENABLED"),
			Host:    v.GetString("REDIS_HOST"),
			Port:    v.GetInt("REDIS_PORT"),
			DB:      v.GetInt("REDIS_DB"),
			SeatTTL: v.GetDuration("REDIS_SEAT_TTL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "boxoffice")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_DEMO_DATA", true)

	v.SetDefault("STORAGE_BACKEND", BackendFile)
	v.SetDefault("DATA_DIR", "./data")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "boxoffice")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_RETRIES", 10)
	v.SetDefault("DB_RETRY_DELAY", "2s")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_SEAT_TTL", "0s")
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file backend")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required for the postgres backend")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("DB_NAME is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}

	if c.Redis.Enabled && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		return fmt.Errorf("invalid redis port: %d", c.Redis.Port)
	}

	return nil
}
