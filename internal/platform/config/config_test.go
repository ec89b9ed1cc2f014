package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithPath_Defaults(t *testing.T) {
	cfg, err := LoadWithPath(writeEnv(t, "APP_NAME=boxoffice-test\n"))
	require.NoError(t, err)

	assert.Equal(t, "boxoffice-test", cfg.App.Name)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.True(t, cfg.App.SeedDemoData)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 2*time.Second, cfg.Database.RetryDelay)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoadWithPath_Values(t *testing.T) {
	cfg, err := LoadWithPath(writeEnv(t, `STORAGE_BACKEND=postgres
DB_HOST=db.internal
DB_PORT=6543
DB_NAME=tickets
DB_RETRY_DELAY=500ms
REDIS_ENABLED=true
REDIS_PORT=6380
REDIS_SEAT_TTL=1m
SEED_DEMO_DATA=false
`))
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "tickets", cfg.Database.DBName)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.RetryDelay)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, time.Minute, cfg.Redis.SeatTTL)
	assert.False(t, cfg.App.SeedDemoData)
}

func TestLoadWithPath_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/boxoffice")

	cfg, err := LoadWithPath(writeEnv(t, "DATA_DIR=./local\n"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/boxoffice", cfg.Storage.DataDir)
}

func TestLoadWithPath_MissingFile(t *testing.T) {
	_, err := LoadWithPath(filepath.Join(t.TempDir(), "missing.env"))

	assert.Error(t, err)
}

func TestLoadWithPath_RejectsUnknownBackend(t *testing.T) {
	_, err := LoadWithPath(writeEnv(t, "STORAGE_BACKEND=sqlite\n"))

	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:      AppConfig{Name: "boxoffice"},
			Storage:  StorageConfig{Backend: BackendFile, DataDir: "./data"},
			Database: DatabaseConfig{Host: "localhost", DBName: "boxoffice"},
			Redis:    RedisConfig{Port: 6379},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid file backend", func(*Config) {}, false},
		{"missing app name", func(c *Config) { c.App.Name = "" }, true},
		{"file backend without data dir", func(c *Config) { c.Storage.DataDir = "" }, true},
		{"postgres without host", func(c *Config) {
			c.Storage.Backend = BackendPostgres
			c.Database.Host = ""
		}, true},
		{"postgres without database name", func(c *Config) {
			c.Storage.Backend = BackendPostgres
			c.Database.DBName = ""
		}, true},
		{"redis port out of range", func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.Port = 70000
		}, true},
		{"bad redis port ignored when disabled", func(c *Config) { c.Redis.Port = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
