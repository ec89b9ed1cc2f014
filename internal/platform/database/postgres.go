package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Config struct {
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	MaxRetries int
	RetryDelay time.Duration
}

func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// NewPostgresDB opens the database and pings it until it answers or the
// retries run out.
func NewPostgresDB(ctx context.Context, cfg Config, logger *zap.Logger) (*sql.DB, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var db *sql.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		logger.Info("Connecting to database",
			zap.Int("attempt", i),
			zap.Int("max_attempts", maxRetries),
		)

		db, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = db.PingContext(ctx)
		}

		if err == nil {
			logger.Info("Database connected")
			return db, nil
		}

		if db != nil {
			db.Close()
		}

		if i < maxRetries {
			logger.Warn("Database not ready yet", zap.Duration("retry_in", cfg.RetryDelay), zap.Error(err))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.RetryDelay):
			}
		}
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}
