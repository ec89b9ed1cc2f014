package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Dates are kept as text so the zero "unknown" date survives a round trip.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		event_date TEXT NOT NULL,
		venue TEXT NOT NULL,
		total_seats INTEGER NOT NULL,
		available_seats INTEGER NOT NULL,
		base_price DOUBLE PRECISION NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		artist TEXT NOT NULL DEFAULT '',
		director TEXT NOT NULL DEFAULT '',
		genre TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		age_limit INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id INTEGER PRIMARY KEY,
		event_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		booked_at TEXT NOT NULL,
		status TEXT NOT NULL
	)`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
