package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/srgjo27/boxoffice/internal/core/domain"
)

type EventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewEventRepository(db *sql.DB, logger *zap.Logger) *EventRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRepository{db: db, logger: logger}
}

func (r *EventRepository) Save(ctx context.Context, event *domain.Event) error {
	query := `
	INSERT INTO events (id, kind, name, event_date, venue, total_seats, available_seats, base_price,
		description, category, artist, director, genre, duration_minutes, age_limit)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (id) DO UPDATE SET
		kind = EXCLUDED.kind,
		name = EXCLUDED.name,
		event_date = EXCLUDED.event_date,
		venue = EXCLUDED.venue,
		total_seats = EXCLUDED.total_seats,
		available_seats = EXCLUDED.available_seats,
		base_price = EXCLUDED.base_price,
		description = EXCLUDED.description,
		category = EXCLUDED.category,
		artist = EXCLUDED.artist,
		director = EXCLUDED.director,
		genre = EXCLUDED.genre,
		duration_minutes = EXCLUDED.duration_minutes,
		age_limit = EXCLUDED.age_limit
	`

	var artist, director, genre string
	var duration, ageLimit int

	switch v := event.Variant.(type) {
	case domain.Concert:
		artist, genre, duration = v.Artist, v.Genre, v.DurationMinutes
	case domain.TheatrePlay:
		director, genre, duration, ageLimit = v.Director, v.Genre, v.DurationMinutes, v.AgeLimit
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		string(event.Kind()),
		event.Name,
		event.Date.DateString(),
		event.Venue,
		event.TotalSeats,
		event.AvailableSeats,
		event.BasePrice,
		event.Description,
		event.Category,
		artist,
		director,
		genre,
		duration,
		ageLimit,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert event %d: %w", event.ID, err)
	}

	return nil
}

func (r *EventRepository) LoadAll(ctx context.Context) ([]*domain.Event, error) {
	query := `
	SELECT id, kind, name, event_date, venue, total_seats, available_seats, base_price,
		description, category, artist, director, genre, duration_minutes, age_limit
	FROM events
	ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var e domain.Event
		var kind, date, artist, director, genre string
		var duration, ageLimit int

		if err := rows.Scan(
			&e.ID,
			&kind,
			&e.Name,
			&date,
			&e.Venue,
			&e.TotalSeats,
			&e.AvailableSeats,
			&e.BasePrice,
			&e.Description,
			&e.Category,
			&artist,
			&director,
			&genre,
			&duration,
			&ageLimit,
		); err != nil {
			return nil, err
		}

		e.Date = domain.ParseDateTime(date)

		switch domain.EventKind(kind) {
		case domain.EventKindConcert:
			e.Variant = domain.Concert{Artist: artist, Genre: genre, DurationMinutes: duration}
		case domain.EventKindTheatrePlay:
			e.Variant = domain.TheatrePlay{Director: director, Genre: genre, DurationMinutes: duration, AgeLimit: ageLimit}
		case domain.EventKindGeneral:
		default:
			r.logger.Warn("Skipping event with unknown kind",
				zap.Int("event_id", e.ID),
				zap.String("kind", kind),
			)
			continue
		}

		events = append(events, &e)
	}

	return events, rows.Err()
}
