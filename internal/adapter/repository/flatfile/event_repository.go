package flatfile

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/srgjo27/boxoffice/internal/core/domain"
	"github.com/srgjo27/boxoffice/internal/platform/recordstore"
)

const (
	concertFieldCount     = 12
	theatrePlayFieldCount = 13
	indexTag              = "Event"
)

// EventRepository keeps concerts and theatre plays in their own stores and
// mirrors every event into a unified index tagged "Event". The index is
// written on every save and never read back.
type EventRepository struct {
	concerts *recordstore.Store
	plays    *recordstore.Store
	index    *recordstore.Store
	logger   *zap.Logger
}

func NewEventRepository(dir string, logger *zap.Logger) *EventRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EventRepository{
		concerts: recordstore.New(filepath.Join(dir, ConcertsFile)),
		plays:    recordstore.New(filepath.Join(dir, TheatrePlaysFile)),
		index:    recordstore.New(filepath.Join(dir, EventIndexFile), recordstore.WithKeyFields(2)),
		logger:   logger,
	}
}

func (r *EventRepository) Save(ctx context.Context, event *domain.Event) error {
	switch v := event.Variant.(type) {
	case domain.Concert:
		if err := r.concerts.Upsert(encodeConcert(event, v)...); err != nil {
			return err
		}
	case domain.TheatrePlay:
		if err := r.plays.Upsert(encodeTheatrePlay(event, v)...); err != nil {
			return err
		}
	}

	return r.index.Upsert(encodeIndexEntry(event)...)
}

// LoadAll returns concerts first, then theatre plays, each in file order.
func (r *EventRepository) LoadAll(ctx context.Context) ([]*domain.Event, error) {
	var events []*domain.Event

	err := r.concerts.Scan(func(pos int, fields []string) {
		e, err := decodeConcert(fields)
		if err != nil {
			logSkipped(r.logger, r.concerts.Path(), pos, err)
			return
		}
		events = append(events, e)
	})
	if err != nil {
		return nil, err
	}

	err = r.plays.Scan(func(pos int, fields []string) {
		e, err := decodeTheatrePlay(fields)
		if err != nil {
			logSkipped(r.logger, r.plays.Path(), pos, err)
			return
		}
		events = append(events, e)
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func encodeConcert(e *domain.Event, c domain.Concert) []string {
	return []string{
		formatInt(e.ID),
		e.Name,
		e.Date.DateString(),
		e.Venue,
		formatInt(e.TotalSeats),
		formatInt(e.AvailableSeats),
		formatPrice(e.BasePrice),
		c.Artist,
		c.Genre,
		formatInt(c.DurationMinutes),
		e.Description,
		e.Category,
	}
}

func decodeConcert(fields []string) (*domain.Event, error) {
	r := newFieldReader(fields, concertFieldCount)

	e := &domain.Event{}
	e.ID = r.integer()
	e.Name = r.text()
	e.Date = domain.ParseDateTime(r.text())
	e.Venue = r.text()
	e.TotalSeats = r.integer()
	e.AvailableSeats = r.integer()
	e.BasePrice = r.number()

	c := domain.Concert{}
	c.Artist = r.text()
	c.Genre = r.text()
	c.DurationMinutes = r.integer()

	e.Description = r.text()
	e.Category = r.text()
	e.Variant = c

	if r.err != nil {
		return nil, r.err
	}

	return e, nil
}

func encodeTheatrePlay(e *domain.Event, p domain.TheatrePlay) []string {
	return []string{
		formatInt(e.ID),
		e.Name,
		e.Date.DateString(),
		e.Venue,
		formatInt(e.TotalSeats),
		formatInt(e.AvailableSeats),
		formatPrice(e.BasePrice),
		p.Director,
		p.Genre,
		formatInt(p.DurationMinutes),
		formatInt(p.AgeLimit),
		e.Description,
		e.Category,
	}
}

func decodeTheatrePlay(fields []string) (*domain.Event, error) {
	r := newFieldReader(fields, theatrePlayFieldCount)

	e := &domain.Event{}
	e.ID = r.integer()
	e.Name = r.text()
	e.Date = domain.ParseDateTime(r.text())
	e.Venue = r.text()
	e.TotalSeats = r.integer()
	e.AvailableSeats = r.integer()
	e.BasePrice = r.number()

	p := domain.TheatrePlay{}
	p.Director = r.text()
	p.Genre = r.text()
	p.DurationMinutes = r.integer()
	p.AgeLimit = r.integer()

	e.Description = r.text()
	e.Category = r.text()
	e.Variant = p

	if r.err != nil {
		return nil, r.err
	}

	return e, nil
}

func encodeIndexEntry(e *domain.Event) []string {
	return []string{
		indexTag,
		formatInt(e.ID),
		e.Name,
		e.Date.DateString(),
		e.Venue,
		formatInt(e.TotalSeats),
		formatInt(e.AvailableSeats),
		formatPrice(e.BasePrice),
		e.Description,
		e.Category,
	}
}

func logSkipped(logger *zap.Logger, path string, pos int, err error) {
	logger.Warn("Skipping malformed record",
		zap.String("file", path),
		zap.Int("record", pos),
		zap.Error(err),
	)
}
