package domain

type EventKind string

const (
	EventKindGeneral     EventKind = "Event"
	EventKindConcert     EventKind = "Concert"
	EventKindTheatrePlay EventKind = "TheatrePlay"
)

const (
	DefaultConcertDuration     = 120
	DefaultConcertCategory     = "Concert"
	DefaultTheatrePlayDuration = 180
	DefaultTheatrePlayCategory = "Theatre"
)

// Variant carries the fields specific to one kind of event. It is sealed to
// the types in this package.
type Variant interface {
	Kind() EventKind
	isVariant()
}

type Concert struct {
	Artist          string
	Genre           string
	DurationMinutes int
}

func (Concert) Kind() EventKind { return EventKindConcert }
func (Concert) isVariant()      {}

type TheatrePlay struct {
	Director        string
	Genre           string
	DurationMinutes int
	AgeLimit        int
}

func (TheatrePlay) Kind() EventKind { return EventKindTheatrePlay }
func (TheatrePlay) isVariant()      {}

// Event is a bookable occasion. A nil Variant is a plain event priced at its
// base price.
type Event struct {
	ID             int
	Name           string
	Date           DateTime
	Venue          string
	TotalSeats     int
	AvailableSeats int
	BasePrice      float64
	Description    string
	Category       string
	Variant        Variant
}

func (e *Event) Kind() EventKind {
	if e.Variant == nil {
		return EventKindGeneral
	}
	return e.Variant.Kind()
}

// IsExpired reports whether the event date lies before now. An event with an
// unknown (zero) date is never expired.
func (e *Event) IsExpired(now DateTime) bool {
	return !e.Date.IsZero() && e.Date.Before(now)
}

func (e *Event) HasAvailableSeats() bool {
	return e.AvailableSeats > 0
}

// DecreaseAvailableSeats never takes the count below zero.
func (e *Event) DecreaseAvailableSeats() {
	if e.AvailableSeats > 0 {
		e.AvailableSeats--
	}
}

// IncreaseAvailableSeats never takes the count above TotalSeats.
func (e *Event) IncreaseAvailableSeats() {
	if e.AvailableSeats < e.TotalSeats {
		e.AvailableSeats++
	}
}
