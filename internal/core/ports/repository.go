package ports

import (
	"context"

	"github.com/srgjo27/boxoffice/internal/core/domain"
)

// EventRepository upserts events by id. LoadAll returns every stored event,
// skipping records it cannot read.
type EventRepository interface {
	Save(ctx context.Context, event *domain.Event) error
	LoadAll(ctx context.Context) ([]*domain.Event, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	LoadAll(ctx context.Context) ([]*domain.User, error)
}

type TicketRepository interface {
	Save(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, ticketID int) error
	LoadAll(ctx context.Context) ([]*domain.Ticket, error)
}

// SeatCache mirrors per-event seat availability for readers outside the
// process.
type SeatCache interface {
	SetAvailableSeats(ctx context.Context, eventID int, available int) error
}
