package flatfile

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/srgjo27/boxoffice/internal/core/domain"
	"github.com/srgjo27/boxoffice/internal/platform/recordstore"
)

const ticketFieldCount = 6

type TicketRepository struct {
	store  *recordstore.Store
	logger *zap.Logger
}

func NewTicketRepository(dir string, logger *zap.Logger) *TicketRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TicketRepository{
		store:  recordstore.New(filepath.Join(dir, TicketsFile)),
		logger: logger,
	}
}

func (r *TicketRepository) Save(ctx context.Context, ticket *domain.Ticket) error {
	return r.store.Upsert(
		formatInt(ticket.ID),
		formatInt(ticket.EventID),
		formatInt(ticket.UserID),
		formatPrice(ticket.Price),
		ticket.BookedAt.String(),
		string(ticket.Status()),
	)
}

func (r *TicketRepository) Delete(ctx context.Context, ticketID int) error {
	return r.store.Delete(formatInt(ticketID))
}

func (r *TicketRepository) LoadAll(ctx context.Context) ([]*domain.Ticket, error) {
	var tickets []*domain.Ticket

	err := r.store.Scan(func(pos int, fields []string) {
		t, err := decodeTicket(fields)
		if err != nil {
			logSkipped(r.logger, r.store.Path(), pos, err)
			return
		}
		tickets = append(tickets, t)
	})
	if err != nil {
		return nil, err
	}

	return tickets, nil
}

func decodeTicket(fields []string) (*domain.Ticket, error) {
	r := newFieldReader(fields, ticketFieldCount)

	t := &domain.Ticket{}
	t.ID = r.integer()
	t.EventID = r.integer()
	t.UserID = r.integer()
	t.Price = r.number()
	t.BookedAt = domain.ParseDateTime(r.text())
	rawStatus := r.text()

	if r.err != nil {
		return nil, r.err
	}

	status, ok := domain.ParseTicketStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("%w: unknown ticket status %q", errMalformedRecord, rawStatus)
	}
	t.IsActive = status == domain.TicketActive

	return t, nil
}
