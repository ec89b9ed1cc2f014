package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/srgjo27/boxoffice/internal/core/domain"
)

type TicketRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewTicketRepository(db *sql.DB, logger *zap.Logger) *TicketRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketRepository{db: db, logger: logger}
}

func (r *TicketRepository) Save(ctx context.Context, ticket *domain.Ticket) error {
	query := `
	INSERT INTO tickets (id, event_id, user_id, price, booked_at, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		event_id = EXCLUDED.event_id,
		user_id = EXCLUDED.user_id,
		price = EXCLUDED.price,
		booked_at = EXCLUDED.booked_at,
		status = EXCLUDED.status
	`

	_, err := r.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.EventID,
		ticket.UserID,
		ticket.Price,
		ticket.BookedAt.String(),
		string(ticket.Status()),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ticket %d: %w", ticket.ID, err)
	}

	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, ticketID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1`, ticketID)
	return err
}

func (r *TicketRepository) LoadAll(ctx context.Context) ([]*domain.Ticket, error) {
	query := `
	SELECT id, event_id, user_id, price, booked_at, status
	FROM tickets
	ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		var bookedAt, rawStatus string

		if err := rows.Scan(&t.ID, &t.EventID, &t.UserID, &t.Price, &bookedAt, &rawStatus); err != nil {
			return nil, err
		}

		status, ok := domain.ParseTicketStatus(rawStatus)
		if !ok {
			r.logger.Warn("Skipping ticket with unknown status",
				zap.Int("ticket_id", t.ID),
				zap.String("status", rawStatus),
			)
			continue
		}

		t.BookedAt = domain.ParseDateTime(bookedAt)
		t.IsActive = status == domain.TicketActive
		tickets = append(tickets, &t)
	}

	return tickets, rows.Err()
}
