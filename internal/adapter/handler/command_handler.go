package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/srgjo27/boxoffice/internal/core/domain"
	"github.com/srgjo27/boxoffice/internal/core/services"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("invalid arguments")
)

// SeatReader reads back the published seat availability of an event.
type SeatReader interface {
	AvailableSeats(ctx context.Context, eventID int) (int, bool, error)
}

type Option func(*CommandHandler)

// WithSeatReader lets the seats verb compare the registry with the seat mirror.
func WithSeatReader(r SeatReader) Option {
	return func(h *CommandHandler) {
		h.seats = r
	}
}

// CommandHandler maps one-shot command line verbs onto booking system
// operations and renders their results as text.
type CommandHandler struct {
	svc   *services.BookingSystem
	out   io.Writer
	seats SeatReader
}

func NewCommandHandler(svc *services.BookingSystem, out io.Writer, opts ...Option) *CommandHandler {
	h := &CommandHandler{svc: svc, out: out}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *CommandHandler) Handle(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	verb, rest := args[0], args[1:]

	switch verb {
	case "events":
		return h.listEvents(h.svc.Events())
	case "upcoming":
		return h.listEvents(h.svc.UpcomingEvents())
	case "search":
		if len(rest) != 1 {
			return fmt.Errorf("%w: search <name>", ErrUsage)
		}
		return h.listEvents(h.svc.FindEventsByName(rest[0]))
	case "users":
		return h.listUsers()
	case "tickets":
		return h.listTickets()
	case "stats":
		return h.stats()
	case "create-user":
		if len(rest) != 3 {
			return fmt.Errorf("%w: create-user <name> <email> <phone>", ErrUsage)
		}
		user, err := h.svc.CreateUser(ctx, rest[0], rest[1], rest[2])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(h.out, "Created user %d\n", user.ID)
		return err
	case "reserve":
		ids, err := parseIDs(rest, 2, "reserve <eventID> <userID>")
		if err != nil {
			return err
		}
		return h.reserve(ctx, ids[0], ids[1])
	case "seats":
		ids, err := parseIDs(rest, 1, "seats <eventID>")
		if err != nil {
			return err
		}
		return h.showSeats(ctx, ids[0])
	case "cancel":
		ids, err := parseIDs(rest, 1, "cancel <ticketID>")
		if err != nil {
			return err
		}
		return h.cancel(ctx, ids[0])
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, verb)
	}
}

func (h *CommandHandler) reserve(ctx context.Context, eventID, userID int) error {
	ticket, err := h.svc.ReserveTicket(ctx, eventID, userID)
	switch {
	case errors.Is(err, domain.ErrNoSeatsAvailable):
		_, err = fmt.Fprintf(h.out, "No seats available for event %d\n", eventID)
		return err
	case errors.Is(err, domain.ErrEventNotFound), errors.Is(err, domain.ErrUserNotFound):
		_, err = fmt.Fprintf(h.out, "Reservation failed: %v\n", err)
		return err
	case err != nil:
		return err
	}

	_, err = fmt.Fprintf(h.out, "Reserved ticket %d for %s\n", ticket.ID, formatPrice(ticket.Price))
	return err
}

func (h *CommandHandler) cancel(ctx context.Context, ticketID int) error {
	ok, err := h.svc.CancelTicket(ctx, ticketID)
	if err != nil {
		return err
	}

	if !ok {
		_, err = fmt.Fprintf(h.out, "Ticket %d not found or already cancelled\n", ticketID)
		return err
	}

	_, err = fmt.Fprintf(h.out, "Cancelled ticket %d\n", ticketID)
	return err
}

func (h *CommandHandler) showSeats(ctx context.Context, eventID int) error {
	event, ok := h.svc.FindEventByID(eventID)
	if !ok {
		_, err := fmt.Fprintf(h.out, "Event %d not found\n", eventID)
		return err
	}

	if _, err := fmt.Fprintf(h.out, "Event %d: %d of %d seats available\n",
		event.ID, event.AvailableSeats, event.TotalSeats); err != nil {
		return err
	}

	if h.seats == nil {
		return nil
	}

	published, cached, err := h.seats.AvailableSeats(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to read seat mirror: %w", err)
	}

	if !cached {
		_, err = fmt.Fprintln(h.out, "Mirror: not published")
		return err
	}

	_, err = fmt.Fprintf(h.out, "Mirror: %d\n", published)
	return err
}

func (h *CommandHandler) listEvents(events []domain.Event) error {
	w := tabwriter.NewWriter(h.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tNAME\tDATE\tVENUE\tSEATS\tPRICE\tCATEGORY")
	for _, e := range events {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			e.ID, e.Kind(), e.Name, e.Date.DateString(), e.Venue,
			e.AvailableSeats, e.TotalSeats, formatPrice(e.BasePrice), e.Category)
	}
	return w.Flush()
}

func (h *CommandHandler) listUsers() error {
	w := tabwriter.NewWriter(h.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tACTIVE TICKETS")
	for _, u := range h.svc.Users() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", u.ID, u.Name, u.Email, u.Phone, len(u.TicketIDs))
	}
	return w.Flush()
}

func (h *CommandHandler) listTickets() error {
	w := tabwriter.NewWriter(h.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEVENT\tUSER\tPRICE\tBOOKED AT\tSTATUS")
	for _, t := range h.svc.Tickets() {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%s\n",
			t.ID, t.EventID, t.UserID, formatPrice(t.Price), t.BookedAt, t.Status())
	}
	return w.Flush()
}

func (h *CommandHandler) stats() error {
	st := h.svc.Statistics()
	_, err := fmt.Fprintf(h.out,
		"Total sales: %s\nActive tickets: %d\nCancelled tickets: %d\nAverage ticket price: %s\n",
		formatPrice(st.TotalSales), st.ActiveTickets, st.CanceledTickets, formatPrice(st.AverageTicketPrice))
	return err
}

func parseIDs(args []string, n int, usage string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: %s", ErrUsage, usage)
	}

	ids := make([]int, n)
	for i, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an id", ErrUsage, a)
		}
		ids[i] = id
	}

	return ids, nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
