package domain

type TicketStatus string

const (
	TicketActive   TicketStatus = "active"
	TicketCanceled TicketStatus = "canceled"
)

// Ticket links one event to one user. Price is fixed when the ticket is
// issued.
type Ticket struct {
	ID       int
	EventID  int
	UserID   int
	Price    float64
	BookedAt DateTime
	IsActive bool
}

func (t *Ticket) Status() TicketStatus {
	if t.IsActive {
		return TicketActive
	}
	return TicketCanceled
}

// Cancel deactivates the ticket. It reports false when the ticket was
// already cancelled.
func (t *Ticket) Cancel() bool {
	if !t.IsActive {
		return false
	}
	t.IsActive = false
	return true
}

func ParseTicketStatus(s string) (TicketStatus, bool) {
	switch TicketStatus(s) {
	case TicketActive:
		return TicketActive, true
	case TicketCanceled:
		return TicketCanceled, true
	default:
		return "", false
	}
}
