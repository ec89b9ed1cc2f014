package services

import (
	"cmp"
	"slices"
	"strings"

	"github.com/srgjo27/boxoffice/internal/core/domain"
)

// Statistics summarises ticket sales. TotalSales counts active tickets only
// while AverageTicketPrice averages over every ticket ever issued,
// cancelled ones included.
type Statistics struct {
	TotalSales         float64
	ActiveTickets      int
	CanceledTickets    int
	AverageTicketPrice float64
}

type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (s *BookingSystem) FindEventByID(id int) (domain.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.eventsByID[id]
	if !ok {
		return domain.Event{}, false
	}
	return *e, true
}

func (s *BookingSystem) FindUserByID(id int) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByID[id]
	if !ok {
		return domain.User{}, false
	}
	return copyUser(u), true
}

func (s *BookingSystem) FindTicketByID(id int) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.ticketsByID[id]
	if !ok {
		return domain.Ticket{}, false
	}
	return *t, true
}

func (s *BookingSystem) Events() []domain.Event {
	return s.filterEvents(func(*domain.Event) bool { return true })
}

func (s *BookingSystem) Users() []domain.User {
	return s.filterUsers(func(*domain.User) bool { return true })
}

func (s *BookingSystem) Tickets() []domain.Ticket {
	return s.filterTickets(func(*domain.Ticket) bool { return true })
}

// FindEventsByName is a case-sensitive substring match.
func (s *BookingSystem) FindEventsByName(substr string) []domain.Event {
	return s.filterEvents(func(e *domain.Event) bool {
		return strings.Contains(e.Name, substr)
	})
}

func (s *BookingSystem) FindEventsByCategory(category string) []domain.Event {
	return s.filterEvents(func(e *domain.Event) bool {
		return e.Category == category
	})
}

// FindEventsByDate matches on the calendar day only. Unreadable text becomes
// the zero date and matches events whose date is unknown.
func (s *BookingSystem) FindEventsByDate(date string) []domain.Event {
	day := domain.ParseDateTime(date)
	return s.filterEvents(func(e *domain.Event) bool {
		return e.Date.SameDate(day)
	})
}

// UpcomingEvents and ExpiredEvents both leave out events whose date is unknown.
func (s *BookingSystem) UpcomingEvents() []domain.Event {
	now := domain.FromTime(s.clock.Now())
	return s.filterEvents(func(e *domain.Event) bool {
		return e.Date.After(now)
	})
}

func (s *BookingSystem) ExpiredEvents() []domain.Event {
	now := domain.FromTime(s.clock.Now())
	return s.filterEvents(func(e *domain.Event) bool {
		return e.IsExpired(now)
	})
}

// EventsSortedByDate is a stable sort: events on the same date keep catalog order.
func (s *BookingSystem) EventsSortedByDate(order SortOrder) []domain.Event {
	return s.sortedEvents(order, func(a, b domain.Event) int {
		return a.Date.Compare(b.Date)
	})
}

// EventsSortedByPrice sorts on base price and is stable like EventsSortedByDate.
func (s *BookingSystem) EventsSortedByPrice(order SortOrder) []domain.Event {
	return s.sortedEvents(order, func(a, b domain.Event) int {
		return cmp.Compare(a.BasePrice, b.BasePrice)
	})
}

func (s *BookingSystem) sortedEvents(order SortOrder, compare func(a, b domain.Event) int) []domain.Event {
	result := s.Events()
	slices.SortStableFunc(result, func(a, b domain.Event) int {
		if order == Descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return result
}

// FindUsersByName is a case-sensitive substring match.
func (s *BookingSystem) FindUsersByName(substr string) []domain.User {
	return s.filterUsers(func(u *domain.User) bool {
		return strings.Contains(u.Name, substr)
	})
}

// TicketsByUser returns active and cancelled tickets of the user.
func (s *BookingSystem) TicketsByUser(userID int) []domain.Ticket {
	return s.filterTickets(func(t *domain.Ticket) bool {
		return t.UserID == userID
	})
}

func (s *BookingSystem) TicketsByEvent(eventID int) []domain.Ticket {
	return s.filterTickets(func(t *domain.Ticket) bool {
		return t.EventID == eventID
	})
}

func (s *BookingSystem) ActiveTickets() []domain.Ticket {
	return s.filterTickets(func(t *domain.Ticket) bool {
		return t.IsActive
	})
}

// TotalSales sums the price of active tickets.
func (s *BookingSystem) TotalSales() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, t := range s.tickets {
		if t.IsActive {
			total += t.Price
		}
	}
	return total
}

func (s *BookingSystem) ActiveTicketCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.tickets {
		if t.IsActive {
			n++
		}
	}
	return n
}

func (s *BookingSystem) CanceledTicketCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.tickets {
		if !t.IsActive {
			n++
		}
	}
	return n
}

// AverageTicketPrice averages the price of all tickets, cancelled ones
// included, and is 0 when none were issued.
func (s *BookingSystem) AverageTicketPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.tickets) == 0 {
		return 0
	}

	var total float64
	for _, t := range s.tickets {
		total += t.Price
	}
	return total / float64(len(s.tickets))
}

func (s *BookingSystem) Statistics() Statistics {
	return Statistics{
		TotalSales:         s.TotalSales(),
		ActiveTickets:      s.ActiveTicketCount(),
		CanceledTickets:    s.CanceledTicketCount(),
		AverageTicketPrice: s.AverageTicketPrice(),
	}
}

func (s *BookingSystem) filterEvents(keep func(*domain.Event) bool) []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		if keep(e) {
			result = append(result, *e)
		}
	}
	return result
}

func (s *BookingSystem) filterUsers(keep func(*domain.User) bool) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if keep(u) {
			result = append(result, copyUser(u))
		}
	}
	return result
}

func (s *BookingSystem) filterTickets(keep func(*domain.Ticket) bool) []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		if keep(t) {
			result = append(result, *t)
		}
	}
	return result
}
