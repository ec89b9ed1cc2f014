package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/srgjo27/boxoffice/internal/core/domain"
	"github.com/srgjo27/boxoffice/internal/core/ports"
	"github.com/srgjo27/boxoffice/internal/platform/clock"
)

type ConcertParams struct {
	Name            string
	Date            string
	Venue           string
	TotalSeats      int
	BasePrice       float64
	Artist          string
	Genre           string
	DurationMinutes int
	Description     string
	Category        string
}

type TheatrePlayParams struct {
	Name            string
	Date            string
	Venue           string
	TotalSeats      int
	BasePrice       float64
	Director        string
	Genre           string
	DurationMinutes int
	AgeLimit        int
	Description     string
	Category        string
}

// EventPatch changes the base fields of an event. Nil fields are left as they are.
type EventPatch struct {
	Name        *string
	Date        *string
	Venue       *string
	BasePrice   *float64
	Description *string
	Category    *string
}

type UserPatch struct {
	Name  *string
	Email *string
	Phone *string
}

type Option func(*BookingSystem)

func WithClock(c clock.Clock) Option {
	return func(s *BookingSystem) {
		s.clock = c
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *BookingSystem) {
		s.logger = l
	}
}

// WithSeatCache mirrors every seat count change into c. Mirror failures are
// logged and never fail the operation.
func WithSeatCache(c ports.SeatCache) Option {
	return func(s *BookingSystem) {
		s.seatCache = c
	}
}

// BookingSystem owns every event, user and ticket. It allocates ids, keeps
// seat counts consistent with active tickets and writes each change through
// to the repositories before it becomes visible.
type BookingSystem struct {
	mu sync.RWMutex

	eventRepo  ports.EventRepository
	userRepo   ports.UserRepository
	ticketRepo ports.TicketRepository
	seatCache  ports.SeatCache
	clock      clock.Clock
	logger     *zap.Logger

	events  []*domain.Event
	users   []*domain.User
	tickets []*domain.Ticket

	eventsByID  map[int]*domain.Event
	usersByID   map[int]*domain.User
	ticketsByID map[int]*domain.Ticket

	nextEventID  int
	nextUserID   int
	nextTicketID int
}

func NewBookingSystem(eventRepo ports.EventRepository, userRepo ports.UserRepository, ticketRepo ports.TicketRepository, opts ...Option) *BookingSystem {
	s := &BookingSystem{
		eventRepo:  eventRepo,
		userRepo:   userRepo,
		ticketRepo: ticketRepo,
		clock:      clock.NewSystem(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.reset()

	return s
}

func (s *BookingSystem) reset() {
	s.events = nil
	s.users = nil
	s.tickets = nil
	s.eventsByID = make(map[int]*domain.Event)
	s.usersByID = make(map[int]*domain.User)
	s.ticketsByID = make(map[int]*domain.Ticket)
	s.nextEventID = 1
	s.nextUserID = 1
	s.nextTicketID = 1
}

// CreateConcert does not validate seats or price; negative values are stored as given.
func (s *BookingSystem) CreateConcert(ctx context.Context, p ConcertParams) (domain.Event, error) {
	if p.DurationMinutes == 0 {
		p.DurationMinutes = domain.DefaultConcertDuration
	}
	if p.Category == "" {
		p.Category = domain.DefaultConcertCategory
	}

	return s.createEvent(ctx, domain.Event{
		Name:        p.Name,
		Date:        domain.ParseDateTime(p.Date),
		Venue:       p.Venue,
		TotalSeats:  p.TotalSeats,
		BasePrice:   p.BasePrice,
		Description: p.Description,
		Category:    p.Category,
		Variant: domain.Concert{
			Artist:          p.Artist,
			Genre:           p.Genre,
			DurationMinutes: p.DurationMinutes,
		},
	})
}

// CreateTheatrePlay does not validate seats or price; negative values are stored as given.
func (s *BookingSystem) CreateTheatrePlay(ctx context.Context, p TheatrePlayParams) (domain.Event, error) {
	if p.DurationMinutes == 0 {
		p.DurationMinutes = domain.DefaultTheatrePlayDuration
	}
	if p.Category == "" {
		p.Category = domain.DefaultTheatrePlayCategory
	}

	return s.createEvent(ctx, domain.Event{
		Name:        p.Name,
		Date:        domain.ParseDateTime(p.Date),
		Venue:       p.Venue,
		TotalSeats:  p.TotalSeats,
		BasePrice:   p.BasePrice,
		Description: p.Description,
		Category:    p.Category,
		Variant: domain.TheatrePlay{
			Director:        p.Director,
			Genre:           p.Genre,
			DurationMinutes: p.DurationMinutes,
			AgeLimit:        p.AgeLimit,
		},
	})
}

func (s *BookingSystem) createEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = s.nextEventID
	event.AvailableSeats = event.TotalSeats

	if err := s.eventRepo.Save(ctx, &event); err != nil {
		return domain.Event{}, fmt.Errorf("failed to save event %d: %w", event.ID, err)
	}

	s.nextEventID++
	stored := event
	s.events = append(s.events, &stored)
	s.eventsByID[stored.ID] = &stored
	s.publishSeats(ctx, &stored)

	return event, nil
}

func (s *BookingSystem) CreateUser(ctx context.Context, name, email, phone string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &domain.User{
		ID:    s.nextUserID,
		Name:  name,
		Email: email,
		Phone: phone,
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("failed to save user %d: %w", user.ID, err)
	}

	s.nextUserID++
	s.users = append(s.users, user)
	s.usersByID[user.ID] = user

	return copyUser(user), nil
}

// ReserveTicket books one seat of the event for the user. It returns
// domain.ErrNoSeatsAvailable when the event is sold out.
//
// The ticket record is written first, then the event. If the event cannot be
// written the previous event record is written back, the ticket record is
// deleted again and nothing changes in memory.
func (s *BookingSystem) ReserveTicket(ctx context.Context, eventID, userID int) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.eventsByID[eventID]
	if !ok {
		return domain.Ticket{}, domain.ErrEventNotFound
	}

	user, ok := s.usersByID[userID]
	if !ok {
		return domain.Ticket{}, domain.ErrUserNotFound
	}

	if !event.HasAvailableSeats() {
		return domain.Ticket{}, domain.ErrNoSeatsAvailable
	}

	now := s.clock.Now()
	ticket := &domain.Ticket{
		ID:       s.nextTicketID,
		EventID:  event.ID,
		UserID:   user.ID,
		Price:    domain.TicketPrice(event, now),
		BookedAt: domain.FromTime(now),
		IsActive: true,
	}

	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return domain.Ticket{}, fmt.Errorf("failed to save ticket %d: %w", ticket.ID, err)
	}

	// the id is spent once a record carrying it may exist on disk
	s.nextTicketID++

	updated := *event
	updated.DecreaseAvailableSeats()

	if err := s.eventRepo.Save(ctx, &updated); err != nil {
		s.restoreEvent(ctx, event)
		s.rollbackTicket(ctx, ticket.ID)
		return domain.Ticket{}, fmt.Errorf("failed to save event %d: %w", event.ID, err)
	}

	*event = updated
	s.tickets = append(s.tickets, ticket)
	s.ticketsByID[ticket.ID] = ticket
	user.AddTicket(ticket.ID)
	s.publishSeats(ctx, event)

	return *ticket, nil
}

// restoreEvent writes the committed event back after a failed save, since a
// repository may have stored part of the new version before failing.
func (s *BookingSystem) restoreEvent(ctx context.Context, event *domain.Event) {
	if err := s.eventRepo.Save(ctx, event); err != nil {
		s.logger.Error("Failed to restore event record",
			zap.Int("event_id", event.ID),
			zap.Error(err),
		)
	}
}

func (s *BookingSystem) rollbackTicket(ctx context.Context, ticketID int) {
	if err := s.ticketRepo.Delete(ctx, ticketID); err != nil {
		s.logger.Error("Failed to roll back ticket record",
			zap.Int("ticket_id", ticketID),
			zap.Error(err),
		)
	}
}

// CancelTicket deactivates an active ticket and releases its seat. It reports
// false without error when the ticket does not exist or is already cancelled.
func (s *BookingSystem) CancelTicket(ctx context.Context, ticketID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.ticketsByID[ticketID]
	if !ok || !ticket.IsActive {
		return false, nil
	}

	cancelled := *ticket
	cancelled.Cancel()

	if err := s.ticketRepo.Save(ctx, &cancelled); err != nil {
		return false, fmt.Errorf("failed to save ticket %d: %w", ticket.ID, err)
	}

	event, hasEvent := s.eventsByID[ticket.EventID]
	var updated domain.Event
	if hasEvent {
		updated = *event
		updated.IncreaseAvailableSeats()

		if err := s.eventRepo.Save(ctx, &updated); err != nil {
			s.restoreEvent(ctx, event)
			if rerr := s.ticketRepo.Save(ctx, ticket); rerr != nil {
				s.logger.Error("Failed to restore ticket record",
					zap.Int("ticket_id", ticket.ID),
					zap.Error(rerr),
				)
			}
			return false, fmt.Errorf("failed to save event %d: %w", event.ID, err)
		}
	}

	*ticket = cancelled
	if user, ok := s.usersByID[ticket.UserID]; ok {
		user.RemoveTicket(ticket.ID)
	}
	if hasEvent {
		*event = updated
		s.publishSeats(ctx, event)
	}

	return true, nil
}

// UpdateEvent applies p and persists the result. Prices of issued tickets
// are not touched.
func (s *BookingSystem) UpdateEvent(ctx context.Context, eventID int, p EventPatch) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.eventsByID[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}

	updated := *event
	if p.Name != nil {
		updated.Name = *p.Name
	}
	if p.Date != nil {
		updated.Date = domain.ParseDateTime(*p.Date)
	}
	if p.Venue != nil {
		updated.Venue = *p.Venue
	}
	if p.BasePrice != nil {
		updated.BasePrice = *p.BasePrice
	}
	if p.Description != nil {
		updated.Description = *p.Description
	}
	if p.Category != nil {
		updated.Category = *p.Category
	}

	if err := s.eventRepo.Save(ctx, &updated); err != nil {
		s.restoreEvent(ctx, event)
		return domain.Event{}, fmt.Errorf("failed to save event %d: %w", eventID, err)
	}

	*event = updated

	return updated, nil
}

func (s *BookingSystem) UpdateUser(ctx context.Context, userID int, p UserPatch) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	updated := copyUser(user)
	if p.Name != nil {
		updated.Name = *p.Name
	}
	if p.Email != nil {
		updated.Email = *p.Email
	}
	if p.Phone != nil {
		updated.Phone = *p.Phone
	}

	if err := s.userRepo.Save(ctx, &updated); err != nil {
		return domain.User{}, fmt.Errorf("failed to save user %d: %w", userID, err)
	}

	*user = updated

	return copyUser(user), nil
}

// LoadAll replaces the in-memory state with what the repositories hold. Id
// counters continue after the highest loaded id and active tickets are
// linked back to their users.
func (s *BookingSystem) LoadAll(ctx context.Context) error {
	users, err := s.userRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	events, err := s.eventRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	tickets, err := s.ticketRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tickets: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()

	for _, u := range users {
		if _, dup := s.usersByID[u.ID]; dup {
			continue
		}
		u.TicketIDs = nil
		s.users = append(s.users, u)
		s.usersByID[u.ID] = u
		s.nextUserID = max(s.nextUserID, u.ID+1)
	}

	slices.SortStableFunc(events, func(a, b *domain.Event) int {
		return a.ID - b.ID
	})
	for _, e := range events {
		if _, dup := s.eventsByID[e.ID]; dup {
			continue
		}
		s.events = append(s.events, e)
		s.eventsByID[e.ID] = e
		s.nextEventID = max(s.nextEventID, e.ID+1)
	}

	for _, t := range tickets {
		if _, dup := s.ticketsByID[t.ID]; dup {
			continue
		}
		s.tickets = append(s.tickets, t)
		s.ticketsByID[t.ID] = t
		s.nextTicketID = max(s.nextTicketID, t.ID+1)

		if user, ok := s.usersByID[t.UserID]; ok && t.IsActive {
			user.AddTicket(t.ID)
		}
	}

	s.logger.Info("Booking data loaded",
		zap.Int("users", len(s.users)),
		zap.Int("events", len(s.events)),
		zap.Int("tickets", len(s.tickets)),
	)

	return nil
}

// SaveAll writes every record through the repositories. It keeps going after
// a failure and returns all errors joined.
func (s *BookingSystem) SaveAll(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []error

	for _, e := range s.events {
		if err := s.eventRepo.Save(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("failed to save event %d: %w", e.ID, err))
		}
	}

	for _, u := range s.users {
		if err := s.userRepo.Save(ctx, u); err != nil {
			errs = append(errs, fmt.Errorf("failed to save user %d: %w", u.ID, err))
		}
	}

	for _, t := range s.tickets {
		if err := s.ticketRepo.Save(ctx, t); err != nil {
			errs = append(errs, fmt.Errorf("failed to save ticket %d: %w", t.ID, err))
		}
	}

	return errors.Join(errs...)
}

func (s *BookingSystem) publishSeats(ctx context.Context, event *domain.Event) {
	if s.seatCache == nil {
		return
	}

	if err := s.seatCache.SetAvailableSeats(ctx, event.ID, event.AvailableSeats); err != nil {
		s.logger.Warn("Failed to mirror seat availability",
			zap.Int("event_id", event.ID),
			zap.Int("available_seats", event.AvailableSeats),
			zap.Error(err),
		)
	}
}

func copyUser(u *domain.User) domain.User {
	c := *u
	c.TicketIDs = slices.Clone(u.TicketIDs)
	return c
}
