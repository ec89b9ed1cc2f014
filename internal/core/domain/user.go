package domain

import "slices"

type User struct {
	ID    int
	Name  string
	Email string
	Phone string

	// TicketIDs lists the user's active tickets in booking order. It is an
	// index maintained by the booking system and is never persisted.
	TicketIDs []int
}

func (u *User) AddTicket(ticketID int) {
	u.TicketIDs = append(u.TicketIDs, ticketID)
}

func (u *User) RemoveTicket(ticketID int) {
	u.TicketIDs = slices.DeleteFunc(u.TicketIDs, func(id int) bool {
		return id == ticketID
	})
}

func (u *User) HasTicket(ticketID int) bool {
	return slices.Contains(u.TicketIDs, ticketID)
}
