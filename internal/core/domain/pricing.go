package domain

import "time"

const (
	concertMarkup        = 1.10
	concertWeekendMarkup = 1.05
	theatreMarkup        = 1.05
	theatreAdultMarkup   = 1.10
	theatreAdultAgeLimit = 18
)

// TicketPrice is the price a ticket for e costs when booked at now. The
// concert weekend surcharge follows the booking day, not the event day.
func TicketPrice(e *Event, now time.Time) float64 {
	switch v := e.Variant.(type) {
	case Concert:
		price := e.BasePrice * concertMarkup
		if isWeekend(now.Weekday()) {
			price *= concertWeekendMarkup
		}
		return price
	case TheatrePlay:
		price := e.BasePrice * theatreMarkup
		if v.AgeLimit >= theatreAdultAgeLimit {
			price *= theatreAdultMarkup
		}
		return price
	default:
		return e.BasePrice
	}
}

func isWeekend(d time.Weekday) bool {
	return d == time.Friday || d == time.Saturday || d == time.Sunday
}
