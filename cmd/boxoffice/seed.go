package main

import (
	"context"

	"github.com/srgjo27/boxoffice/internal/core/services"
)

func seedDemoData(ctx context.Context, bs *services.BookingSystem) error {
	rockFest, err := bs.CreateConcert(ctx, services.ConcertParams{
		Name: "Rock Festival", Date: "2023-07-15", Venue: "Stadium",
		TotalSeats: 1000, BasePrice: 2500,
		Artist: "Various Artists", Genre: "Rock", DurationMinutes: 240,
		Description: "Open air rock festival", Category: "Festival",
	})
	if err != nil {
		return err
	}

	jazzNight, err := bs.CreateConcert(ctx, services.ConcertParams{
		Name: "Jazz Night", Date: "2023-08-10", Venue: "Jazz Club",
		TotalSeats: 200, BasePrice: 1500,
		Artist: "Jazz Band", Genre: "Jazz", DurationMinutes: 180,
		Description: "An evening of classic jazz", Category: "Concert",
	})
	if err != nil {
		return err
	}

	hamlet, err := bs.CreateTheatrePlay(ctx, services.TheatrePlayParams{
		Name: "Hamlet", Date: "2023-08-20", Venue: "Drama Theatre",
		TotalSeats: 200, BasePrice: 1500,
		Director: "I. Ivanov", Genre: "Drama", DurationMinutes: 210, AgeLimit: 12,
		Description: "Classic Shakespeare production", Category: "Play",
	})
	if err != nil {
		return err
	}

	seagull, err := bs.CreateTheatrePlay(ctx, services.TheatrePlayParams{
		Name: "The Seagull", Date: "2023-09-05", Venue: "Small Theatre",
		TotalSeats: 150, BasePrice: 1800,
		Director: "P. Petrov", Genre: "Drama", DurationMinutes: 180, AgeLimit: 16,
		Description: "A play by A. P. Chekhov", Category: "Play",
	})
	if err != nil {
		return err
	}

	ivan, err := bs.CreateUser(ctx, "Ivan Petrov", "ivan@example.com", "+7-900-123-4567")
	if err != nil {
		return err
	}

	maria, err := bs.CreateUser(ctx, "Maria Sidorova", "maria@example.com", "+7-900-765-4321")
	if err != nil {
		return err
	}

	bookings := []struct{ eventID, userID int }{
		{rockFest.ID, ivan.ID},
		{hamlet.ID, ivan.ID},
		{jazzNight.ID, maria.ID},
		{seagull.ID, maria.ID},
	}

	for _, b := range bookings {
		if _, err := bs.ReserveTicket(ctx, b.eventID, b.userID); err != nil {
			return err
		}
	}

	return nil
}
