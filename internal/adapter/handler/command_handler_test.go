package handler_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/boxoffice/internal/adapter/cache"
	"github.com/srgjo27/boxoffice/internal/adapter/handler"
	"github.com/srgjo27/boxoffice/internal/adapter/repository/flatfile"
	"github.com/srgjo27/boxoffice/internal/core/services"
	"github.com/srgjo27/boxoffice/internal/platform/clock"
)

func setup(t *testing.T, opts ...handler.Option) (*handler.CommandHandler, *services.BookingSystem, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	bs := services.NewBookingSystem(
		flatfile.NewEventRepository(dir, nil),
		flatfile.NewUserRepository(dir, nil),
		flatfile.NewTicketRepository(dir, nil),
		services.WithClock(clock.NewFixed(time.Date(2025, time.January, 7, 10, 0, 0, 0, time.UTC))),
	)

	ctx := context.Background()
	_, err := bs.CreateConcert(ctx, services.ConcertParams{
		Name: "Rock Night", Date: "2025-03-01", Venue: "Hall", TotalSeats: 1, BasePrice: 100,
	})
	require.NoError(t, err)
	_, err = bs.CreateUser(ctx, "Ann", "ann@example.com", "+1-555-0100")
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return handler.NewCommandHandler(bs, out, opts...), bs, out
}

func TestHandle_ReserveAndCancel(t *testing.T) {
	h, bs, out := setup(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, []string{"reserve", "1", "1"}))
	assert.Equal(t, "Reserved ticket 1 for 110.00\n", out.String())

	out.Reset()
	require.NoError(t, h.Handle(ctx, []string{"reserve", "1", "1"}))
	assert.Equal(t, "No seats available for event 1\n", out.String())

	out.Reset()
	require.NoError(t, h.Handle(ctx, []string{"cancel", "1"}))
	assert.Equal(t, "Cancelled ticket 1\n", out.String())

	out.Reset()
	require.NoError(t, h.Handle(ctx, []string{"cancel", "1"}))
	assert.Equal(t, "Ticket 1 not found or already cancelled\n", out.String())

	assert.Equal(t, 1, bs.CanceledTicketCount())
}

func TestHandle_ReserveUnknownEvent(t *testing.T) {
	h, _, out := setup(t)

	require.NoError(t, h.Handle(context.Background(), []string{"reserve", "9", "1"}))

	assert.Contains(t, out.String(), "Reservation failed")
}

func TestHandle_Stats(t *testing.T) {
	h, _, out := setup(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, []string{"reserve", "1", "1"}))
	out.Reset()

	require.NoError(t, h.Handle(ctx, []string{"stats"}))

	assert.Equal(t,
		"Total sales: 110.00\nActive tickets: 1\nCancelled tickets: 0\nAverage ticket price: 110.00\n",
		out.String())
}

func TestHandle_Listings(t *testing.T) {
	h, _, out := setup(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, []string{"events"}))
	assert.Contains(t, out.String(), "Rock Night")
	assert.Contains(t, out.String(), "1/1")

	out.Reset()
	require.NoError(t, h.Handle(ctx, []string{"search", "Jazz"}))
	assert.NotContains(t, out.String(), "Rock Night")

	out.Reset()
	require.NoError(t, h.Handle(ctx, []string{"upcoming"}))
	assert.Contains(t, out.String(), "Rock Night")

	out.Reset()
	require.NoError(t, h.Handle(ctx, []string{"users"}))
	assert.Contains(t, out.String(), "ann@example.com")
}

func TestHandle_CreateUser(t *testing.T) {
	h, bs, out := setup(t)

	require.NoError(t, h.Handle(context.Background(), []string{"create-user", "Bob", "bob@example.com", "+1-555-0101"}))

	assert.Equal(t, "Created user 2\n", out.String())
	assert.Len(t, bs.Users(), 2)
}

func TestHandle_BadInput(t *testing.T) {
	h, _, _ := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, h.Handle(ctx, nil), handler.ErrUsage)
	assert.ErrorIs(t, h.Handle(ctx, []string{"refund"}), handler.ErrUnknownCommand)
	assert.ErrorIs(t, h.Handle(ctx, []string{"reserve", "1"}), handler.ErrUsage)
	assert.ErrorIs(t, h.Handle(ctx, []string{"cancel", "one"}), handler.ErrUsage)
	assert.ErrorIs(t, h.Handle(ctx, []string{"search"}), handler.ErrUsage)
	assert.ErrorIs(t, h.Handle(ctx, []string{"seats"}), handler.ErrUsage)
}

func TestHandle_SeatsWithoutMirror(t *testing.T) {
	h, _, out := setup(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, []string{"seats", "1"}))
	assert.Equal(t, "Event 1: 1 of 1 seats available\n", out.String())

	out.Reset()
	require.NoError(t, h.Handle(ctx, []string{"seats", "9"}))
	assert.Equal(t, "Event 9 not found\n", out.String())
}

func TestHandle_SeatsReadsMirror(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	h, _, out := setup(t, handler.WithSeatReader(cache.NewSeatCache(db, 0)))
	ctx := context.Background()

	mockRedis.ExpectGet("seats:1").SetVal("1")
	mockRedis.ExpectGet("seats:1").RedisNil()

	require.NoError(t, h.Handle(ctx, []string{"seats", "1"}))
	assert.Equal(t, "Event 1: 1 of 1 seats available\nMirror: 1\n", out.String())

	out.Reset()
	require.NoError(t, h.Handle(ctx, []string{"seats", "1"}))
	assert.Equal(t, "Event 1: 1 of 1 seats available\nMirror: not published\n", out.String())

	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
