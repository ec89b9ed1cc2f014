package services_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/srgjo27/boxoffice/internal/adapter/repository/flatfile"
	"github.com/srgjo27/boxoffice/internal/core/domain"
	"github.com/srgjo27/boxoffice/internal/core/services"
	"github.com/srgjo27/boxoffice/internal/platform/clock"
)

func newFileSystem(dir string, logger *zap.Logger) *services.BookingSystem {
	return services.NewBookingSystem(
		flatfile.NewEventRepository(dir, logger),
		flatfile.NewUserRepository(dir, logger),
		flatfile.NewTicketRepository(dir, logger),
		services.WithClock(clock.NewFixed(tuesday)),
		services.WithLogger(logger),
	)
}

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestLoadAll_RestoresStateWrittenByAnotherInstance(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := newFileSystem(dir, zap.NewNop())
	concert, err := first.CreateConcert(ctx, services.ConcertParams{Name: "Rock", Date: "2025-02-01", TotalSeats: 3, BasePrice: 100})
	require.NoError(t, err)
	play, err := first.CreateTheatrePlay(ctx, services.TheatrePlayParams{Name: "Hamlet", Date: "2025-02-02", TotalSeats: 2, BasePrice: 80, AgeLimit: 18})
	require.NoError(t, err)
	user, err := first.CreateUser(ctx, "Ann", "ann@example.com", "+1-555-0100")
	require.NoError(t, err)

	kept, err := first.ReserveTicket(ctx, concert.ID, user.ID)
	require.NoError(t, err)
	dropped, err := first.ReserveTicket(ctx, play.ID, user.ID)
	require.NoError(t, err)
	_, err = first.CancelTicket(ctx, dropped.ID)
	require.NoError(t, err)

	second := newFileSystem(dir, zap.NewNop())
	require.NoError(t, second.LoadAll(ctx))

	assert.Equal(t, first.Events(), second.Events())
	assert.Equal(t, first.Tickets(), second.Tickets())

	loaded, ok := second.FindUserByID(user.ID)
	require.True(t, ok)
	assert.Equal(t, []int{kept.ID}, loaded.TicketIDs)

	reloadedConcert, _ := second.FindEventByID(concert.ID)
	assert.Equal(t, 2, reloadedConcert.AvailableSeats)

	next, err := second.ReserveTicket(ctx, concert.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, next.ID)

	another, err := second.CreateUser(ctx, "Bob", "bob@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, 2, another.ID)
}

func TestLoadAll_SkipsMalformedRecords(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zap.WarnLevel)

	writeLines(t, filepath.Join(dir, flatfile.UsersFile),
		"1\tAnn\tann@example.com\t+1-555-0100",
		"two\tBob\tbob@example.com\t+1-555-0101",
	)
	writeLines(t, filepath.Join(dir, flatfile.ConcertsFile),
		"5\tRock\t2025-02-01\tHall\t10\t7\t100\tBand\tRock\t120\t\tConcert",
		"6\tshort",
	)
	writeLines(t, filepath.Join(dir, flatfile.TicketsFile),
		"9\t5\t1\t110\t2025-01-06 12:00:00\tactive",
		"10\t5\t1\t110\t2025-01-06 12:00:00\tpending",
	)

	bs := newFileSystem(dir, zap.New(core))
	require.NoError(t, bs.LoadAll(context.Background()))

	assert.Len(t, bs.Users(), 1)
	assert.Len(t, bs.Events(), 1)
	assert.Len(t, bs.Tickets(), 1)
	assert.Equal(t, 3, logs.FilterMessage("Skipping malformed record").Len())

	event, ok := bs.FindEventByID(5)
	require.True(t, ok)
	assert.Equal(t, 7, event.AvailableSeats)

	ticket, ok := bs.FindTicketByID(9)
	require.True(t, ok)
	assert.Equal(t, domain.ParseDateTime("2025-01-06 12:00:00"), ticket.BookedAt)

	created, err := bs.CreateConcert(context.Background(), services.ConcertParams{Name: "Jazz", TotalSeats: 1})
	require.NoError(t, err)
	assert.Equal(t, 6, created.ID)
}

func TestLoadAll_OrdersEventsByID(t *testing.T) {
	dir := t.TempDir()

	writeLines(t, filepath.Join(dir, flatfile.ConcertsFile),
		"3\tRock\t2025-02-01\tHall\t10\t10\t100\tBand\tRock\t120\t\tConcert",
	)
	writeLines(t, filepath.Join(dir, flatfile.TheatrePlaysFile),
		"1\tHamlet\t2025-02-02\tStage\t10\t10\t80\tDirector\tDrama\t180\t0\t\tTheatre",
		"2\tMacbeth\t2025-02-03\tStage\t10\t10\t80\tDirector\tDrama\t180\t18\t\tTheatre",
	)

	bs := newFileSystem(dir, zap.NewNop())
	require.NoError(t, bs.LoadAll(context.Background()))

	assert.Equal(t, []int{1, 2, 3}, eventIDs(bs.Events()))
}

func TestLoadAll_CancelledTicketsNotLinkedToUsers(t *testing.T) {
	dir := t.TempDir()

	writeLines(t, filepath.Join(dir, flatfile.UsersFile), "1\tAnn\tann@example.com\t")
	writeLines(t, filepath.Join(dir, flatfile.TicketsFile),
		"1\t1\t1\t110\t2025-01-06 12:00:00\tactive",
		"2\t1\t1\t110\t2025-01-06 12:00:00\tcanceled",
	)

	bs := newFileSystem(dir, zap.NewNop())
	require.NoError(t, bs.LoadAll(context.Background()))

	user, _ := bs.FindUserByID(1)
	assert.Equal(t, []int{1}, user.TicketIDs)
	assert.Equal(t, 1, bs.CanceledTicketCount())
}

func TestLoadAll_EmptyDirectory(t *testing.T) {
	bs := newFileSystem(t.TempDir(), zap.NewNop())

	require.NoError(t, bs.LoadAll(context.Background()))

	assert.Empty(t, bs.Events())
	assert.Empty(t, bs.Users())
	assert.Empty(t, bs.Tickets())
}

func TestSaveAll_RewritesEveryStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	bs := newFileSystem(dir, zap.NewNop())
	_, err := bs.CreateConcert(ctx, services.ConcertParams{Name: "Rock", TotalSeats: 1, BasePrice: 10})
	require.NoError(t, err)
	_, err = bs.CreateUser(ctx, "Ann", "", "")
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, flatfile.UsersFile)))
	require.NoError(t, bs.SaveAll(ctx))

	reloaded := newFileSystem(dir, zap.NewNop())
	require.NoError(t, reloaded.LoadAll(ctx))
	assert.Len(t, reloaded.Users(), 1)
	assert.Len(t, reloaded.Events(), 1)
}

// breakEventIndex swaps the mirror index for a directory so every event save
// fails after the variant store has already been written.
func breakEventIndex(t *testing.T, dir string) func() {
	t.Helper()
	index := filepath.Join(dir, flatfile.EventIndexFile)
	require.NoError(t, os.Remove(index))
	require.NoError(t, os.Mkdir(index, 0o755))
	return func() {
		require.NoError(t, os.Remove(index))
	}
}

func assertStoredSeatsMatchTickets(t *testing.T, dir string, eventID int) *services.BookingSystem {
	t.Helper()

	reloaded := newFileSystem(dir, zap.NewNop())
	require.NoError(t, reloaded.LoadAll(context.Background()))

	event, ok := reloaded.FindEventByID(eventID)
	require.True(t, ok)

	active := 0
	for _, tk := range reloaded.TicketsByEvent(eventID) {
		if tk.IsActive {
			active++
		}
	}
	assert.Equal(t, event.TotalSeats, event.AvailableSeats+active)

	return reloaded
}

func TestReserveTicket_FailedEventSaveLeavesStoresConsistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	bs := newFileSystem(dir, zap.NewNop())
	event, err := bs.CreateConcert(ctx, services.ConcertParams{Name: "Rock", TotalSeats: 2, BasePrice: 100})
	require.NoError(t, err)
	user, err := bs.CreateUser(ctx, "Ann", "ann@example.com", "")
	require.NoError(t, err)

	repair := breakEventIndex(t, dir)
	_, err = bs.ReserveTicket(ctx, event.ID, user.ID)
	require.Error(t, err)
	repair()

	stored, _ := bs.FindEventByID(event.ID)
	assert.Equal(t, 2, stored.AvailableSeats)

	reloaded := assertStoredSeatsMatchTickets(t, dir, event.ID)
	reloadedEvent, _ := reloaded.FindEventByID(event.ID)
	assert.Equal(t, 2, reloadedEvent.AvailableSeats)
	assert.Empty(t, reloaded.Tickets())
}

func TestCancelTicket_FailedEventSaveLeavesStoresConsistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	bs := newFileSystem(dir, zap.NewNop())
	event, err := bs.CreateConcert(ctx, services.ConcertParams{Name: "Rock", TotalSeats: 2, BasePrice: 100})
	require.NoError(t, err)
	user, err := bs.CreateUser(ctx, "Ann", "ann@example.com", "")
	require.NoError(t, err)
	ticket, err := bs.ReserveTicket(ctx, event.ID, user.ID)
	require.NoError(t, err)

	repair := breakEventIndex(t, dir)
	ok, err := bs.CancelTicket(ctx, ticket.ID)
	require.Error(t, err)
	assert.False(t, ok)
	repair()

	reloaded := assertStoredSeatsMatchTickets(t, dir, event.ID)
	reloadedEvent, _ := reloaded.FindEventByID(event.ID)
	assert.Equal(t, 1, reloadedEvent.AvailableSeats)

	owner, _ := reloaded.FindUserByID(user.ID)
	assert.Equal(t, []int{ticket.ID}, owner.TicketIDs)
}
