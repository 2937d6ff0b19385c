package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahhaltours/admin-backend/internal/database"
	"github.com/rahhaltours/admin-backend/internal/models"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func seedTrip(store *memStore, id string, maxSeats, seatsBooked int) {
	store.put(database.ColTrips, id, &models.Trip{
		ID:              id,
		SelectedCityIDs: []string{"city-1"},
		TripDate:        time.Now().AddDate(0, 0, 7),
		TripDuration:    3,
		MaxSeats:        maxSeats,
		SeatsBooked:     seatsBooked,
	})
}

func storedTrip(t *testing.T, store *memStore, id string) *models.Trip {
	t.Helper()
	record, err := store.Get(context.Background(), database.ColTrips, id)
	require.NoError(t, err)
	var trip models.Trip
	require.NoError(t, record.Decode(&trip))
	return &trip
}

func storedBooking(t *testing.T, store *memStore, id string) *models.Booking {
	t.Helper()
	record, err := store.Get(context.Background(), database.ColBookings, id)
	require.NoError(t, err)
	var booking models.Booking
	require.NoError(t, record.Decode(&booking))
	return &booking
}

// committedSum recomputes the booking-side seat total for a trip, the
// source of truth the counter must track.
func committedSum(t *testing.T, store *memStore, tripID string) int {
	t.Helper()
	records, err := store.QueryEq(context.Background(), database.ColBookings, "tripId", tripID)
	require.NoError(t, err)
	bookings, err := decodeAll[models.Booking](records)
	require.NoError(t, err)
	return CommittedSeatsFor(tripID, bookings)
}

func TestCreateBookingCapacity(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejects Over Capacity", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingLedgerService(store, newTestLogger())
		seedTrip(store, "trip-1", 10, 0)
		_, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-1", RequestedSeats: 8,
		})
		require.NoError(t, err)

		_, err = svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u2"}, TripID: "trip-1", RequestedSeats: 3,
		})
		require.Error(t, err)
		var capErr *models.CapacityExceededError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, 3, capErr.Requested)
		assert.Equal(t, 2, capErr.Available)
	})

	t.Run("Accepts At Boundary", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingLedgerService(store, newTestLogger())
		seedTrip(store, "trip-1", 10, 0)
		_, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-1", RequestedSeats: 8,
		})
		require.NoError(t, err)

		booking, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u2"}, TripID: "trip-1", RequestedSeats: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, booking.SeatsBooked)

		trip := storedTrip(t, store, "trip-1")
		assert.Equal(t, 10, trip.SeatsBooked)
		assert.Equal(t, committedSum(t, store, "trip-1"), trip.SeatsBooked)
	})

	t.Run("Missing Trip", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingLedgerService(store, newTestLogger())
		_, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u1"}, TripID: "ghost", RequestedSeats: 1,
		})
		assert.True(t, models.IsNotFound(err))
	})
}

func TestCreateBookingSeatSplit(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewBookingLedgerService(store, newTestLogger())
	seedTrip(store, "trip-1", 10, 0)

	booking, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
		UserIDs:        []string{"alice", "bob", "cara"},
		TripID:         "trip-1",
		RequestedSeats: 5,
	})
	require.NoError(t, err)

	require.Len(t, booking.UserSeats, 3)
	assert.Equal(t, models.UserSeat{UserID: "alice", Seats: 2}, booking.UserSeats[0])
	assert.Equal(t, models.UserSeat{UserID: "bob", Seats: 2}, booking.UserSeats[1])
	assert.Equal(t, models.UserSeat{UserID: "cara", Seats: 1}, booking.UserSeats[2])
}

func TestCreateDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewBookingLedgerService(store, newTestLogger())
	seedTrip(store, "trip-1", 10, 4)

	booking, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
		UserIDs: []string{"u1", "u2"}, TripID: "trip-1", RequestedSeats: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, storedTrip(t, store, "trip-1").SeatsBooked)

	require.NoError(t, svc.DeleteBooking(ctx, booking.ID))
	assert.Equal(t, 4, storedTrip(t, store, "trip-1").SeatsBooked)

	_, err = svc.GetBooking(ctx, booking.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestDeleteBookingClampsAtZero(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewBookingLedgerService(store, newTestLogger())

	// Drifted legacy counter: the trip says 1 while the booking holds 3.
	seedTrip(store, "trip-1", 10, 1)
	store.put(database.ColBookings, "b1", &models.Booking{
		ID: "b1", UserIDs: []string{"u1"}, TripID: "trip-1", SeatsBooked: 3,
	})

	require.NoError(t, svc.DeleteBooking(ctx, "b1"))
	assert.Equal(t, 0, storedTrip(t, store, "trip-1").SeatsBooked)
}

func TestDeleteBookingInfersLegacySeats(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewBookingLedgerService(store, newTestLogger())

	// Legacy record without an explicit seat count: one seat per user.
	seedTrip(store, "trip-1", 10, 5)
	store.put(database.ColBookings, "b1", &models.Booking{
		ID: "b1", UserIDs: []string{"u1", "u2"}, TripID: "trip-1",
	})

	require.NoError(t, svc.DeleteBooking(ctx, "b1"))
	assert.Equal(t, 3, storedTrip(t, store, "trip-1").SeatsBooked)
}

func TestEditBookingSameTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies Positive Delta", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingLedgerService(store, newTestLogger())
		seedTrip(store, "trip-1", 10, 0)
		booking, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-1", RequestedSeats: 3,
		})
		require.NoError(t, err)

		updated, err := svc.EditBooking(ctx, booking.ID, &models.EditBookingRequest{
			UserIDs: []string{"u1", "u2"}, TripID: "trip-1", RequestedSeats: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.SeatsBooked)
		assert.Equal(t, 5, storedTrip(t, store, "trip-1").SeatsBooked)
	})

	t.Run("Rejects Delta Over Capacity", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingLedgerService(store, newTestLogger())
		seedTrip(store, "trip-1", 10, 0)
		booking, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-1", RequestedSeats: 8,
		})
		require.NoError(t, err)

		_, err = svc.EditBooking(ctx, booking.ID, &models.EditBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-1", RequestedSeats: 12,
		})
		var capErr *models.CapacityExceededError
		require.ErrorAs(t, err, &capErr)

		assert.Equal(t, 8, storedTrip(t, store, "trip-1").SeatsBooked)
		assert.Equal(t, 8, storedBooking(t, store, booking.ID).SeatsBooked)
	})

	t.Run("Applies Negative Delta", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingLedgerService(store, newTestLogger())
		seedTrip(store, "trip-1", 10, 0)
		booking, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-1", RequestedSeats: 6,
		})
		require.NoError(t, err)

		_, err = svc.EditBooking(ctx, booking.ID, &models.EditBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-1", RequestedSeats: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, storedTrip(t, store, "trip-1").SeatsBooked)
	})
}

func TestEditBookingCrossTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("Moves Seats Between Trips", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingLedgerService(store, newTestLogger())
		seedTrip(store, "trip-a", 10, 0)
		seedTrip(store, "trip-b", 10, 0)
		booking, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-a", RequestedSeats: 3,
		})
		require.NoError(t, err)

		updated, err := svc.EditBooking(ctx, booking.ID, &models.EditBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-b", RequestedSeats: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, "trip-b", updated.TripID)
		assert.Equal(t, 0, storedTrip(t, store, "trip-a").SeatsBooked)
		assert.Equal(t, 3, storedTrip(t, store, "trip-b").SeatsBooked)
	})

	t.Run("Rejects When Target Is Full", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingLedgerService(store, newTestLogger())
		seedTrip(store, "trip-a", 10, 0)
		seedTrip(store, "trip-b", 2, 0)
		booking, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-a", RequestedSeats: 3,
		})
		require.NoError(t, err)

		_, err = svc.EditBooking(ctx, booking.ID, &models.EditBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-b", RequestedSeats: 3,
		})
		var capErr *models.CapacityExceededError
		require.ErrorAs(t, err, &capErr)

		assert.Equal(t, 3, storedTrip(t, store, "trip-a").SeatsBooked)
		assert.Equal(t, 0, storedTrip(t, store, "trip-b").SeatsBooked)
		assert.Equal(t, "trip-a", storedBooking(t, store, booking.ID).TripID)
	})

	t.Run("Write Failure Leaves Both Counters Untouched", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingLedgerService(store, newTestLogger())
		seedTrip(store, "trip-a", 10, 0)
		seedTrip(store, "trip-b", 10, 0)
		booking, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-a", RequestedSeats: 3,
		})
		require.NoError(t, err)

		store.failOn = func(op, collection, id string) error {
			if op == "update" && collection == database.ColTrips && id == "trip-b" {
				return &models.TransientStoreError{Op: "update trips", Err: fmt.Errorf("connection lost")}
			}
			return nil
		}
		_, err = svc.EditBooking(ctx, booking.ID, &models.EditBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-b", RequestedSeats: 3,
		})
		require.Error(t, err)
		store.failOn = nil

		assert.Equal(t, 3, storedTrip(t, store, "trip-a").SeatsBooked)
		assert.Equal(t, 0, storedTrip(t, store, "trip-b").SeatsBooked)
		assert.Equal(t, "trip-a", storedBooking(t, store, booking.ID).TripID)
	})
}

func TestCreateCustomBooking(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewBookingLedgerService(store, newTestLogger())

	booking, err := svc.CreateCustomBooking(ctx, &models.CreateCustomBookingRequest{
		UserID:          "u1",
		SelectedCityIDs: []string{"city-1"},
		TripDate:        time.Now().AddDate(0, 0, 10),
		TripDuration:    4,
	})
	require.NoError(t, err)
	assert.True(t, booking.CustomTrip)
	assert.Equal(t, []string{"u1"}, booking.UserIDs)
	assert.Empty(t, booking.TripID)

	t.Run("Rejects Past Date", func(t *testing.T) {
		_, err := svc.CreateCustomBooking(ctx, &models.CreateCustomBookingRequest{
			UserID:          "u1",
			SelectedCityIDs: []string{"city-1"},
			TripDate:        time.Now().AddDate(0, 0, -1),
			TripDuration:    2,
		})
		assert.True(t, models.IsValidation(err))
	})
}

func TestListBookedUsers(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewBookingLedgerService(store, newTestLogger())
	seedTrip(store, "trip-1", 20, 0)
	store.put(database.ColUsers, "u1", &models.User{ID: "u1", Name: "Alice", Email: "alice@example.com"})
	store.put(database.ColUsers, "u2", &models.User{ID: "u2", Name: "Bob", Email: "bob@example.com"})

	_, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
		UserIDs: []string{"u1", "u2"}, TripID: "trip-1", RequestedSeats: 5,
	})
	require.NoError(t, err)

	// Legacy record without a stored breakdown falls back to an even
	// split of its inferred seats.
	store.put(database.ColBookings, "legacy", &models.Booking{
		ID: "legacy", UserIDs: []string{"u1"}, TripID: "trip-1",
	})

	users, err := svc.ListBookedUsers(ctx, "trip-1")
	require.NoError(t, err)
	require.Len(t, users, 2)

	byID := make(map[string]models.BookedUser)
	for _, u := range users {
		byID[u.UserID] = u
	}
	assert.Equal(t, 4, byID["u1"].Seats) // 3 from the split + 1 inferred
	assert.Equal(t, "Alice", byID["u1"].Name)
	assert.Equal(t, 2, byID["u2"].Seats)
	assert.Equal(t, "bob@example.com", byID["u2"].Email)
}

func TestPurgeUserBookings(t *testing.T) {
	ctx := context.Background()

	t.Run("Sole Participant Releases Seats", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingLedgerService(store, newTestLogger())
		seedTrip(store, "trip-1", 10, 0)
		booking, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u1"}, TripID: "trip-1", RequestedSeats: 4,
		})
		require.NoError(t, err)

		result, err := svc.PurgeUserBookings(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Deleted)
		assert.Equal(t, 0, result.Detached)
		assert.Equal(t, 0, storedTrip(t, store, "trip-1").SeatsBooked)

		_, err = svc.GetBooking(ctx, booking.ID)
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("Shared Booking Keeps Seat Total", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingLedgerService(store, newTestLogger())
		seedTrip(store, "trip-1", 10, 0)
		booking, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
			UserIDs: []string{"u1", "u2"}, TripID: "trip-1", RequestedSeats: 5,
		})
		require.NoError(t, err)

		result, err := svc.PurgeUserBookings(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, result.Deleted)
		assert.Equal(t, 1, result.Detached)

		// Seat total and counter stay where they were even though the
		// departed user held seats; the remaining participant now
		// carries them.
		remaining := storedBooking(t, store, booking.ID)
		assert.Equal(t, []string{"u2"}, remaining.UserIDs)
		assert.Equal(t, 5, remaining.SeatsBooked)
		require.Len(t, remaining.UserSeats, 1)
		assert.Equal(t, "u2", remaining.UserSeats[0].UserID)
		assert.Equal(t, 5, storedTrip(t, store, "trip-1").SeatsBooked)
	})
}

func TestCounterTracksBookingSum(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewBookingLedgerService(store, newTestLogger())
	seedTrip(store, "trip-1", 30, 0)
	seedTrip(store, "trip-2", 30, 0)

	b1, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
		UserIDs: []string{"u1", "u2"}, TripID: "trip-1", RequestedSeats: 7,
	})
	require.NoError(t, err)
	b2, err := svc.CreateBooking(ctx, &models.CreateBookingRequest{
		UserIDs: []string{"u3"}, TripID: "trip-1", RequestedSeats: 4,
	})
	require.NoError(t, err)

	_, err = svc.EditBooking(ctx, b1.ID, &models.EditBookingRequest{
		UserIDs: []string{"u1", "u2"}, TripID: "trip-2", RequestedSeats: 6,
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteBooking(ctx, b2.ID))

	for _, tripID := range []string{"trip-1", "trip-2"} {
		trip := storedTrip(t, store, tripID)
		sum := committedSum(t, store, tripID)
		assert.Equal(t, sum, trip.SeatsBooked, "counter must equal booking sum for %s", tripID)
		assert.GreaterOrEqual(t, trip.SeatsBooked, 0)
		assert.LessOrEqual(t, trip.SeatsBooked, trip.MaxSeats)
	}
}
