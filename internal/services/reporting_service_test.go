package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahhaltours/admin-backend/internal/database"
	"github.com/rahhaltours/admin-backend/internal/models"
)

func seedReportingFixture(store *memStore, now time.Time) {
	store.put(database.ColUsers, "u1", &models.User{ID: "u1", Name: "Alice"})
	store.put(database.ColUsers, "u2", &models.User{ID: "u2", Name: "Bob"})
	store.put(database.ColUsers, "u3", &models.User{ID: "u3", Name: "Cara"})

	store.put(database.ColCities, "c1", &models.City{ID: "c1", Name: "Marrakesh"})
	store.put(database.ColCities, "c2", &models.City{ID: "c2", Name: "Fes"})

	store.put(database.ColTrips, "t1", &models.Trip{
		ID: "t1", SelectedCityIDs: []string{"c1", "c2"}, TripDate: now, MaxSeats: 10,
	})
	store.put(database.ColTrips, "t2", &models.Trip{
		ID: "t2", SelectedCityIDs: []string{"c2"}, TripDate: now.AddDate(0, 0, 3), MaxSeats: 10,
	})
	store.put(database.ColTrips, "t3", &models.Trip{
		ID: "t3", SelectedCityIDs: []string{"c1"}, TripDate: now.AddDate(0, 0, -3), MaxSeats: 10,
	})

	store.put(database.ColBookings, "b1", &models.Booking{
		ID: "b1", UserIDs: []string{"u1"}, TripID: "t1", SeatsBooked: 2,
	})
	store.put(database.ColBookings, "b2", &models.Booking{
		ID: "b2", UserIDs: []string{"u2"}, TripID: "t2", SeatsBooked: 1,
	})
	custom := now.AddDate(0, 0, 5)
	store.put(database.ColBookings, "b3", &models.Booking{
		ID: "b3", UserIDs: []string{"u3"}, CustomTrip: true,
		SelectedCityIDs: []string{"c2"}, TripDate: &custom, TripDuration: 2,
	})
}

func TestDashboardSummary(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	seedReportingFixture(store, now)
	svc := NewReportingService(store, newTestLogger(), time.UTC)

	summary, err := svc.DashboardSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.UserCount)
	assert.Equal(t, 3, summary.TripCount)
	assert.Equal(t, 3, summary.BookingCount)
	assert.Equal(t, 1, summary.CustomBookingCount)
	assert.Equal(t, 1, summary.TodayTripCount)

	require.Len(t, summary.RecentTrips, 3)
	assert.Equal(t, "t2", summary.RecentTrips[0].ID)
	assert.Equal(t, "t1", summary.RecentTrips[1].ID)
	assert.Equal(t, "t3", summary.RecentTrips[2].ID)
}

func TestDashboardSummaryCapsRecentTrips(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		store.put(database.ColTrips, id, &models.Trip{
			ID: id, SelectedCityIDs: []string{"c1"},
			TripDate: now.AddDate(0, 0, i), MaxSeats: 5,
		})
	}
	svc := NewReportingService(store, newTestLogger(), time.UTC)

	summary, err := svc.DashboardSummary(context.Background())
	require.NoError(t, err)
	assert.Len(t, summary.RecentTrips, 5)
	assert.Equal(t, "h", summary.RecentTrips[0].ID)
}

func TestCityActivity(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	seedReportingFixture(store, now)
	svc := NewReportingService(store, newTestLogger(), time.UTC)

	activity, err := svc.CityActivity(context.Background())
	require.NoError(t, err)

	tripCounts := make(map[string]int)
	for _, c := range activity.TripsByCity {
		tripCounts[c.CityID] = c.Count
	}
	// t1 and t3 lead with c1; t2 leads with c2; the custom booking b3
	// counts as a trip for c2.
	assert.Equal(t, 2, tripCounts["c1"])
	assert.Equal(t, 2, tripCounts["c2"])

	bookingCounts := make(map[string]int)
	for _, c := range activity.BookingsByCity {
		bookingCounts[c.CityID] = c.Count
	}
	// b1 maps to t1's main city c1, b2 to c2, b3 to its own c2.
	assert.Equal(t, 1, bookingCounts["c1"])
	assert.Equal(t, 2, bookingCounts["c2"])

	require.NotNil(t, activity.MostActiveBookedCity)
	assert.Equal(t, "c2", activity.MostActiveBookedCity.CityID)
	assert.Equal(t, "Fes", activity.MostActiveBookedCity.CityName)

	require.NotNil(t, activity.MostActiveTripCity)
	assert.Equal(t, 2, activity.MostActiveTripCity.Count)
}

func TestCityActivityEmptySnapshot(t *testing.T) {
	svc := NewReportingService(newMemStore(), newTestLogger(), time.UTC)

	activity, err := svc.CityActivity(context.Background())
	require.NoError(t, err)
	assert.Empty(t, activity.TripsByCity)
	assert.Empty(t, activity.BookingsByCity)
	assert.Nil(t, activity.MostActiveTripCity)
	assert.Nil(t, activity.MostActiveBookedCity)
}
