package services

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/database"
	"github.com/rahhaltours/admin-backend/internal/models"
)

// ReportingService computes the dashboard aggregates. Every report is
// a pure read over one snapshot; nothing is cached between calls.
type ReportingService struct {
	store    database.Store
	logger   *logrus.Logger
	location *time.Location
	now      func() time.Time
}

// NewReportingService creates a new ReportingService. The location
// fixes which calendar day counts as "today" in the summary.
func NewReportingService(store database.Store, logger *logrus.Logger, location *time.Location) *ReportingService {
	return &ReportingService{
		store:    store,
		logger:   logger,
		location: location,
		now:      time.Now,
	}
}

// DashboardSummary returns the home-screen counters and the five most
// recent trips by date.
func (s *ReportingService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	userRecords, err := s.store.List(ctx, database.ColUsers)
	if err != nil {
		return nil, err
	}
	tripRecords, err := s.store.List(ctx, database.ColTrips)
	if err != nil {
		return nil, err
	}
	trips, err := decodeAll[models.Trip](tripRecords)
	if err != nil {
		return nil, err
	}
	bookingRecords, err := s.store.List(ctx, database.ColBookings)
	if err != nil {
		return nil, err
	}
	bookings, err := decodeAll[models.Booking](bookingRecords)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	summary := &models.DashboardSummary{
		UserCount:    len(userRecords),
		TripCount:    len(trips),
		BookingCount: len(bookings),
	}
	for _, b := range bookings {
		if b.CustomTrip {
			summary.CustomBookingCount++
		}
	}
	for _, trip := range trips {
		if trip.IsToday(now) {
			summary.TodayTripCount++
		}
	}

	recent := make([]*models.Trip, len(trips))
	copy(recent, trips)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].TripDate.After(recent[j].TripDate)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	summary.RecentTrips = recent

	return summary, nil
}

// CityActivity aggregates trips and bookings by their main city. Trips
// cover cataloged trips plus custom itineraries; bookings resolve a
// cataloged booking to its trip's main city and a custom booking to
// its own. Ties for most active go to the city encountered first.
func (s *ReportingService) CityActivity(ctx context.Context) (*models.CityActivity, error) {
	cityRecords, err := s.store.List(ctx, database.ColCities)
	if err != nil {
		return nil, err
	}
	cities, err := decodeAll[models.City](cityRecords)
	if err != nil {
		return nil, err
	}
	cityNames := make(map[string]string, len(cities))
	for _, city := range cities {
		cityNames[city.ID] = city.Name
	}

	tripRecords, err := s.store.List(ctx, database.ColTrips)
	if err != nil {
		return nil, err
	}
	trips, err := decodeAll[models.Trip](tripRecords)
	if err != nil {
		return nil, err
	}
	tripByID := make(map[string]*models.Trip, len(trips))
	for _, trip := range trips {
		tripByID[trip.ID] = trip
	}

	bookingRecords, err := s.store.List(ctx, database.ColBookings)
	if err != nil {
		return nil, err
	}
	bookings, err := decodeAll[models.Booking](bookingRecords)
	if err != nil {
		return nil, err
	}

	tripTally := newCityTally(cityNames)
	for _, trip := range trips {
		tripTally.add(trip.MainCityID())
	}
	for _, b := range bookings {
		if b.CustomTrip {
			tripTally.add(firstOrEmpty(b.SelectedCityIDs))
		}
	}

	bookingTally := newCityTally(cityNames)
	for _, b := range bookings {
		if b.CustomTrip {
			bookingTally.add(firstOrEmpty(b.SelectedCityIDs))
			continue
		}
		if trip, ok := tripByID[b.TripID]; ok {
			bookingTally.add(trip.MainCityID())
		}
	}

	return &models.CityActivity{
		TripsByCity:          tripTally.counts,
		BookingsByCity:       bookingTally.counts,
		MostActiveTripCity:   tripTally.mostActive(),
		MostActiveBookedCity: bookingTally.mostActive(),
	}, nil
}

// cityTally accumulates per-city counts preserving first-encounter
// order, so ties resolve the same way within one snapshot.
type cityTally struct {
	names  map[string]string
	index  map[string]int
	counts []models.CityCount
}

func newCityTally(names map[string]string) *cityTally {
	return &cityTally{
		names:  names,
		index:  make(map[string]int),
		counts: make([]models.CityCount, 0),
	}
}

func (t *cityTally) add(cityID string) {
	if cityID == "" {
		return
	}
	if i, ok := t.index[cityID]; ok {
		t.counts[i].Count++
		return
	}
	t.index[cityID] = len(t.counts)
	t.counts = append(t.counts, models.CityCount{
		CityID:   cityID,
		CityName: t.names[cityID],
		Count:    1,
	})
}

func (t *cityTally) mostActive() *models.CityCount {
	var best *models.CityCount
	for i := range t.counts {
		if best == nil || t.counts[i].Count > best.Count {
			best = &t.counts[i]
		}
	}
	if best == nil {
		return nil
	}
	cp := *best
	return &cp
}

func firstOrEmpty(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
