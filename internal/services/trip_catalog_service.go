package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/database"
	"github.com/rahhaltours/admin-backend/internal/models"
)

// TripCatalogService manages cataloged trips and their seat capacity.
type TripCatalogService struct {
	store        database.Store
	logger       *logrus.Logger
	rejectShrink bool
	now          func() time.Time
}

// NewTripCatalogService creates a new TripCatalogService.
func NewTripCatalogService(store database.Store, logger *logrus.Logger, rejectShrink bool) *TripCatalogService {
	return &TripCatalogService{
		store:        store,
		logger:       logger,
		rejectShrink: rejectShrink,
		now:          time.Now,
	}
}

// CreateTrip validates and stores a new trip with an empty seat
// counter.
func (s *TripCatalogService) CreateTrip(ctx context.Context, req *models.CreateTripRequest) (*models.Trip, error) {
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}

	trip := &models.Trip{
		ID:                    uuid.New().String(),
		SelectedCityIDs:       req.SelectedCityIDs,
		SelectedPlaceIDs:      req.SelectedPlaceIDs,
		SelectedRestaurantIDs: req.SelectedRestaurantIDs,
		SelectedHospitalIDs:   req.SelectedHospitalIDs,
		SelectedHotelIDs:      req.SelectedHotelIDs,
		TripDate:              req.TripDate,
		TripDuration:          req.TripDuration,
		MaxSeats:              req.MaxSeats,
		SeatsBooked:           0,
		CreatedAt:             s.now().UTC(),
	}

	if err := s.store.Insert(ctx, database.ColTrips, trip.ID, trip); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":   trip.ID,
		"trip_date": trip.TripDate.Format("2006-01-02"),
		"max_seats": trip.MaxSeats,
	}).Info("Trip created")

	return trip, nil
}

// UpdateTrip applies a partial update to a trip. Shrinking maxSeats
// below the committed seat counter is either rejected or tolerated
// with a warning, depending on the capacity-shrink policy.
func (s *TripCatalogService) UpdateTrip(ctx context.Context, id string, req *models.UpdateTripRequest) (*models.Trip, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	trip, err := s.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.MaxSeats != nil && *req.MaxSeats < trip.SeatsBooked {
		if s.rejectShrink {
			return nil, models.NewValidationError("maxSeats",
				"cannot shrink below the seats already booked")
		}
		s.logger.WithFields(logrus.Fields{
			"trip_id":      id,
			"max_seats":    *req.MaxSeats,
			"seats_booked": trip.SeatsBooked,
		}).Warn("Trip capacity shrunk below booked seats")
	}

	patch := map[string]interface{}{}
	if req.SelectedCityIDs != nil {
		patch["selectedCityIds"] = req.SelectedCityIDs
	}
	if req.SelectedPlaceIDs != nil {
		patch["selectedPlaceIds"] = req.SelectedPlaceIDs
	}
	if req.SelectedRestaurantIDs != nil {
		patch["selectedRestaurantIds"] = req.SelectedRestaurantIDs
	}
	if req.SelectedHospitalIDs != nil {
		patch["selectedHospitalIds"] = req.SelectedHospitalIDs
	}
	if req.SelectedHotelIDs != nil {
		patch["selectedHotelIds"] = req.SelectedHotelIDs
	}
	if req.TripDate != nil {
		patch["tripDate"] = *req.TripDate
	}
	if req.TripDuration != nil {
		patch["tripDuration"] = *req.TripDuration
	}
	if req.MaxSeats != nil {
		patch["maxSeats"] = *req.MaxSeats
	}
	if len(patch) == 0 {
		return trip, nil
	}

	if err := s.store.Update(ctx, database.ColTrips, id, patch); err != nil {
		return nil, err
	}

	return s.GetTrip(ctx, id)
}

// GetTrip fetches one trip by id.
func (s *TripCatalogService) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	record, err := s.store.Get(ctx, database.ColTrips, id)
	if err != nil {
		return nil, err
	}
	var trip models.Trip
	if err := record.Decode(&trip); err != nil {
		return nil, &models.InvariantViolationError{Reason: "trip record " + id + " is not decodable"}
	}
	return &trip, nil
}

// ListTrips fetches all cataloged trips.
func (s *TripCatalogService) ListTrips(ctx context.Context) ([]*models.Trip, error) {
	records, err := s.store.List(ctx, database.ColTrips)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Trip](records)
}

// AvailableSeats computes maxSeats minus the seats committed by every
// non-custom booking in the snapshot that references the trip. The
// caller supplies the booking snapshot so one fetch serves a whole
// availability check.
func (s *TripCatalogService) AvailableSeats(trip *models.Trip, bookings []*models.Booking) int {
	return trip.MaxSeats - CommittedSeatsFor(trip.ID, bookings)
}

// CommittedSeatsFor sums the seat accounting of the non-custom
// bookings referencing the trip.
func CommittedSeatsFor(tripID string, bookings []*models.Booking) int {
	committed := 0
	for _, b := range bookings {
		if b.CustomTrip || b.TripID != tripID {
			continue
		}
		committed += b.CommittedSeats()
	}
	return committed
}

// DeleteTrip removes a trip and every booking referencing it in one
// transaction.
func (s *TripCatalogService) DeleteTrip(ctx context.Context, id string) error {
	if _, err := s.GetTrip(ctx, id); err != nil {
		return err
	}

	var removedBookings int
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx database.Store) error {
		records, err := tx.QueryEq(ctx, database.ColBookings, "tripId", id)
		if err != nil {
			return err
		}
		for _, record := range records {
			if err := tx.Delete(ctx, database.ColBookings, record.ID); err != nil {
				return err
			}
		}
		removedBookings = len(records)
		return tx.Delete(ctx, database.ColTrips, id)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":          id,
		"removed_bookings": removedBookings,
	}).Info("Trip deleted with its bookings")

	return nil
}

// ExpireTrips removes every trip whose date has passed, cascading to
// the trips' bookings the same way DeleteTrip does. Returns the number
// of trips removed.
func (s *TripCatalogService) ExpireTrips(ctx context.Context, now time.Time) (int, error) {
	trips, err := s.ListTrips(ctx)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, trip := range trips {
		if !trip.IsPast(now) {
			continue
		}
		if err := s.DeleteTrip(ctx, trip.ID); err != nil {
			if models.IsNotFound(err) {
				continue
			}
			return expired, err
		}
		expired++
	}

	if expired > 0 {
		s.logger.WithField("expired", expired).Info("Expired past trips")
	}
	return expired, nil
}
