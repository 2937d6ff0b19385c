package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/database"
	"github.com/rahhaltours/admin-backend/internal/models"
)

// BookingLedgerService owns every booking mutation and the trip seat
// counters paired with them. Each counter change and its booking write
// run in one store transaction, and a mutex serializes the ledger's
// own multi-step operations so no two of them interleave between the
// availability check and the write.
type BookingLedgerService struct {
	store  database.Store
	logger *logrus.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewBookingLedgerService creates a new BookingLedgerService.
func NewBookingLedgerService(store database.Store, logger *logrus.Logger) *BookingLedgerService {
	return &BookingLedgerService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CreateBooking books seats on a cataloged trip. The requested seats
// must fit the trip's remaining availability; the split across users
// is floor division in list order with the remainder going to the
// earliest users.
func (s *BookingLedgerService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trip, err := s.getTrip(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.tripBookings(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	available := trip.MaxSeats - CommittedSeatsFor(trip.ID, bookings)
	if req.RequestedSeats > available {
		return nil, &models.CapacityExceededError{
			TripID:    trip.ID,
			Requested: req.RequestedSeats,
			Available: available,
		}
	}

	booking := &models.Booking{
		ID:          uuid.New().String(),
		UserIDs:     req.UserIDs,
		UserSeats:   models.AllocateSeats(req.UserIDs, req.RequestedSeats),
		TripID:      req.TripID,
		SeatsBooked: req.RequestedSeats,
		CustomTrip:  false,
		CreatedAt:   s.now().UTC(),
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx database.Store) error {
		if err := tx.Insert(ctx, database.ColBookings, booking.ID, booking); err != nil {
			return err
		}
		return tx.Update(ctx, database.ColTrips, trip.ID, map[string]interface{}{
			"seatsBooked": trip.SeatsBooked + req.RequestedSeats,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"trip_id":    trip.ID,
		"seats":      req.RequestedSeats,
		"users":      len(req.UserIDs),
	}).Info("Booking created")

	return booking, nil
}

// CreateCustomBooking stores a one-off itinerary for a single user.
// Custom bookings sit outside every capacity pool, so no trip counter
// is touched.
func (s *BookingLedgerService) CreateCustomBooking(ctx context.Context, req *models.CreateCustomBookingRequest) (*models.Booking, error) {
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}

	tripDate := req.TripDate
	booking := &models.Booking{
		ID:                    uuid.New().String(),
		UserIDs:               []string{req.UserID},
		CustomTrip:            true,
		SelectedCityIDs:       req.SelectedCityIDs,
		SelectedPlaceIDs:      req.SelectedPlaceIDs,
		SelectedRestaurantIDs: req.SelectedRestaurantIDs,
		SelectedHospitalIDs:   req.SelectedHospitalIDs,
		SelectedHotelIDs:      req.SelectedHotelIDs,
		TripDate:              &tripDate,
		TripDuration:          req.TripDuration,
		CreatedAt:             s.now().UTC(),
	}

	if err := s.store.Insert(ctx, database.ColBookings, booking.ID, booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    req.UserID,
	}).Info("Custom booking created")

	return booking, nil
}

// EditBooking reshapes a committed booking. Same-trip edits apply the
// seat delta against availability; cross-trip moves return the old
// seats and reserve the new ones, with both counters and the booking
// updated in one transaction.
func (s *BookingLedgerService) EditBooking(ctx context.Context, id string, req *models.EditBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.CustomTrip {
		return nil, models.NewValidationError("id", "custom bookings cannot be edited")
	}

	oldSeats := booking.CommittedSeats()
	patch := map[string]interface{}{
		"userIds":     req.UserIDs,
		"userSeats":   models.AllocateSeats(req.UserIDs, req.RequestedSeats),
		"seatsBooked": req.RequestedSeats,
	}

	if req.TripID == booking.TripID {
		trip, err := s.getTrip(ctx, booking.TripID)
		if err != nil {
			return nil, err
		}
		delta := req.RequestedSeats - oldSeats
		if delta > 0 {
			bookings, err := s.tripBookings(ctx, trip.ID)
			if err != nil {
				return nil, err
			}
			available := trip.MaxSeats - CommittedSeatsFor(trip.ID, bookings)
			if delta > available {
				return nil, &models.CapacityExceededError{
					TripID:    trip.ID,
					Requested: delta,
					Available: available,
				}
			}
		}

		err = s.store.RunInTx(ctx, func(ctx context.Context, tx database.Store) error {
			if err := tx.Update(ctx, database.ColBookings, id, patch); err != nil {
				return err
			}
			return tx.Update(ctx, database.ColTrips, trip.ID, map[string]interface{}{
				"seatsBooked": clampSeats(trip.SeatsBooked+delta, id, s.logger),
			})
		})
		if err != nil {
			return nil, err
		}
	} else {
		oldTrip, err := s.getTrip(ctx, booking.TripID)
		if err != nil {
			return nil, err
		}
		newTrip, err := s.getTrip(ctx, req.TripID)
		if err != nil {
			return nil, err
		}
		newTripBookings, err := s.tripBookings(ctx, newTrip.ID)
		if err != nil {
			return nil, err
		}
		available := newTrip.MaxSeats - CommittedSeatsFor(newTrip.ID, newTripBookings)
		if req.RequestedSeats > available {
			return nil, &models.CapacityExceededError{
				TripID:    newTrip.ID,
				Requested: req.RequestedSeats,
				Available: available,
			}
		}

		patch["tripId"] = req.TripID
		err = s.store.RunInTx(ctx, func(ctx context.Context, tx database.Store) error {
			if err := tx.Update(ctx, database.ColBookings, id, patch); err != nil {
				return err
			}
			if err := tx.Update(ctx, database.ColTrips, oldTrip.ID, map[string]interface{}{
				"seatsBooked": clampSeats(oldTrip.SeatsBooked-oldSeats, id, s.logger),
			}); err != nil {
				return err
			}
			return tx.Update(ctx, database.ColTrips, newTrip.ID, map[string]interface{}{
				"seatsBooked": newTrip.SeatsBooked + req.RequestedSeats,
			})
		})
		if err != nil {
			return nil, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": id,
		"trip_id":    req.TripID,
		"seats":      req.RequestedSeats,
	}).Info("Booking edited")

	return s.GetBooking(ctx, id)
}

// DeleteBooking removes a booking. Non-custom bookings return their
// committed seats to the trip counter, clamped at zero.
func (s *BookingLedgerService) DeleteBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	return s.deleteLocked(ctx, booking)
}

// deleteLocked removes a fetched booking. Callers hold the ledger
// mutex.
func (s *BookingLedgerService) deleteLocked(ctx context.Context, booking *models.Booking) error {
	if booking.CustomTrip {
		return s.store.Delete(ctx, database.ColBookings, booking.ID)
	}

	trip, err := s.getTrip(ctx, booking.TripID)
	if err != nil {
		if models.IsNotFound(err) {
			s.logger.WithFields(logrus.Fields{
				"booking_id": booking.ID,
				"trip_id":    booking.TripID,
			}).Warn("Deleting booking whose trip no longer exists")
			return s.store.Delete(ctx, database.ColBookings, booking.ID)
		}
		return err
	}

	seats := booking.CommittedSeats()
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx database.Store) error {
		if err := tx.Delete(ctx, database.ColBookings, booking.ID); err != nil {
			return err
		}
		return tx.Update(ctx, database.ColTrips, trip.ID, map[string]interface{}{
			"seatsBooked": clampSeats(trip.SeatsBooked-seats, booking.ID, s.logger),
		})
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"trip_id":    trip.ID,
		"seats":      seats,
	}).Info("Booking deleted")

	return nil
}

// ListBookedUsers returns per-user seat totals across every booking of
// a trip, joined with the users' display data. Bookings without a
// stored breakdown fall back to an even split of their committed
// seats.
func (s *BookingLedgerService) ListBookedUsers(ctx context.Context, tripID string) ([]models.BookedUser, error) {
	if _, err := s.getTrip(ctx, tripID); err != nil {
		return nil, err
	}
	bookings, err := s.tripBookings(ctx, tripID)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0)
	totals := make(map[string]int)
	for _, b := range bookings {
		if b.CustomTrip {
			continue
		}
		for _, us := range b.SeatBreakdown() {
			if _, seen := totals[us.UserID]; !seen {
				order = append(order, us.UserID)
			}
			totals[us.UserID] += us.Seats
		}
	}

	out := make([]models.BookedUser, 0, len(order))
	for _, userID := range order {
		entry := models.BookedUser{UserID: userID, Seats: totals[userID]}
		record, err := s.store.Get(ctx, database.ColUsers, userID)
		if err == nil {
			var user models.User
			if decErr := record.Decode(&user); decErr == nil {
				entry.Name = user.Name
				entry.Email = user.Email
			}
		} else if !models.IsNotFound(err) {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// PurgeResult summarizes a user purge.
type PurgeResult struct {
	Deleted  int `json:"deleted"`
	Detached int `json:"detached"`
}

// PurgeUserBookings removes a user from every booking they appear in.
// Sole-participant bookings are deleted with their seats released.
// Multi-participant bookings only drop the user from the participant
// list and breakdown; the seat total and trip counter are left as
// they are, matching the legacy dashboard. That leaves the remaining
// participants holding the departed user's seats.
func (s *BookingLedgerService) PurgeUserBookings(ctx context.Context, userID string) (*PurgeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	result := &PurgeResult{}
	for _, booking := range bookings {
		if !containsString(booking.UserIDs, userID) {
			continue
		}

		if len(booking.UserIDs) == 1 {
			if err := s.deleteLocked(ctx, booking); err != nil {
				return result, err
			}
			result.Deleted++
			continue
		}

		patch := map[string]interface{}{
			"userIds": removeString(booking.UserIDs, userID),
		}
		if len(booking.UserSeats) > 0 {
			kept := make([]models.UserSeat, 0, len(booking.UserSeats))
			for _, us := range booking.UserSeats {
				if us.UserID != userID {
					kept = append(kept, us)
				}
			}
			patch["userSeats"] = kept
		}
		if err := s.store.Update(ctx, database.ColBookings, booking.ID, patch); err != nil {
			return result, err
		}
		result.Detached++

		s.logger.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"user_id":    userID,
		}).Warn("User detached from shared booking; seat total left unchanged")
	}

	return result, nil
}

// ListBookingsForTrip fetches the bookings referencing one trip.
func (s *BookingLedgerService) ListBookingsForTrip(ctx context.Context, tripID string) ([]*models.Booking, error) {
	if _, err := s.getTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return s.tripBookings(ctx, tripID)
}

// GetBooking fetches one booking by id.
func (s *BookingLedgerService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	record, err := s.store.Get(ctx, database.ColBookings, id)
	if err != nil {
		return nil, err
	}
	var booking models.Booking
	if err := record.Decode(&booking); err != nil {
		return nil, &models.InvariantViolationError{Reason: "booking record " + id + " is not decodable"}
	}
	return &booking, nil
}

// ListBookings fetches all bookings.
func (s *BookingLedgerService) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	records, err := s.store.List(ctx, database.ColBookings)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Booking](records)
}

func (s *BookingLedgerService) getTrip(ctx context.Context, id string) (*models.Trip, error) {
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

func (s *BookingLedgerService) tripBookings(ctx context.Context, tripID string) ([]*models.Booking, error) {
	records, err := s.store.QueryEq(ctx, database.ColBookings, "tripId", tripID)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Booking](records)
}

// clampSeats floors a counter at zero. A negative result means the
// counter had drifted below the booking sum, usually legacy data.
func clampSeats(value int, bookingID string, logger *logrus.Logger) int {
	if value < 0 {
		logger.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"computed":   value,
		}).Warn("Seat counter would go negative, clamping to zero")
		return 0
	}
	return value
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

func removeString(list []string, target string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != target {
			out = append(out, item)
		}
	}
	return out
}
