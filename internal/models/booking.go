package models

import (
	"time"
)

// UserSeat is one entry of a booking's per-user seat breakdown.
type UserSeat struct {
	UserID string `json:"userId"`
	Seats  int    `json:"seats"`
}

// Booking links users to either a cataloged trip (with a seat count
// and an optional per-user breakdown) or a self-contained custom
// itinerary, distinguished by the CustomTrip tag. Field names match
// the legacy persisted documents.
type Booking struct {
	ID          string     `json:"id"`
	UserIDs     []string   `json:"userIds"`
	UserSeats   []UserSeat `json:"userSeats,omitempty"`
	TripID      string     `json:"tripId,omitempty"`
	SeatsBooked int        `json:"seatsBooked,omitempty"`
	CustomTrip  bool       `json:"customTrip"`

	// Custom-trip itinerary, unused for cataloged bookings.
	SelectedCityIDs       []string   `json:"selectedCityIds,omitempty"`
	SelectedPlaceIDs      []string   `json:"selectedPlaceIds,omitempty"`
	SelectedRestaurantIDs []string   `json:"selectedRestaurantIds,omitempty"`
	SelectedHospitalIDs   []string   `json:"selectedHospitalIds,omitempty"`
	SelectedHotelIDs      []string   `json:"selectedHotelIds,omitempty"`
	TripDate              *time.Time `json:"tripDate,omitempty"`
	TripDuration          int        `json:"tripDuration,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// SeatAccounting resolves how many seats a booking commits against its
// trip. Legacy records predate the explicit seat count and fall back
// to one seat per participant; the Inferred flag records which variant
// applied so callers resolve the rule exactly once.
type SeatAccounting struct {
	Seats    int
	Inferred bool
}

// SeatAccounting returns the booking's committed seat count, explicit
// when seatsBooked is stored, inferred from the participant count for
// legacy records.
func (b *Booking) SeatAccounting() SeatAccounting {
	if b.SeatsBooked > 0 {
		return SeatAccounting{Seats: b.SeatsBooked}
	}
	return SeatAccounting{Seats: len(b.UserIDs), Inferred: true}
}

// CommittedSeats is shorthand for SeatAccounting().Seats.
func (b *Booking) CommittedSeats() int {
	return b.SeatAccounting().Seats
}

// SeatBreakdown returns the stored per-user breakdown when present,
// otherwise the even-split fallback over the committed seat count.
func (b *Booking) SeatBreakdown() []UserSeat {
	if len(b.UserSeats) > 0 {
		return b.UserSeats
	}
	return AllocateSeats(b.UserIDs, b.CommittedSeats())
}

// AllocateSeats divides seats across users in list order: integer
// floor division first, then the remainder one seat at a time to the
// earliest users. AllocateSeats([A,B,C], 5) yields A:2 B:2 C:1.
func AllocateSeats(userIDs []string, seats int) []UserSeat {
	if len(userIDs) == 0 || seats < 1 {
		return nil
	}
	base := seats / len(userIDs)
	remainder := seats % len(userIDs)

	split := make([]UserSeat, len(userIDs))
	for i, id := range userIDs {
		n := base
		if i < remainder {
			n++
		}
		split[i] = UserSeat{UserID: id, Seats: n}
	}
	return split
}

// CreateBookingRequest represents the request to book seats on a
// cataloged trip for one or more users.
type CreateBookingRequest struct {
	UserIDs        []string `json:"userIds" binding:"required"`
	TripID         string   `json:"tripId" binding:"required"`
	RequestedSeats int      `json:"seatsToBook" binding:"required"`
}

// Validate validates the create booking request.
func (r *CreateBookingRequest) Validate() error {
	if len(r.UserIDs) == 0 {
		return NewValidationError("userIds", "at least one user is required")
	}
	if r.TripID == "" {
		return NewValidationError("tripId", "is required")
	}
	if r.RequestedSeats < 1 {
		return NewValidationError("seatsToBook", "must be at least 1")
	}
	return nil
}

// CreateCustomBookingRequest represents a one-off itinerary booked for
// a single user, outside any shared capacity pool.
type CreateCustomBookingRequest struct {
	UserID                string    `json:"userId" binding:"required"`
	SelectedCityIDs       []string  `json:"selectedCityIds" binding:"required"`
	SelectedPlaceIDs      []string  `json:"selectedPlaceIds"`
	SelectedRestaurantIDs []string  `json:"selectedRestaurantIds"`
	SelectedHospitalIDs   []string  `json:"selectedHospitalIds"`
	SelectedHotelIDs      []string  `json:"selectedHotelIds"`
	TripDate              time.Time `json:"tripDate" binding:"required"`
	TripDuration          int       `json:"tripDuration" binding:"required"`
}

// Validate validates the custom booking request against now.
func (r *CreateCustomBookingRequest) Validate(now time.Time) error {
	if r.UserID == "" {
		return NewValidationError("userId", "is required")
	}
	if len(r.SelectedCityIDs) == 0 {
		return NewValidationError("selectedCityIds", "at least one city is required")
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if r.TripDate.Before(today) {
		return NewValidationError("tripDate", "must not be in the past")
	}
	if r.TripDuration < 1 {
		return NewValidationError("tripDuration", "must be at least 1 day")
	}
	return nil
}

// EditBookingRequest represents the request to move a booking between
// trips or resize its seat count.
type EditBookingRequest struct {
	UserIDs        []string `json:"userIds" binding:"required"`
	TripID         string   `json:"tripId" binding:"required"`
	RequestedSeats int      `json:"seatsToBook" binding:"required"`
}

// Validate validates the edit booking request.
func (r *EditBookingRequest) Validate() error {
	if len(r.UserIDs) == 0 {
		return NewValidationError("userIds", "at least one user is required")
	}
	if r.TripID == "" {
		return NewValidationError("tripId", "is required")
	}
	if r.RequestedSeats < 1 {
		return NewValidationError("seatsToBook", "must be at least 1")
	}
	return nil
}

// BookedUser is one row of a trip's passenger list: a participant
// joined with their aggregate seat total across the trip's bookings.
type BookedUser struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Seats  int    `json:"seats"`
}
