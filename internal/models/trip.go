package models

import (
	"time"
)

// Trip represents a cataloged, capacity-bounded itinerary. SeatsBooked
// is a denormalized running total of the seats committed by bookings
// against this trip; the sum of the booking records is the source of
// truth and the counter must track it after every mutation.
type Trip struct {
	ID                    string    `json:"id"`
	SelectedCityIDs       []string  `json:"selectedCityIds"`
	SelectedPlaceIDs      []string  `json:"selectedPlaceIds"`
	SelectedRestaurantIDs []string  `json:"selectedRestaurantIds"`
	SelectedHospitalIDs   []string  `json:"selectedHospitalIds"`
	SelectedHotelIDs      []string  `json:"selectedHotelIds"`
	TripDate              time.Time `json:"tripDate"`
	TripDuration          int       `json:"tripDuration"`
	MaxSeats              int       `json:"maxSeats"`
	SeatsBooked           int       `json:"seatsBooked"`
	CreatedAt             time.Time `json:"createdAt"`
}

// IsPast reports whether the trip's date falls on a calendar day
// before now.
func (t *Trip) IsPast(now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return t.TripDate.Before(today)
}

// IsToday reports whether the trip's date falls on the same calendar
// day as now, evaluated in now's location.
func (t *Trip) IsToday(now time.Time) bool {
	ty, tm, td := t.TripDate.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return ty == ny && tm == nm && td == nd
}

// MainCityID returns the first city reference, which the dashboard
// treats as the trip's primary destination for statistics.
func (t *Trip) MainCityID() string {
	if len(t.SelectedCityIDs) == 0 {
		return ""
	}
	return t.SelectedCityIDs[0]
}

// CreateTripRequest represents the request to create a cataloged trip.
type CreateTripRequest struct {
	SelectedCityIDs       []string  `json:"selectedCityIds" binding:"required"`
	SelectedPlaceIDs      []string  `json:"selectedPlaceIds"`
	SelectedRestaurantIDs []string  `json:"selectedRestaurantIds"`
	SelectedHospitalIDs   []string  `json:"selectedHospitalIds"`
	SelectedHotelIDs      []string  `json:"selectedHotelIds"`
	TripDate              time.Time `json:"tripDate" binding:"required"`
	TripDuration          int       `json:"tripDuration" binding:"required"`
	MaxSeats              int       `json:"maxSeats" binding:"required"`
}

// Validate validates the create trip request against now.
func (r *CreateTripRequest) Validate(now time.Time) error {
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
	if r.MaxSeats < 1 {
		return NewValidationError("maxSeats", "must be at least 1")
	}
	return nil
}

// UpdateTripRequest represents the request to change a trip's capacity,
// schedule or itinerary. Nil slices leave the stored itinerary sets
// untouched.
type UpdateTripRequest struct {
	SelectedCityIDs       []string   `json:"selectedCityIds,omitempty"`
	SelectedPlaceIDs      []string   `json:"selectedPlaceIds,omitempty"`
	SelectedRestaurantIDs []string   `json:"selectedRestaurantIds,omitempty"`
	SelectedHospitalIDs   []string   `json:"selectedHospitalIds,omitempty"`
	SelectedHotelIDs      []string   `json:"selectedHotelIds,omitempty"`
	TripDate              *time.Time `json:"tripDate,omitempty"`
	TripDuration          *int       `json:"tripDuration,omitempty"`
	MaxSeats              *int       `json:"maxSeats,omitempty"`
}

// Validate validates the update trip request.
func (r *UpdateTripRequest) Validate() error {
	if r.SelectedCityIDs != nil && len(r.SelectedCityIDs) == 0 {
		return NewValidationError("selectedCityIds", "at least one city is required")
	}
	if r.TripDuration != nil && *r.TripDuration < 1 {
		return NewValidationError("tripDuration", "must be at least 1 day")
	}
	if r.MaxSeats != nil && *r.MaxSeats < 1 {
		return NewValidationError("maxSeats", "must be at least 1")
	}
	return nil
}
