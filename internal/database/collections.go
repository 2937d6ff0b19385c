package database

// Collection names of the persisted documents. Kept identical to the
// legacy data so existing records stay addressable.
const (
	ColUsers       = "users"
	ColTrips       = "trips"
	ColBookings    = "bookings"
	ColCities      = "cities"
	ColPlaces      = "places"
	ColRestaurants = "restaurants"
	ColHospitals   = "hospitals"
	ColHotels      = "hotels"
	ColAuditLogs   = "auditLogs"
)
