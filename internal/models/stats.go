package models

// DashboardSummary is the home-screen aggregate.
type DashboardSummary struct {
	UserCount          int     `json:"userCount"`
	TripCount          int     `json:"tripCount"`
	CustomBookingCount int     `json:"customBookingCount"`
	BookingCount       int     `json:"bookingCount"`
	TodayTripCount     int     `json:"todayTripCount"`
	RecentTrips        []*Trip `json:"recentTrips"`
}

// CityCount is one city's tally in an activity breakdown.
type CityCount struct {
	CityID   string `json:"cityId"`
	CityName string `json:"cityName"`
	Count    int    `json:"count"`
}

// CityActivity aggregates trips and bookings by their main city. The
// MostActive fields resolve ties by whichever city was encountered
// first while scanning the snapshot.
type CityActivity struct {
	TripsByCity          []CityCount `json:"tripsByCity"`
	BookingsByCity       []CityCount `json:"bookingsByCity"`
	MostActiveTripCity   *CityCount  `json:"mostActiveTripCity,omitempty"`
	MostActiveBookedCity *CityCount  `json:"mostActiveBookedCity,omitempty"`
}
