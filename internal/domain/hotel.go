package domain

import "time"

// Hotel is a local cache entry for upstream hotel metadata, deduplicated by
// ExternalHotelID.
type Hotel struct {
	ID              int64
	Name            string
	Address         string
	Rating          int
	Latitude        float64
	Longitude       float64
	ExternalHotelID string // natural key from the upstream provider
}

// HotelRoom is one offer for one date range. Rows are appended as fetched and
// are not deduplicated.
type HotelRoom struct {
	ID             int64
	HotelID        int64
	ExternalRoomID string
	Name           string
	Description    *string
	Capacity       int
	Price          float64
	MealPlan       *string
	Refundable     bool
	ArrivalDate    time.Time
	DepartureDate  time.Time
}
