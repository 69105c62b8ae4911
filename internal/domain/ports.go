package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("not found")

// ValidationError is a caller-correctable failure. The wording is stable and
// user-facing; the HTTP layer returns it verbatim.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

var (
	ErrNoBookingProvided    = ValidationError("No holiday booking was provided")
	ErrDuplicateReference   = ValidationError("A holiday booking with the same booking reference already exists in the database")
	ErrPackageNotFound      = ValidationError("Holiday package linked to booking does not exist")
	ErrCustomerNotFound     = ValidationError("Customer linked to booking does not exist")
	ErrBookingNotFound      = ValidationError("The holiday booking does not exist in the database")
	ErrNoTravellersProvided = ValidationError("No travellers were provided")
)

// ErrNoBookingForReference names the reference a traveller batch pointed at.
func ErrNoBookingForReference(reference string) error {
	return ValidationError(fmt.Sprintf("No holiday booking found for booking reference '%s'", reference))
}

// Natural-key lookups return (nil, nil) when no row matches; errors are
// reserved for storage faults.
type HolidayBookingRepository interface {
	GetAll(ctx context.Context) ([]HolidayBooking, error)
	GetByReference(ctx context.Context, reference string) (*HolidayBooking, error)
	GetByCustomerID(ctx context.Context, customerID string) ([]HolidayBooking, error)
	Add(ctx context.Context, b HolidayBooking) error
	Update(ctx context.Context, b HolidayBooking) error
}

type TravellerRepository interface {
	GetAll(ctx context.Context) ([]Traveller, error)
	Add(ctx context.Context, t Traveller) error
}

type HolidayPackageRepository interface {
	GetAll(ctx context.Context) ([]HolidayPackage, error)
	GetByID(ctx context.Context, id int64) (*HolidayPackage, error)
	GetByURL(ctx context.Context, url string) (*HolidayPackage, error)
	Add(ctx context.Context, p HolidayPackage) error
}

type HotelRepository interface {
	GetAll(ctx context.Context) ([]Hotel, error)
	GetByExternalID(ctx context.Context, externalID string) (*Hotel, error)
	Add(ctx context.Context, h Hotel) error
}

type HotelRoomRepository interface {
	GetByHotelID(ctx context.Context, hotelID int64) ([]HotelRoom, error)
	Add(ctx context.Context, r HotelRoom) error
	DeleteByHotelAndStay(ctx context.Context, hotelID int64, arrival, departure time.Time) error
}

// UserDirectory resolves customers; a nil user with a nil error means the id
// is unknown.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
}

// HotelAPI is the upstream hotel-search provider. Payloads are loosely typed;
// callers read fields defensively.
type HotelAPI interface {
	SearchDestination(ctx context.Context, query string) (map[string]any, error)
	SearchHotelsByCoordinates(ctx context.Context, lat, lon float64, arrival, departure time.Time) (map[string]any, error)
	RoomListWithAvailability(ctx context.Context, externalHotelID string, arrival, departure time.Time) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
