package domain

import "fmt"

// BookingStatus is the workflow state of a holiday booking. Values are stored
// by ordinal; the set is closed but transitions are not restricted.
type BookingStatus int

const (
	StatusPending BookingStatus = iota
	StatusConfirmed
	StatusCancelled
	StatusCompleted
)

var statusNames = map[BookingStatus]string{
	StatusPending:   "Pending",
	StatusConfirmed: "Confirmed",
	StatusCancelled: "Cancelled",
	StatusCompleted: "Completed",
}

func (s BookingStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("BookingStatus(%d)", int(s))
}

// ParseBookingStatus maps a status name back to its enum value.
func ParseBookingStatus(name string) (BookingStatus, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown booking status %q", name)
}

type HolidayBooking struct {
	ID               int64
	BookingReference string // human-readable, unique, immutable once written
	Status           BookingStatus
	CustomerID       string // weak reference to a User
	HolidayPackageID int64  // weak reference to a HolidayPackage
}

type Traveller struct {
	ID               int64
	Name             string
	Age              int
	PassportNumber   string
	HolidayBookingID int64 // a traveller belongs to exactly one booking
}

type HolidayPackage struct {
	ID          int64
	Title       string
	Description string
	MaxCapacity int
	URL         string // natural key used by booking requests
}

type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}
