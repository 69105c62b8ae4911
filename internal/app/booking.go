package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"holiday_travel/internal/domain"
)

// BookingService owns the holiday-booking lifecycle: reference allocation,
// validated creation, status patching, and traveller assignment.
type BookingService struct {
	bookings   domain.HolidayBookingRepository
	travellers domain.TravellerRepository
	packages   domain.HolidayPackageRepository
	users      domain.UserDirectory
}

func NewBookingService(
	bookings domain.HolidayBookingRepository,
	travellers domain.TravellerRepository,
	packages domain.HolidayPackageRepository,
	users domain.UserDirectory,
) *BookingService {
	return &BookingService{bookings: bookings, travellers: travellers, packages: packages, users: users}
}

// BookingRequest is a proposed booking as submitted by a customer.
type BookingRequest struct {
	BookingReference string
	Status           domain.BookingStatus
	CustomerID       string
	PackageURL       string
}

// StatusPatch overwrites the stored status of an existing booking.
type StatusPatch struct {
	BookingReference string
	Status           domain.BookingStatus
}

// TravellerInput is one traveller row of a batch submission; the batch's
// target booking comes from the first row's reference.
type TravellerInput struct {
	Name             string
	Age              int
	PassportNumber   string
	BookingReference string
}

// BookingView is the outward shape of a booking with its customer and package
// resolved.
type BookingView struct {
	BookingReference string
	Status           string
	Customer         domain.User
	HolidayPackage   domain.HolidayPackage
}

const referencePrefix = "G"

// NextBookingReference derives the next sequential code (G0001, G0002, ...)
// from the highest numeric suffix already stored. Pure read + compute: the
// unique column on booking_reference is what guards two concurrent callers
// landing on the same value.
func (s *BookingService) NextBookingReference(ctx context.Context) (string, error) {
	all, err := s.bookings.GetAll(ctx)
	if err != nil {
		return "", err
	}
	max := 0
	for _, b := range all {
		if !strings.HasPrefix(b.BookingReference, referencePrefix) {
			continue
		}
		n, err := strconv.Atoi(b.BookingReference[len(referencePrefix):])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%04d", referencePrefix, max+1), nil
}

// CreateBooking validates the candidate against reference uniqueness, package
// existence, and customer existence, short-circuiting at the first failure.
// Exactly one write happens, and only on full success.
func (s *BookingService) CreateBooking(ctx context.Context, req *BookingRequest) (string, error) {
	if req == nil {
		return "", domain.ErrNoBookingProvided
	}

	existing, err := s.bookings.GetByReference(ctx, req.BookingReference)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", domain.ErrDuplicateReference
	}

	pkg, err := s.packages.GetByURL(ctx, req.PackageURL)
	if err != nil {
		return "", err
	}
	if pkg == nil {
		return "", domain.ErrPackageNotFound
	}

	customer, err := s.users.GetUserByID(ctx, req.CustomerID)
	if err != nil {
		return "", err
	}
	if customer == nil {
		return "", domain.ErrCustomerNotFound
	}

	booking := domain.HolidayBooking{
		BookingReference: req.BookingReference,
		Status:           req.Status,
		CustomerID:       customer.ID,
		HolidayPackageID: pkg.ID,
	}
	if err := s.bookings.Add(ctx, booking); err != nil {
		return "", err
	}
	log.Info().Str("reference", booking.BookingReference).Msg("booking created")
	return fmt.Sprintf("Successfully added holiday booking %s to database", booking.BookingReference), nil
}

// PatchStatus overwrites the stored status with whatever the caller supplied.
// There is no transition table: any member of the status enum is accepted.
func (s *BookingService) PatchStatus(ctx context.Context, patch *StatusPatch) (string, error) {
	if patch == nil {
		return "", domain.ErrNoBookingProvided
	}

	booking, err := s.bookings.GetByReference(ctx, patch.BookingReference)
	if err != nil {
		return "", err
	}
	if booking == nil {
		return "", domain.ErrBookingNotFound
	}

	booking.Status = patch.Status
	if err := s.bookings.Update(ctx, *booking); err != nil {
		return "", err
	}
	log.Info().Str("reference", booking.BookingReference).Stringer("status", booking.Status).Msg("booking status updated")
	return fmt.Sprintf("Successfully updated holiday booking %s", booking.BookingReference), nil
}

// Travellers returns the travellers attached to the referenced booking in
// encounter order. A nil slice (not an empty one) means the booking itself is
// unknown; the traveller store is not consulted in that case.
func (s *BookingService) Travellers(ctx context.Context, bookingReference string) ([]domain.Traveller, error) {
	booking, err := s.bookings.GetByReference(ctx, bookingReference)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, nil
	}

	all, err := s.travellers.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Traveller, 0, len(all))
	for _, t := range all {
		if t.HolidayBookingID == booking.ID {
			out = append(out, t)
		}
	}
	return out, nil
}

// AddTravellers persists the batch one row at a time against the booking named
// by the first traveller's reference.
func (s *BookingService) AddTravellers(ctx context.Context, travellers []TravellerInput) (string, error) {
	if len(travellers) == 0 {
		return "", domain.ErrNoTravellersProvided
	}

	ref := travellers[0].BookingReference
	booking, err := s.bookings.GetByReference(ctx, ref)
	if err != nil {
		return "", err
	}
	if booking == nil {
		return "", domain.ErrNoBookingForReference(ref)
	}

	for _, in := range travellers {
		t := domain.Traveller{
			Name:             in.Name,
			Age:              in.Age,
			PassportNumber:   in.PassportNumber,
			HolidayBookingID: booking.ID,
		}
		if err := s.travellers.Add(ctx, t); err != nil {
			return "", err
		}
	}
	log.Info().Str("reference", ref).Int("count", len(travellers)).Msg("travellers added")
	return fmt.Sprintf("Successfully added %d traveller(s) to database", len(travellers)), nil
}

// AllBookings lists every booking with customer and package resolved.
func (s *BookingService) AllBookings(ctx context.Context) ([]BookingView, error) {
	all, err := s.bookings.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, all)
}

// CustomerBookings lists the bookings owned by one customer. An unknown
// customer is ErrNotFound rather than an empty list.
func (s *BookingService) CustomerBookings(ctx context.Context, customerID string) ([]BookingView, error) {
	customer, err := s.users.GetUserByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	bookings, err := s.bookings.GetByCustomerID(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, bookings)
}

// BookingByReference resolves one booking; (nil, nil) when the reference is
// unknown.
func (s *BookingService) BookingByReference(ctx context.Context, reference string) (*BookingView, error) {
	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, nil
	}
	vs, err := s.views(ctx, []domain.HolidayBooking{*booking})
	if err != nil {
		return nil, err
	}
	return &vs[0], nil
}

func (s *BookingService) views(ctx context.Context, bookings []domain.HolidayBooking) ([]BookingView, error) {
	out := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		v := BookingView{
			BookingReference: b.BookingReference,
			Status:           b.Status.String(),
		}
		if customer, err := s.users.GetUserByID(ctx, b.CustomerID); err != nil {
			return nil, err
		} else if customer != nil {
			v.Customer = *customer
		}
		if pkg, err := s.packages.GetByID(ctx, b.HolidayPackageID); err != nil {
			return nil, err
		} else if pkg != nil {
			v.HolidayPackage = *pkg
		}
		out = append(out, v)
	}
	return out, nil
}
