package mysql

import (
	"context"
	"database/sql"
	"time"

	"holiday_travel/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullToPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// ---- holiday bookings ----

type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

func (r *BookingRepo) GetAll(ctx context.Context) ([]domain.HolidayBooking, error) {
	rows, err := r.db.QueryContext(ctx, selectBookingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HolidayBooking
	for rows.Next() {
		var b domain.HolidayBooking
		var status int
		if err := rows.Scan(&b.ID, &b.BookingReference, &status, &b.CustomerID, &b.HolidayPackageID); err != nil {
			return nil, err
		}
		b.Status = domain.BookingStatus(status)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingRepo) GetByReference(ctx context.Context, reference string) (*domain.HolidayBooking, error) {
	var b domain.HolidayBooking
	var status int
	err := r.db.QueryRowContext(ctx, selectBookingByReferenceSQL, reference).
		Scan(&b.ID, &b.BookingReference, &status, &b.CustomerID, &b.HolidayPackageID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.Status = domain.BookingStatus(status)
	return &b, nil
}

func (r *BookingRepo) GetByCustomerID(ctx context.Context, customerID string) ([]domain.HolidayBooking, error) {
	rows, err := r.db.QueryContext(ctx, selectBookingsByCustomerSQL, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HolidayBooking
	for rows.Next() {
		var b domain.HolidayBooking
		var status int
		if err := rows.Scan(&b.ID, &b.BookingReference, &status, &b.CustomerID, &b.HolidayPackageID); err != nil {
			return nil, err
		}
		b.Status = domain.BookingStatus(status)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingRepo) Add(ctx context.Context, b domain.HolidayBooking) error {
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.BookingReference, int(b.Status), b.CustomerID, b.HolidayPackageID)
	return err
}

func (r *BookingRepo) Update(ctx context.Context, b domain.HolidayBooking) error {
	_, err := r.db.ExecContext(ctx, updateBookingSQL,
		int(b.Status), b.CustomerID, b.HolidayPackageID, b.BookingReference)
	return err
}

// ---- travellers ----

type TravellerRepo struct{ db *sql.DB }

func NewTravellerRepo(db *sql.DB) *TravellerRepo { return &TravellerRepo{db: db} }

func (r *TravellerRepo) GetAll(ctx context.Context) ([]domain.Traveller, error) {
	rows, err := r.db.QueryContext(ctx, selectTravellersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Traveller
	for rows.Next() {
		var t domain.Traveller
		if err := rows.Scan(&t.ID, &t.Name, &t.Age, &t.PassportNumber, &t.HolidayBookingID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TravellerRepo) Add(ctx context.Context, t domain.Traveller) error {
	_, err := r.db.ExecContext(ctx, insertTravellerSQL,
		t.Name, t.Age, t.PassportNumber, t.HolidayBookingID)
	return err
}

// ---- holiday packages ----

type PackageRepo struct{ db *sql.DB }

func NewPackageRepo(db *sql.DB) *PackageRepo { return &PackageRepo{db: db} }

func (r *PackageRepo) GetAll(ctx context.Context) ([]domain.HolidayPackage, error) {
	rows, err := r.db.QueryContext(ctx, selectPackagesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HolidayPackage
	for rows.Next() {
		var p domain.HolidayPackage
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.MaxCapacity, &p.URL); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PackageRepo) GetByID(ctx context.Context, id int64) (*domain.HolidayPackage, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectPackageByIDSQL, id))
}

func (r *PackageRepo) GetByURL(ctx context.Context, url string) (*domain.HolidayPackage, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectPackageByURLSQL, url))
}

func (r *PackageRepo) scanOne(row *sql.Row) (*domain.HolidayPackage, error) {
	var p domain.HolidayPackage
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.MaxCapacity, &p.URL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PackageRepo) Add(ctx context.Context, p domain.HolidayPackage) error {
	_, err := r.db.ExecContext(ctx, insertPackageSQL, p.Title, p.Description, p.MaxCapacity, p.URL)
	return err
}

// ---- hotels ----

type HotelRepo struct{ db *sql.DB }

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

func (r *HotelRepo) GetAll(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, selectHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.Rating, &h.Latitude, &h.Longitude, &h.ExternalHotelID); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *HotelRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.Hotel, error) {
	var h domain.Hotel
	err := r.db.QueryRowContext(ctx, selectHotelByExternalIDSQL, externalID).
		Scan(&h.ID, &h.Name, &h.Address, &h.Rating, &h.Latitude, &h.Longitude, &h.ExternalHotelID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HotelRepo) Add(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Name, h.Address, h.Rating, h.Latitude, h.Longitude, h.ExternalHotelID)
	return err
}

// ---- hotel rooms ----

type RoomRepo struct{ db *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

func (r *RoomRepo) GetByHotelID(ctx context.Context, hotelID int64) ([]domain.HotelRoom, error) {
	rows, err := r.db.QueryContext(ctx, selectRoomsByHotelSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HotelRoom
	for rows.Next() {
		var rm domain.HotelRoom
		var desc, meal sql.NullString
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.ExternalRoomID, &rm.Name, &desc,
			&rm.Capacity, &rm.Price, &meal, &rm.Refundable, &rm.ArrivalDate, &rm.DepartureDate); err != nil {
			return nil, err
		}
		rm.Description = nullToPtr(desc)
		rm.MealPlan = nullToPtr(meal)
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *RoomRepo) Add(ctx context.Context, rm domain.HotelRoom) error {
	_, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.HotelID, rm.ExternalRoomID, rm.Name, valStr(rm.Description), rm.Capacity,
		rm.Price, valStr(rm.MealPlan), rm.Refundable, rm.ArrivalDate, rm.DepartureDate)
	return err
}

func (r *RoomRepo) DeleteByHotelAndStay(ctx context.Context, hotelID int64, arrival, departure time.Time) error {
	_, err := r.db.ExecContext(ctx, deleteRoomsByStaySQL, hotelID, arrival, departure)
	return err
}

// ---- users ----

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, selectUserByIDSQL, id).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Add(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Email, u.FirstName, u.LastName)
	return err
}
