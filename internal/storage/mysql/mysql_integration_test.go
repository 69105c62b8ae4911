//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"holiday_travel/internal/domain"
	mysqlrepo "holiday_travel/internal/storage/mysql"
)

// ---------- helpers ----------

func pstr(s string) *string { return &s }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=travel",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/travel?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------

func TestRepos_MySQL_BookingLifecycle(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	users := mysqlrepo.NewUserRepo(db)
	packages := mysqlrepo.NewPackageRepo(db)
	bookings := mysqlrepo.NewBookingRepo(db)
	travellers := mysqlrepo.NewTravellerRepo(db)

	// Arrange — a customer and a package the booking can point at
	customerID := uuid.NewString()
	if err := users.Add(ctx, domain.User{
		ID: customerID, Email: "ana@example.com", FirstName: "Ana", LastName: "Jensen",
	}); err != nil {
		t.Fatalf("add user: %v", err)
	}
	if err := packages.Add(ctx, domain.HolidayPackage{
		Title: "Rome City Break", Description: "3 nights", MaxCapacity: 20, URL: "rome-city-break",
	}); err != nil {
		t.Fatalf("add package: %v", err)
	}
	pkg, err := packages.GetByURL(ctx, "rome-city-break")
	if err != nil || pkg == nil {
		t.Fatalf("package by url: %v %v", pkg, err)
	}

	booking := domain.HolidayBooking{
		BookingReference: "G0001",
		Status:           domain.StatusPending,
		CustomerID:       customerID,
		HolidayPackageID: pkg.ID,
	}
	if err := bookings.Add(ctx, booking); err != nil {
		t.Fatalf("add booking: %v", err)
	}

	// booking_reference is unique in the schema; a second insert must fail
	if err := bookings.Add(ctx, booking); err == nil {
		t.Fatalf("duplicate booking reference accepted")
	}

	got, err := bookings.GetByReference(ctx, "G0001")
	if err != nil {
		t.Fatalf("get by reference: %v", err)
	}
	if got == nil || got.Status != domain.StatusPending || got.CustomerID != customerID {
		t.Fatalf("unexpected booking: %+v", got)
	}

	got.Status = domain.StatusConfirmed
	if err := bookings.Update(ctx, *got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got2, _ := bookings.GetByReference(ctx, "G0001")
	if got2.Status != domain.StatusConfirmed {
		t.Fatalf("status not persisted: %+v", got2)
	}

	// unknown natural keys come back as (nil, nil)
	if missing, err := bookings.GetByReference(ctx, "G9999"); err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for unknown reference, got %v %v", missing, err)
	}

	byCustomer, err := bookings.GetByCustomerID(ctx, customerID)
	if err != nil || len(byCustomer) != 1 {
		t.Fatalf("by customer: %v %v", byCustomer, err)
	}

	if err := travellers.Add(ctx, domain.Traveller{
		Name: "Ana Jensen", Age: 34, PassportNumber: "P1234567", HolidayBookingID: got.ID,
	}); err != nil {
		t.Fatalf("add traveller: %v", err)
	}
	all, err := travellers.GetAll(ctx)
	if err != nil || len(all) != 1 || all[0].HolidayBookingID != got.ID {
		t.Fatalf("travellers: %v %v", all, err)
	}
}

func TestRepos_MySQL_HotelsAndRooms(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	hotels := mysqlrepo.NewHotelRepo(db)
	rooms := mysqlrepo.NewRoomRepo(db)

	h := domain.Hotel{
		Name: "Hotel Lumiere", Address: "1 Rue de Rivoli", Rating: 8,
		Latitude: 48.85, Longitude: 2.35, ExternalHotelID: "111",
	}
	if err := hotels.Add(ctx, h); err != nil {
		t.Fatalf("add hotel: %v", err)
	}
	// external_id is unique; the reconciler relies on this under races
	if err := hotels.Add(ctx, h); err == nil {
		t.Fatalf("duplicate external id accepted")
	}

	stored, err := hotels.GetByExternalID(ctx, "111")
	if err != nil || stored == nil {
		t.Fatalf("get by external id: %v %v", stored, err)
	}
	if missing, err := hotels.GetByExternalID(ctx, "404"); err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for unknown hotel, got %v %v", missing, err)
	}

	arrival := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	departure := arrival.AddDate(0, 0, 7)
	room := domain.HotelRoom{
		HotelID: stored.ID, ExternalRoomID: "9001", Name: "Double Room",
		Description: pstr("Queen bed"), Capacity: 2, Price: 180.50,
		MealPlan: pstr("Breakfast included"), Refundable: true,
		ArrivalDate: arrival, DepartureDate: departure,
	}
	if err := rooms.Add(ctx, room); err != nil {
		t.Fatalf("add room: %v", err)
	}
	// rows append; the same room for the same stay is stored twice
	if err := rooms.Add(ctx, room); err != nil {
		t.Fatalf("second add room: %v", err)
	}

	got, err := rooms.GetByHotelID(ctx, stored.ID)
	if err != nil || len(got) != 2 {
		t.Fatalf("rooms by hotel: %v %v", got, err)
	}
	if got[0].Description == nil || *got[0].Description != "Queen bed" || !got[0].Refundable {
		t.Fatalf("unexpected room row: %+v", got[0])
	}
	if got[0].Price != 180.50 {
		t.Fatalf("price round-trip: %v", got[0].Price)
	}

	if err := rooms.DeleteByHotelAndStay(ctx, stored.ID, arrival, departure); err != nil {
		t.Fatalf("delete by stay: %v", err)
	}
	left, err := rooms.GetByHotelID(ctx, stored.ID)
	if err != nil || len(left) != 0 {
		t.Fatalf("rooms should be gone: %v %v", left, err)
	}
}
