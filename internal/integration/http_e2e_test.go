//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	httpserver "holiday_travel/internal/adapters/http_server"
	redisad "holiday_travel/internal/adapters/redis"
	"holiday_travel/internal/app"
	"holiday_travel/internal/domain"
	mysqlrepo "holiday_travel/internal/storage/mysql"
)

// ---------- helpers ----------

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

// canned upstream so the flow runs without a RapidAPI key
type cannedAPI struct{}

func (cannedAPI) SearchDestination(ctx context.Context, query string) (map[string]any, error) {
	return map[string]any{
		"data": []any{
			map[string]any{
				"dest_type": "city", "name": "Paris", "country": "France",
				"latitude": 48.85, "longitude": 2.35,
			},
		},
	}, nil
}

func (cannedAPI) SearchHotelsByCoordinates(ctx context.Context, lat, lon float64, arrival, departure time.Time) (map[string]any, error) {
	return map[string]any{
		"data": map[string]any{
			"result": []any{
				map[string]any{"hotel_id": float64(111), "hotel_name": "Hotel Lumiere", "review_score": 8.7, "address": "1 Rue de Rivoli"},
				map[string]any{"hotel_id": float64(222), "hotel_name": "Hotel Nouveau", "review_score": 7.2, "city": "Paris"},
			},
		},
	}, nil
}

func (cannedAPI) RoomListWithAvailability(ctx context.Context, hotelID string, arrival, departure time.Time) (map[string]any, error) {
	return map[string]any{"available": []any{}}, nil
}

// ---------- the test ----------

func TestHTTP_EndToEnd_BookingFlow(t *testing.T) {
	// Isolated MySQL; Docker picks the host port.
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

	// Full wiring: real repos, real router, miniredis cache, canned upstream.
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)

	users := mysqlrepo.NewUserRepo(db)
	packages := mysqlrepo.NewPackageRepo(db)
	bookings := app.NewBookingService(
		mysqlrepo.NewBookingRepo(db),
		mysqlrepo.NewTravellerRepo(db),
		packages,
		users,
	)
	hotels := app.NewHotelService(cannedAPI{}, mysqlrepo.NewHotelRepo(db), mysqlrepo.NewRoomRepo(db), cache, time.Minute)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Bookings: bookings, Hotels: hotels})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	ctx := context.Background()

	// Seed the customer and the package the booking points at.
	customerID := uuid.NewString()
	if err := users.Add(ctx, domain.User{ID: customerID, Email: "ana@example.com", FirstName: "Ana", LastName: "Jensen"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := packages.Add(ctx, domain.HolidayPackage{Title: "Rome City Break", Description: "3 nights", MaxCapacity: 20, URL: "rome-city-break"}); err != nil {
		t.Fatalf("seed package: %v", err)
	}

	var msg struct {
		Message string `json:"message"`
	}

	// Allocate the first reference.
	res, err := http.Get(ts.URL + "/v1/bookings/next-reference")
	if err != nil {
		t.Fatalf("next-reference: %v", err)
	}
	decodeOK(t, res, &msg)
	if msg.Message != "G0001" {
		t.Fatalf("expected G0001, got %q", msg.Message)
	}

	// Create the booking.
	body := fmt.Sprintf(`{"bookingReference":"G0001","status":"Pending","customerId":"%s","packageUrl":"rome-city-break"}`, customerID)
	res, err = http.Post(ts.URL+"/v1/bookings", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	decodeOK(t, res, &msg)
	if msg.Message != "Successfully added holiday booking G0001 to database" {
		t.Fatalf("unexpected message: %q", msg.Message)
	}

	// Same reference again is a validation failure with the literal wording.
	res, err = http.Post(ts.URL+"/v1/bookings", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("duplicate booking: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate status: %d", res.StatusCode)
	}
	var prob struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(res.Body).Decode(&prob); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if prob.Detail != "A holiday booking with the same booking reference already exists in the database" {
		t.Fatalf("unexpected detail: %q", prob.Detail)
	}

	// The allocator moves on.
	res, err = http.Get(ts.URL + "/v1/bookings/next-reference")
	if err != nil {
		t.Fatalf("next-reference: %v", err)
	}
	decodeOK(t, res, &msg)
	if msg.Message != "G0002" {
		t.Fatalf("expected G0002, got %q", msg.Message)
	}

	// Attach travellers and read them back.
	trav := `[{"name":"Ana Jensen","age":34,"passportNumber":"P1234567","bookingReference":"G0001"},
	          {"name":"Mia Jensen","age":4,"passportNumber":"P7654321","bookingReference":"G0001"}]`
	res, err = http.Post(ts.URL+"/v1/travellers", "application/json", bytes.NewBufferString(trav))
	if err != nil {
		t.Fatalf("add travellers: %v", err)
	}
	decodeOK(t, res, &msg)
	if msg.Message != "Successfully added 2 traveller(s) to database" {
		t.Fatalf("unexpected message: %q", msg.Message)
	}

	res, err = http.Get(ts.URL + "/v1/bookings/G0001/travellers")
	if err != nil {
		t.Fatalf("list travellers: %v", err)
	}
	var got []struct {
		Name string `json:"name"`
	}
	decodeOK(t, res, &got)
	if len(got) != 2 || got[0].Name != "Ana Jensen" || got[1].Name != "Mia Jensen" {
		t.Fatalf("unexpected travellers: %+v", got)
	}

	// Hotel search persists the normalized upstream set and serves it over HTTP.
	res, err = http.Get(ts.URL + "/v1/hotels?city=Paris&country=France&arrival=2026-09-10&departure=2026-09-17")
	if err != nil {
		t.Fatalf("search hotels: %v", err)
	}
	var found []struct {
		Name            string `json:"name"`
		ExternalHotelID string `json:"externalHotelId"`
	}
	decodeOK(t, res, &found)
	if len(found) != 2 || found[0].ExternalHotelID != "111" || found[1].Name != "Hotel Nouveau" {
		t.Fatalf("unexpected hotels: %+v", found)
	}

	// The second search is a cache hit; miniredis holds the key.
	if len(mr.Keys()) != 1 {
		t.Fatalf("expected one cached search, got %v", mr.Keys())
	}

	// Unknown booking reference is a 404, not an empty list.
	res, err = http.Get(ts.URL + "/v1/bookings/G9999/travellers")
	if err != nil {
		t.Fatalf("unknown booking travellers: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func decodeOK(t *testing.T, res *http.Response, dst any) {
	t.Helper()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
}
