// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"holiday_travel/internal/app"
	"holiday_travel/internal/domain"
)

type Handlers struct {
	Bookings *app.BookingService
	Hotels   *app.HotelService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/bookings", h.listBookings)
	s.mux.Post("/v1/bookings", h.createBooking)
	s.mux.Patch("/v1/bookings/status", h.patchStatus)
	s.mux.Get("/v1/bookings/next-reference", h.nextReference)
	s.mux.Get("/v1/bookings/{reference}", h.getBooking)
	s.mux.Get("/v1/bookings/{reference}/travellers", h.listTravellers)
	s.mux.Post("/v1/travellers", h.addTravellers)
	s.mux.Get("/v1/customers/{id}/bookings", h.customerBookings)
	s.mux.Get("/v1/hotels", h.searchHotels)
	s.mux.Get("/v1/hotels/{externalId}/rooms", h.listRooms)
}

// ---- transport shapes (explicit mapping, no reflection helpers) ----

type bookingPayload struct {
	BookingReference string `json:"bookingReference"`
	Status           string `json:"status"`
	CustomerID       string `json:"customerId"`
	PackageURL       string `json:"packageUrl"`
}

type statusPayload struct {
	BookingReference string `json:"bookingReference"`
	Status           string `json:"status"`
}

type travellerPayload struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	PassportNumber   string `json:"passportNumber"`
	BookingReference string `json:"bookingReference"`
}

type travellerView struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	PassportNumber   string `json:"passportNumber"`
	BookingReference string `json:"bookingReference"`
}

type roomView struct {
	ExternalRoomID string  `json:"externalRoomId"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	Capacity       int     `json:"capacity"`
	Price          float64 `json:"price"`
	MealPlan       *string `json:"mealPlan"`
	Refundable     bool    `json:"refundable"`
	ArrivalDate    string  `json:"arrivalDate"`
	DepartureDate  string  `json:"departureDate"`
}

type hotelView struct {
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	Rating          int     `json:"rating"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	ExternalHotelID string  `json:"externalHotelId"`
}

type customerView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type packageView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MaxCapacity int    `json:"maxCapacity"`
	URL         string `json:"url"`
}

type bookingView struct {
	BookingReference string       `json:"bookingReference"`
	Status           string       `json:"status"`
	Customer         customerView `json:"customer"`
	HolidayPackage   packageView  `json:"holidayPackage"`
}

func toBookingView(v app.BookingView) bookingView {
	return bookingView{
		BookingReference: v.BookingReference,
		Status:           v.Status,
		Customer: customerView{
			ID:        v.Customer.ID,
			Email:     v.Customer.Email,
			FirstName: v.Customer.FirstName,
			LastName:  v.Customer.LastName,
		},
		HolidayPackage: packageView{
			ID:          v.HolidayPackage.ID,
			Title:       v.HolidayPackage.Title,
			Description: v.HolidayPackage.Description,
			MaxCapacity: v.HolidayPackage.MaxCapacity,
			URL:         v.HolidayPackage.URL,
		},
	}
}

func toBookingViews(vs []app.BookingView) []bookingView {
	out := make([]bookingView, 0, len(vs))
	for _, v := range vs {
		out = append(out, toBookingView(v))
	}
	return out
}

type messageBody struct {
	Message string `json:"message"`
}

const dateLayout = "2006-01-02"

// ---- helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeServiceError maps the two error tiers: validation errors carry their
// literal wording back as 400, everything else is a storage/upstream fault.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr domain.ValidationError
	if errors.As(err, &verr) {
		writeProblem(w, http.StatusBadRequest, "Validation Failed", verr.Error())
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "")
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
}

func parseDates(r *http.Request) (arrival, departure time.Time, ok bool) {
	var err error
	arrival, err = time.Parse(dateLayout, r.URL.Query().Get("arrival"))
	if err != nil {
		return arrival, departure, false
	}
	departure, err = time.Parse(dateLayout, r.URL.Query().Get("departure"))
	if err != nil {
		return arrival, departure, false
	}
	return arrival, departure, true
}

// ---- booking handlers ----

func (h *Handlers) nextReference(w http.ResponseWriter, r *http.Request) {
	ref, err := h.Bookings.NextBookingReference(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: ref})
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookings.AllBookings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingViews(out))
}

func (h *Handlers) customerBookings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookings.CustomerBookings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingViews(out))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookings.BookingByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, toBookingView(*out))
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var payload *bookingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}

	var req *app.BookingRequest
	if payload != nil {
		status := domain.StatusPending
		if payload.Status != "" {
			var err error
			if status, err = domain.ParseBookingStatus(payload.Status); err != nil {
				writeProblem(w, http.StatusBadRequest, "Invalid Status", err.Error())
				return
			}
		}
		req = &app.BookingRequest{
			BookingReference: payload.BookingReference,
			Status:           status,
			CustomerID:       payload.CustomerID,
			PackageURL:       payload.PackageURL,
		}
	}

	msg, err := h.Bookings.CreateBooking(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: msg})
}

func (h *Handlers) patchStatus(w http.ResponseWriter, r *http.Request) {
	var payload *statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}

	var patch *app.StatusPatch
	if payload != nil {
		status, err := domain.ParseBookingStatus(payload.Status)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Status", err.Error())
			return
		}
		patch = &app.StatusPatch{BookingReference: payload.BookingReference, Status: status}
	}

	msg, err := h.Bookings.PatchStatus(r.Context(), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: msg})
}

// ---- traveller handlers ----

func (h *Handlers) listTravellers(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")
	travellers, err := h.Bookings.Travellers(r.Context(), ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if travellers == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "booking not found")
		return
	}
	out := make([]travellerView, 0, len(travellers))
	for _, t := range travellers {
		out = append(out, travellerView{
			Name:             t.Name,
			Age:              t.Age,
			PassportNumber:   t.PassportNumber,
			BookingReference: ref,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) addTravellers(w http.ResponseWriter, r *http.Request) {
	var payload []travellerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}

	in := make([]app.TravellerInput, 0, len(payload))
	for _, p := range payload {
		in = append(in, app.TravellerInput{
			Name:             p.Name,
			Age:              p.Age,
			PassportNumber:   p.PassportNumber,
			BookingReference: p.BookingReference,
		})
	}

	msg, err := h.Bookings.AddTravellers(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: msg})
}

// ---- hotel handlers ----

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	country := r.URL.Query().Get("country")
	if city == "" || country == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", "city and country are required")
		return
	}
	arrival, departure, ok := parseDates(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", "arrival and departure must be yyyy-MM-dd")
		return
	}

	hotels, err := h.Hotels.SearchHotels(r.Context(), city, country, arrival, departure)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]hotelView, 0, len(hotels))
	for _, hv := range hotels {
		out = append(out, hotelView{
			Name:            hv.Name,
			Address:         hv.Address,
			Rating:          hv.Rating,
			Latitude:        hv.Latitude,
			Longitude:       hv.Longitude,
			ExternalHotelID: hv.ExternalHotelID,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	arrival, departure, ok := parseDates(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", "arrival and departure must be yyyy-MM-dd")
		return
	}

	rooms, err := h.Hotels.RoomsForHotel(r.Context(), chi.URLParam(r, "externalId"), arrival, departure)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if rooms == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}
	out := make([]roomView, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, roomView{
			ExternalRoomID: rm.ExternalRoomID,
			Name:           rm.Name,
			Description:    rm.Description,
			Capacity:       rm.Capacity,
			Price:          rm.Price,
			MealPlan:       rm.MealPlan,
			Refundable:     rm.Refundable,
			ArrivalDate:    rm.ArrivalDate.Format(dateLayout),
			DepartureDate:  rm.DepartureDate.Format(dateLayout),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
