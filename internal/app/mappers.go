package app

import (
	"strconv"
	"strings"
	"time"

	"holiday_travel/internal/domain"
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "". Numbers are rendered, since the
// upstream flips between "123" and 123 for the same field.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// lookupFloat: number at path (float64/int/string), 0 when absent or junk.
func lookupFloat(m map[string]any, path string) float64 {
	switch v := lookupAny(m, path).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}

// lookupArray returns the []any at path or nil.
func lookupArray(m map[string]any, path string) []any {
	if a, ok := lookupAny(m, path).([]any); ok {
		return a
	}
	return nil
}

func asObject(v any) map[string]any {
	if o, ok := v.(map[string]any); ok {
		return o
	}
	return nil
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

/********** hotel mapper **********/

// mapHotel normalizes one upstream hotel entry. Missing fields degrade to
// placeholders rather than failing the search.
func mapHotel(h map[string]any) domain.Hotel {
	name := lookupStr(h, "hotel_name")
	if name == "" {
		name = "Unknown"
	}

	// explicit address first; else compose district/zip/city; else Unknown
	address := lookupStr(h, "address")
	if address == "" {
		address = joinNonEmpty(lookupStr(h, "district"), lookupStr(h, "zip"), lookupStr(h, "city"))
	}
	if strings.TrimSpace(address) == "" {
		address = "Unknown"
	}

	external := lookupStr(h, "hotel_id")
	if external == "" {
		external = "N/A"
	}

	return domain.Hotel{
		Name:            name,
		Address:         address,
		Rating:          int(lookupFloat(h, "review_score")), // truncated, not rounded
		Latitude:        lookupFloat(h, "latitude"),
		Longitude:       lookupFloat(h, "longitude"),
		ExternalHotelID: external,
	}
}

/********** room mapper **********/

func mapRoom(hotelID int64, arrival, departure time.Time, room map[string]any) domain.HotelRoom {
	// max_occupancy arrives as a numeric string; junk means 0
	capacity, _ := strconv.Atoi(lookupStr(room, "max_occupancy"))

	external := lookupStr(room, "room_id")
	if external == "" {
		external = "0"
	}

	name := lookupStr(room, "name")
	if name == "" {
		name = "Unknown"
	}

	return domain.HotelRoom{
		HotelID:        hotelID,
		ExternalRoomID: external,
		Name:           name,
		Description:    ptrStr(lookupStr(room, "description")),
		Capacity:       capacity,
		Price:          lookupFloat(room, "product_price_breakdown.gross_amount.value"),
		MealPlan:       ptrStr(lookupStr(room, "mealplan")),
		Refundable:     lookupAny(room, "policy_display_details.refund_during_fc.title_details.translation") != nil,
		ArrivalDate:    arrival,
		DepartureDate:  departure,
	}
}
