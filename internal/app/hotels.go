package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"holiday_travel/internal/domain"
)

// HotelService fronts the upstream hotel-search provider and keeps the local
// hotel/room cache reconciled with what it returns.
type HotelService struct {
	api      domain.HotelAPI
	hotels   domain.HotelRepository
	rooms    domain.HotelRoomRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewHotelService(api domain.HotelAPI, hotels domain.HotelRepository, rooms domain.HotelRoomRepository, cache domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{api: api, hotels: hotels, rooms: rooms, cache: cache, cacheTTL: ttl}
}

const dateLayout = "2006-01-02"

func searchKey(city, country string, arrival, departure time.Time) string {
	return fmt.Sprintf("hotels:%s:%s:%s:%s",
		strings.ToLower(city), strings.ToLower(country),
		arrival.Format(dateLayout), departure.Format(dateLayout))
}

// SearchHotels resolves the city to coordinates, fetches hotels for the stay,
// and inserts any hotel whose external id is not yet cached locally. The
// returned set is the freshly normalized upstream result, not the merged
// cache.
func (s *HotelService) SearchHotels(ctx context.Context, city, country string, arrival, departure time.Time) ([]domain.Hotel, error) {
	key := searchKey(city, country, arrival, departure)
	if s.cache != nil {
		var cached []domain.Hotel
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	dest, err := s.api.SearchDestination(ctx, city)
	if err != nil {
		return nil, err
	}

	// first candidate that is a city and mentions both the requested country
	// and city; anything else is a geocode miss
	var match map[string]any
	for _, item := range lookupArray(dest, "data") {
		obj := asObject(item)
		if obj == nil {
			continue
		}
		if lookupStr(obj, "dest_type") != "city" {
			continue
		}
		if !strings.Contains(strings.ToLower(lookupStr(obj, "country")), strings.ToLower(country)) {
			continue
		}
		if !strings.Contains(strings.ToLower(lookupStr(obj, "name")), strings.ToLower(city)) {
			continue
		}
		match = obj
		break
	}
	if match == nil {
		return []domain.Hotel{}, nil
	}
	lat, lon := lookupFloat(match, "latitude"), lookupFloat(match, "longitude")
	if lat == 0 || lon == 0 {
		return []domain.Hotel{}, nil
	}

	res, err := s.api.SearchHotelsByCoordinates(ctx, lat, lon, arrival, departure)
	if err != nil {
		return nil, err
	}

	entries := lookupArray(res, "data.result")
	if entries == nil {
		return []domain.Hotel{}, nil
	}

	existing, err := s.hotels.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, h := range existing {
		seen[h.ExternalHotelID] = struct{}{}
	}

	out := make([]domain.Hotel, 0, len(entries))
	for _, e := range entries {
		obj := asObject(e)
		if obj == nil {
			continue
		}
		h := mapHotel(obj)
		out = append(out, h)
		if _, ok := seen[h.ExternalHotelID]; ok {
			continue
		}
		if err := s.hotels.Add(ctx, h); err != nil {
			return nil, fmt.Errorf("cache hotel %s failed: %w", h.ExternalHotelID, err)
		}
		seen[h.ExternalHotelID] = struct{}{}
	}

	log.Debug().Str("city", city).Str("country", country).Int("hotels", len(out)).Msg("hotel search reconciled")

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// RoomsForHotel fetches room availability for a locally cached hotel and
// appends every normalized row to the room store. An unknown external hotel id
// returns a nil slice before any upstream call; an empty slice means the hotel
// exists but has no availability.
func (s *HotelService) RoomsForHotel(ctx context.Context, externalHotelID string, arrival, departure time.Time) ([]domain.HotelRoom, error) {
	hotel, err := s.hotels.GetByExternalID(ctx, externalHotelID)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, nil
	}

	res, err := s.api.RoomListWithAvailability(ctx, externalHotelID, arrival, departure)
	if err != nil {
		return nil, err
	}

	entries := lookupArray(res, "available")
	if entries == nil {
		return []domain.HotelRoom{}, nil
	}

	out := make([]domain.HotelRoom, 0, len(entries))
	for _, e := range entries {
		obj := asObject(e)
		if obj == nil {
			continue
		}
		room := mapRoom(hotel.ID, arrival, departure, obj)
		if err := s.rooms.Add(ctx, room); err != nil {
			return nil, fmt.Errorf("cache room %s failed: %w", room.ExternalRoomID, err)
		}
		out = append(out, room)
	}

	log.Debug().Str("hotel", externalHotelID).Int("rooms", len(out)).Msg("room availability cached")
	return out, nil
}
