// internal/adapters/rapid/client.go
package rapid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"holiday_travel/internal/adapters/observability"
)

const dateLayout = "2006-01-02"

// Client talks to the booking-com15 RapidAPI hotel endpoints. It does not
// retry: a single failed call fails the whole operation and the caller decides
// what to do with it.
type Client struct {
	base string
	host string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("bad base URL %q: %w", base, err)
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		host: u.Host,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) SearchDestination(ctx context.Context, query string) (map[string]any, error) {
	q := url.Values{}
	q.Set("query", query)
	var out map[string]any
	return out, c.get(ctx, "searchDestination", q, &out)
}

func (c *Client) SearchHotelsByCoordinates(ctx context.Context, lat, lon float64, arrival, departure time.Time) (map[string]any, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%g", lat))
	q.Set("longitude", fmt.Sprintf("%g", lon))
	q.Set("adults", "1")
	q.Set("room_qty", "1")
	q.Set("units", "metric")
	q.Set("page_number", "1")
	q.Set("locale", "en-us")
	q.Set("currency_code", "EUR")
	q.Set("arrival_date", arrival.Format(dateLayout))
	q.Set("departure_date", departure.Format(dateLayout))
	var out map[string]any
	return out, c.get(ctx, "searchHotelsByCoordinates", q, &out)
}

func (c *Client) RoomListWithAvailability(ctx context.Context, externalHotelID string, arrival, departure time.Time) (map[string]any, error) {
	q := url.Values{}
	q.Set("hotel_id", externalHotelID)
	q.Set("arrival_date", arrival.Format(dateLayout))
	q.Set("departure_date", departure.Format(dateLayout))
	q.Set("adults", "1")
	q.Set("room_qty", "1")
	q.Set("units", "metric")
	q.Set("temperature_unit", "c")
	q.Set("currency_code", "EUR")
	q.Set("languagecode", "en-us")
	var out map[string]any
	return out, c.get(ctx, "getRoomListWithAvailability", q, &out)
}

// ---- Internals ----

var (
	ErrNotFound     = errors.New("rapid: not found")
	ErrUnauthorized = errors.New("rapid: unauthorized")
	ErrForbidden    = errors.New("rapid: forbidden")
)

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	u := c.base + "/" + endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-RapidAPI-Key", c.key)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "holiday-travel/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		observability.ObserveExternal("rapid", endpoint, 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("rapid", endpoint, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return json.NewDecoder(resp.Body).Decode(out)

	case http.StatusNoContent:
		io.Copy(io.Discard, resp.Body)
		return nil

	case http.StatusNotFound:
		return ErrNotFound

	case http.StatusUnauthorized:
		return ErrUnauthorized

	case http.StatusForbidden:
		return ErrForbidden

	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
