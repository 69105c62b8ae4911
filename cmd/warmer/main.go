package main

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"holiday_travel/internal/adapters/observability"
	"holiday_travel/internal/adapters/rapid"
	redisad "holiday_travel/internal/adapters/redis"
	"holiday_travel/internal/app"
	"holiday_travel/internal/shared"
	mysqlrepo "holiday_travel/internal/storage/mysql"
)

// destination is one "City,Country" pair from WARM_DESTINATIONS.
type destination struct{ city, country string }

func parseDestinations(raw string) []destination {
	var out []destination
	for _, part := range strings.Split(raw, ";") {
		fields := strings.SplitN(part, ",", 2)
		if len(fields) != 2 {
			continue
		}
		city := strings.TrimSpace(fields[0])
		country := strings.TrimSpace(fields[1])
		if city == "" || country == "" {
			continue
		}
		out = append(out, destination{city: city, country: country})
	}
	return out
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	dests := parseDestinations(os.Getenv("WARM_DESTINATIONS"))
	if len(dests) == 0 {
		log.Fatal().Msg("WARM_DESTINATIONS is empty (expected \"City,Country;City,Country\")")
	}

	// default window: a one-week stay starting a month out
	arrival := time.Now().AddDate(0, 1, 0)
	departure := arrival.AddDate(0, 0, 7)
	if v := os.Getenv("WARM_ARRIVAL"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			log.Fatal().Err(err).Msg("bad WARM_ARRIVAL")
		}
		arrival = t
	}
	if v := os.Getenv("WARM_DEPARTURE"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			log.Fatal().Err(err).Msg("bad WARM_DEPARTURE")
		}
		departure = t
	}

	log.Info().
		Int("destinations", len(dests)).
		Int("workers", cfg.Workers).
		Str("arrival", arrival.Format("2006-01-02")).
		Str("departure", departure.Format("2006-01-02")).
		Msg("warmer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	api, err := rapid.New("https://"+cfg.RapidHost+"/api/v1/hotels", cfg.RapidKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize rapid client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	svc := app.NewHotelService(api, mysqlrepo.NewHotelRepo(db), mysqlrepo.NewRoomRepo(db), cache, cfg.CacheTTL)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, d := range dests {
		d := d

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(dest destination) {
			defer wg.Done()
			defer sem.Release(1)

			hotels, err := svc.SearchHotels(ctx, dest.city, dest.country, arrival, departure)
			if err != nil {
				log.Warn().Str("city", dest.city).Err(err).Msg("warm failed")
				return
			}
			log.Info().Str("city", dest.city).Int("hotels", len(hotels)).Msg("warm ok")
		}(d)
	}

	wg.Wait()
	log.Info().Msg("warm-up completed")
}
